package source

import "errors"

var (
	// ErrUnsupportedFormat is returned for an input format without a reader.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrMalformed is returned when the input cannot be decoded.
	ErrMalformed = errors.New("malformed input")
	// ErrNoHeader is returned when a spreadsheet has no header row.
	ErrNoHeader = errors.New("input has no header row")
	// ErrSheetNotFound is returned when the configured sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)
