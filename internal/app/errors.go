package service

import (
	"errors"

	"github.com/okian/wastewater/internal/adapters/figure"
	"github.com/okian/wastewater/internal/adapters/source"
	"github.com/okian/wastewater/internal/domain/cleaning"
)

// ErrUnsupportedImage is returned for image encodings other than png and svg.
var ErrUnsupportedImage = errors.New("unsupported image format")

// errorType labels err for the error metrics.
func errorType(err error) string {
	switch {
	case errors.Is(err, cleaning.ErrSchema):
		return "schema"
	case errors.Is(err, cleaning.ErrParse):
		return "parse"
	case errors.Is(err, figure.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, source.ErrMalformed), errors.Is(err, source.ErrNoHeader), errors.Is(err, source.ErrSheetNotFound):
		return "malformed"
	case errors.Is(err, source.ErrUnsupportedFormat), errors.Is(err, ErrUnsupportedImage):
		return "unsupported_format"
	default:
		return "internal"
	}
}
