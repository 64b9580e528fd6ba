package cleaning

import (
	"errors"
	"fmt"
)

// Sentinel kinds for cleaning errors. SchemaError and ParseError match them
// through errors.Is.
var (
	ErrSchema = errors.New("schema error")
	ErrParse  = errors.New("parse error")
)

// SchemaError reports a raw table that lacks a required column or holds a
// column of the wrong kind.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: column %q %s", e.Column, e.Reason)
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// ParseError reports a retained collection date that could not be parsed.
// Row is the zero-based row index in the raw table.
type ParseError struct {
	Row   int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: row %d: %s %q is not a date", e.Row, columnDate, e.Value)
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }
