package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/wastewater/internal/app"
	"github.com/okian/wastewater/internal/adapters/figure"
	"github.com/okian/wastewater/internal/adapters/source"
	"github.com/okian/wastewater/internal/domain/cleaning"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrTooLarge   = errors.New("request body too large")
	ErrInternal   = errors.New("internal error")
)

// KindError tags an error with the operation that raised it and a sentinel
// kind callers can match with errors.Is.
type KindError struct {
	Op   string
	Kind error
	Err  error
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &KindError{Op: op, Kind: kind}
}

// WrapKind wraps err as an error of the given kind raised by op.
func WrapKind(op string, kind, err error) error {
	return &KindError{Op: op, Kind: kind, Err: err}
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// classify maps a pipeline error to an HTTP status and error code.
func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, ErrTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, cleaning.ErrSchema):
		return http.StatusBadRequest, "schema_error"
	case errors.Is(err, cleaning.ErrParse):
		return http.StatusBadRequest, "parse_error"
	case errors.Is(err, figure.ErrEmptyInput):
		return http.StatusUnprocessableEntity, "empty_input"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, source.ErrUnsupportedFormat),
		errors.Is(err, source.ErrMalformed),
		errors.Is(err, source.ErrNoHeader),
		errors.Is(err, source.ErrSheetNotFound),
		errors.Is(err, service.ErrUnsupportedImage):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
