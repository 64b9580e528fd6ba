package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/wastewater/internal/adapters/source"
	"github.com/okian/wastewater/pkg/logger"
)

var validate = validator.New()

// uploadQuery mirrors the query parameters accepted by the upload endpoints.
type uploadQuery struct {
	Format string `validate:"omitempty,oneof=csv xlsx json"`
	Image  string `validate:"omitempty,oneof=png svg"`
}

// contentTypes maps request media types to input formats.
var contentTypes = map[string]source.Format{
	"text/csv":         source.CSV,
	"application/csv":  source.CSV,
	"application/json": source.JSON,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": source.XLSX,
}

// uploader validates upload requests and caps their bodies.
type uploader struct {
	maxBytes int64
	log      logger.Logger
}

// open checks method and query, then returns the capped body and its
// format. ?format wins over Content-Type; CSV is the fallback.
func (u uploader) open(w http.ResponseWriter, r *http.Request, op string) (io.Reader, source.Format, uploadQuery, error) {
	q := uploadQuery{
		Format: r.URL.Query().Get("format"),
		Image:  r.URL.Query().Get("image"),
	}
	if err := validate.Struct(q); err != nil {
		return nil, "", q, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid query: %w", err))
	}

	format := source.CSV
	if q.Format != "" {
		format = source.Format(q.Format)
	} else if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		if f, ok := contentTypes[mt]; ok {
			format = f
		}
	}

	return http.MaxBytesReader(w, r.Body, u.maxBytes), format, q, nil
}

// fail logs err and answers with the mapped status.
func (u uploader) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	fields := []logger.Field{
		logger.String("request_id", RequestIDFromContext(r.Context())),
		logger.String("path", r.URL.Path),
		logger.Int("status", status),
		logger.Error(err),
	}
	if status >= http.StatusInternalServerError {
		u.log.Error(r.Context(), "request failed", fields...)
	} else {
		u.log.Info(r.Context(), "request rejected", fields...)
	}
	writeError(w, r, status, code, err)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, op string) {
	w.Header().Set("Allow", http.MethodPost)
	writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrBadRequest))
}
