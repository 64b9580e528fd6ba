package api

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/wastewater/internal/domain/cleaning"
	"github.com/okian/wastewater/internal/domain/model"
	"github.com/okian/wastewater/pkg/logger"
)

// CleanHandler handles POST /v1/clean.
type CleanHandler struct {
	deps Dependencies
	up   uploader
}

// cleanResponse is the JSON body of a successful clean.
type cleanResponse struct {
	Count int         `json:"count"`
	Rows  []model.Row `json:"rows"`
}

// HandleClean cleans the uploaded table. The cleaned rows are returned as
// JSON, or as CSV when the client accepts text/csv.
func (h *CleanHandler) HandleClean(w http.ResponseWriter, r *http.Request) {
	const op = "api.clean"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, op)
		return
	}

	body, format, _, err := h.up.open(w, r, op)
	if err != nil {
		h.up.fail(w, r, err)
		return
	}

	df, err := h.deps.Clean(r.Context(), body, format)
	if err != nil {
		h.up.fail(w, r, err)
		return
	}

	if acceptsCSV(r) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("X-Row-Count", strconv.Itoa(df.Nrow()))
		if err := df.WriteCSV(w); err != nil {
			h.up.log.Error(r.Context(), "write csv failed", logger.Error(err))
		}
		return
	}

	samples, err := cleaning.Samples(df)
	if err != nil {
		h.up.fail(w, r, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, cleanResponse{Count: len(samples), Rows: cleaning.Rows(samples)})
}

func acceptsCSV(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		if mt, _, err := mime.ParseMediaType(strings.TrimSpace(part)); err == nil && mt == "text/csv" {
			return true
		}
	}
	return false
}
