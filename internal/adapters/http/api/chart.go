package api

import (
	"bytes"
	"net/http"
	"strconv"

	service "github.com/okian/wastewater/internal/app"
)

// ChartHandler handles POST /v1/chart.
type ChartHandler struct {
	deps         Dependencies
	up           uploader
	defaultImage string
}

var imageContentTypes = map[string]string{
	service.ImagePNG: "image/png",
	service.ImageSVG: "image/svg+xml",
}

// HandleChart cleans the uploaded table and answers with the chart image.
// The image is encoded into a buffer first so that encoding errors can still
// be reported as JSON.
func (h *ChartHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.chart"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, op)
		return
	}

	body, format, q, err := h.up.open(w, r, op)
	if err != nil {
		h.up.fail(w, r, err)
		return
	}
	image := q.Image
	if image == "" {
		image = h.defaultImage
	}

	fig, err := h.deps.Chart(r.Context(), body, format)
	if err != nil {
		h.up.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.deps.WriteChart(r.Context(), fig, image, &buf); err != nil {
		h.up.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", imageContentTypes[image])
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Figure-ID", fig.ID.String())
	w.Header().Set("X-Sample-Count", strconv.Itoa(len(fig.Samples)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
