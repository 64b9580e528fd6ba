// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-gota/gota/dataframe"

	"github.com/okian/wastewater/internal/adapters/figure"
	"github.com/okian/wastewater/internal/adapters/source"
	"github.com/okian/wastewater/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Clean loads and cleans a raw table.
	Clean(ctx context.Context, r io.Reader, format source.Format) (dataframe.DataFrame, error)

	// Chart loads, cleans and renders a figure.
	Chart(ctx context.Context, r io.Reader, format source.Format) (*figure.Figure, error)

	// WriteChart encodes a figure as png or svg.
	WriteChart(ctx context.Context, fig *figure.Figure, image string, w io.Writer) error
}

// Default request body cap.
const defaultMaxUploadBytes = 32 << 20

// Server wires HTTP routes for the pipeline API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	cleanHandler  *CleanHandler
	chartHandler  *ChartHandler
}

// ServerOption configures NewServer.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxUploadBytes int64
	defaultImage   string
	logger         logger.Logger
}

// WithMaxUploadBytes caps request bodies on the upload endpoints.
func WithMaxUploadBytes(n int64) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// WithDefaultImage sets the image encoding used when ?image is absent.
func WithDefaultImage(image string) ServerOption {
	return func(c *serverConfig) {
		if image != "" {
			c.defaultImage = image
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{maxUploadBytes: defaultMaxUploadBytes, defaultImage: "png"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get()
	}
	up := uploader{maxBytes: cfg.maxUploadBytes, log: cfg.logger}

	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		cleanHandler:  &CleanHandler{deps: deps, up: up},
		chartHandler:  &ChartHandler{deps: deps, up: up, defaultImage: cfg.defaultImage},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/clean", RequestIDMiddleware(MetricsMiddleware(s.cleanHandler.HandleClean, "clean")))
	mux.HandleFunc("/v1/chart", RequestIDMiddleware(MetricsMiddleware(s.chartHandler.HandleChart, "chart")))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestIDFromContext(r.Context())})
}
