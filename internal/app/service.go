// Package service wires loading, cleaning and rendering into the pipeline
// used by the HTTP API and the command line tools.
package service

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/okian/wastewater/internal/adapters/figure"
	"github.com/okian/wastewater/internal/adapters/source"
	"github.com/okian/wastewater/internal/domain/cleaning"
	"github.com/okian/wastewater/pkg/logger"
	"github.com/okian/wastewater/pkg/metrics"
)

// Image encodings accepted by WriteChart.
const (
	ImagePNG = "png"
	ImageSVG = "svg"
)

// Service runs the load, clean and render stages. Each call is independent;
// the service only keeps counters.
type Service struct {
	mu sync.RWMutex

	renderer *figure.Renderer
	sheet    string

	started    bool
	lastReport cleaning.Report
	lastRun    time.Time

	tablesCleaned atomic.Int64
	chartsBuilt   atomic.Int64
	chartsWritten atomic.Int64
	failures      atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderer replaces the default figure renderer.
func WithRenderer(r *figure.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithSheet selects the workbook sheet read from XLSX input.
func WithSheet(name string) Option {
	return func(s *Service) {
		s.sheet = name
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		renderer: figure.NewRenderer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start marks the service ready and resolves the global logger when none was
// given.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.logger.Info(ctx, "wastewater service started", logger.String("sheet", s.sheet))
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "wastewater service stopped")
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

// Clean loads a raw table from r and cleans it.
func (s *Service) Clean(ctx context.Context, r io.Reader, format source.Format) (dataframe.DataFrame, error) {
	start := time.Now()

	raw, err := source.Load(ctx, r, format, source.WithSheet(s.sheet))
	if err != nil {
		return dataframe.DataFrame{}, s.fail(ctx, "source", err)
	}

	cleaned, rep, err := cleaning.ProcessWithReport(raw)
	if err != nil {
		return dataframe.DataFrame{}, s.fail(ctx, "cleaner", err)
	}

	metrics.RecordRowsRead(rep.Input)
	metrics.RecordRowsDropped(metrics.ReasonOldMethod, rep.OldMethod)
	metrics.RecordRowsDropped(metrics.ReasonOutlier, rep.Outliers)
	metrics.RecordRowsCleaned(rep.Output)
	metrics.RecordCleanLatency(float64(time.Since(start).Milliseconds()))

	s.mu.Lock()
	s.lastReport = rep
	s.lastRun = time.Now()
	s.mu.Unlock()
	s.tablesCleaned.Add(1)

	s.log().Info(ctx, "table cleaned",
		logger.String("format", string(format)),
		logger.Int("rows_in", rep.Input),
		logger.Int("dropped_old_method", rep.OldMethod),
		logger.Int("dropped_outlier", rep.Outliers),
		logger.Int("rows_out", rep.Output),
	)
	return cleaned, nil
}

// Chart loads, cleans and renders a figure for the table in r.
func (s *Service) Chart(ctx context.Context, r io.Reader, format source.Format) (*figure.Figure, error) {
	cleaned, err := s.Clean(ctx, r, format)
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, cleaned)
}

// Render builds a figure for an already cleaned table.
func (s *Service) Render(ctx context.Context, cleaned dataframe.DataFrame) (*figure.Figure, error) {
	start := time.Now()
	fig, err := s.renderer.Render(ctx, cleaned)
	if err != nil {
		return nil, s.fail(ctx, "renderer", err)
	}

	metrics.RecordRenderLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateTrendPoints(len(fig.Trend))
	s.chartsBuilt.Add(1)

	s.log().Debug(ctx, "figure built",
		logger.String("figure_id", fig.ID.String()),
		logger.Int("samples", len(fig.Samples)),
		logger.Int("major_ticks", len(fig.MajorTicks)),
		logger.Int("minor_ticks", len(fig.MinorTicks)),
	)
	return fig, nil
}

// ParseImageFormat validates an image encoding name; empty means png.
func ParseImageFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(name)); f {
	case "", ImagePNG:
		return ImagePNG, nil
	case ImageSVG:
		return ImageSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, name)
	}
}

// WriteChart encodes fig as png or svg into w.
func (s *Service) WriteChart(ctx context.Context, fig *figure.Figure, image string, w io.Writer) error {
	image, err := ParseImageFormat(image)
	if err != nil {
		return s.fail(ctx, "export", err)
	}

	var provider chart.RendererProvider = chart.PNG
	if image == ImageSVG {
		provider = chart.SVG
	}
	if err := fig.Render(provider, w); err != nil {
		return s.fail(ctx, "export", fmt.Errorf("encode %s: %w", image, err))
	}

	metrics.RecordChartRendered(image)
	s.chartsWritten.Add(1)
	return nil
}

func (s *Service) fail(ctx context.Context, component string, err error) error {
	s.failures.Add(1)
	metrics.RecordErrorByComponent(component, errorType(err))
	s.log().Warn(ctx, "pipeline stage failed",
		logger.String("component", component),
		logger.Error(err),
	)
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()
	metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(goroutines)

	stats := map[string]interface{}{
		"started":       s.started,
		"tablesCleaned": s.tablesCleaned.Load(),
		"chartsBuilt":   s.chartsBuilt.Load(),
		"chartsWritten": s.chartsWritten.Load(),
		"failures":      s.failures.Load(),
		"goroutines":    goroutines,
	}
	if !s.lastRun.IsZero() {
		stats["lastRun"] = s.lastRun.UTC().Format(time.RFC3339)
		stats["lastReport"] = map[string]int{
			"input":     s.lastReport.Input,
			"oldMethod": s.lastReport.OldMethod,
			"outliers":  s.lastReport.Outliers,
			"output":    s.lastReport.Output,
		}
	}
	return stats
}
