// Package figure turns a cleaned concentration table into a chart: a scatter
// of the samples, a LOWESS trend line and month-based date ticks.
package figure

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/wastewater/internal/domain/calendar"
	"github.com/okian/wastewater/internal/domain/cleaning"
	"github.com/okian/wastewater/internal/domain/model"
	"github.com/okian/wastewater/internal/domain/smoothing"
)

// Chart constants. The smoothing parameters are fixed.
const (
	TrendFraction   = 0.1
	TrendIterations = 3

	XAxisName = "Sample Collection Date"
	YAxisName = "Gene Copies per Liter (gc/L)"

	majorEvery = 2
	minorEvery = 1

	dotWidth   = 2.0
	trendWidth = 1.5
	gridWidth  = 0.5
	labelPad   = 20
	tickAngle  = 45.0
)

var (
	scatterColor = drawing.ColorFromHex("1E90FF") // dodgerblue
	trendColor   = drawing.ColorFromHex("FF8C00") // darkorange
	gridColor    = drawing.ColorFromHex("D3D3D3") // lightgrey
	gridDash     = []float64{3, 3}
)

// Figure is a fully configured chart that has not been drawn yet. Callers
// export it with Render(chart.PNG, w) or Render(chart.SVG, w).
type Figure struct {
	chart.Chart

	ID         uuid.UUID
	Samples    []model.Sample
	Trend      []model.Sample
	MajorTicks []time.Time
	MinorTicks []time.Time
}

// Renderer builds figures. It holds only immutable settings, so one value
// may serve concurrent calls.
type Renderer struct {
	width  int
	height int
	dpi    float64
	title  string
}

// NewRenderer creates a Renderer with a 1200x500 canvas.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		width:  defaultWidth,
		height: defaultHeight,
		dpi:    defaultDPI,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render builds the figure for a cleaned table. A table without rows fails
// with EmptyInputError.
func (r *Renderer) Render(ctx context.Context, cleaned dataframe.DataFrame) (*Figure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samples, err := cleaning.Samples(cleaned)
	if err != nil {
		return nil, err
	}
	return r.Build(ctx, samples)
}

// Build is Render for already decoded samples.
func (r *Renderer) Build(ctx context.Context, samples []model.Sample) (*Figure, error) {
	if len(samples) == 0 {
		return nil, &EmptyInputError{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trend, err := trendLine(samples)
	if err != nil {
		return nil, err
	}

	first, last := dateSpan(samples)
	major := calendar.MonthStarts(first, last, majorEvery)
	minor := calendar.MonthStarts(first, last, minorEvery)

	fig := &Figure{
		ID:         uuid.New(),
		Samples:    samples,
		Trend:      trend,
		MajorTicks: major,
		MinorTicks: minor,
	}
	fig.Chart = chart.Chart{
		Title:  r.title,
		Width:  r.width,
		Height: r.height,
		DPI:    r.dpi,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: labelPad, Right: 20, Bottom: labelPad},
		},
		XAxis: r.xAxis(first, last, major, minor),
		YAxis: r.yAxis(samples, trend),
		Series: []chart.Series{
			scatterSeries(samples),
			trendSeries(trend),
		},
	}
	return fig, nil
}

// trendLine smooths concentration over ordinal days and maps the fitted
// ordinals back to whole-day dates.
func trendLine(samples []model.Sample) ([]model.Sample, error) {
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(calendar.Ordinal(s.CollectedAt))
		ys[i] = s.Concentration
	}

	points, err := smoothing.Lowess(xs, ys,
		smoothing.WithFraction(TrendFraction),
		smoothing.WithIterations(TrendIterations),
	)
	if err != nil {
		return nil, fmt.Errorf("smooth trend: %w", err)
	}

	trend := make([]model.Sample, len(points))
	for i, p := range points {
		trend[i] = model.Sample{
			CollectedAt:   calendar.FromOrdinal(int(p.X)),
			Concentration: p.Y,
		}
	}
	return trend, nil
}

func dateSpan(samples []model.Sample) (time.Time, time.Time) {
	first, last := samples[0].CollectedAt, samples[0].CollectedAt
	for _, s := range samples[1:] {
		if s.CollectedAt.Before(first) {
			first = s.CollectedAt
		}
		if s.CollectedAt.After(last) {
			last = s.CollectedAt
		}
	}
	return first, last
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor:     gridColor,
		StrokeWidth:     gridWidth,
		StrokeDashArray: gridDash,
	}
}

func (r *Renderer) xAxis(first, last time.Time, major, minor []time.Time) chart.XAxis {
	rng := timeRange(first, last)
	axis := chart.XAxis{
		Name:      XAxisName,
		NameStyle: chart.Style{Padding: chart.Box{Top: labelPad}},
		Range:     rng,
		TickStyle: chart.Style{
			TextRotationDegrees: tickAngle,
			TextHorizontalAlign: chart.TextHorizontalAlignRight,
		},
		GridMajorStyle: gridStyle(),
		GridMinorStyle: gridStyle(),
		ValueFormatter: chart.TimeDateValueFormatter,
	}
	// Without a month start inside the span the axis falls back to
	// generated date ticks.
	if len(minor) > 0 {
		ticks, grid := monthTicks(rng, major, minor)
		axis.Ticks = ticks
		axis.GridLines = grid
	}
	return axis
}

func (r *Renderer) yAxis(samples, trend []model.Sample) chart.YAxis {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, set := range [][]model.Sample{samples, trend} {
		for _, s := range set {
			lo = math.Min(lo, s.Concentration)
			hi = math.Max(hi, s.Concentration)
		}
	}
	margin := (hi - lo) * axisMargin
	ticks := niceTicks(lo-margin, hi+margin, yTickTarget)
	if len(ticks) < 2 {
		ticks = []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}}
	}

	return chart.YAxis{
		Name:      YAxisName,
		NameStyle: chart.Style{Padding: chart.Box{Right: labelPad}},
		Range: &chart.ContinuousRange{
			Min: ticks[0].Value,
			Max: ticks[len(ticks)-1].Value,
		},
		Ticks:          ticks,
		GridLines:      valueGrid(ticks),
		GridMajorStyle: gridStyle(),
		GridMinorStyle: gridStyle(),
		ValueFormatter: plainNumber,
	}
}

func scatterSeries(samples []model.Sample) chart.TimeSeries {
	ts := chart.TimeSeries{
		Name: "samples",
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    dotWidth,
			DotColor:    scatterColor,
		},
		XValues: make([]time.Time, len(samples)),
		YValues: make([]float64, len(samples)),
	}
	for i, s := range samples {
		ts.XValues[i] = s.CollectedAt
		ts.YValues[i] = s.Concentration
	}
	return ts
}

func trendSeries(trend []model.Sample) chart.TimeSeries {
	ts := chart.TimeSeries{
		Name: "lowess",
		Style: chart.Style{
			StrokeColor: trendColor,
			StrokeWidth: trendWidth,
		},
		XValues: make([]time.Time, len(trend)),
		YValues: make([]float64, len(trend)),
	}
	for i, s := range trend {
		ts.XValues[i] = s.CollectedAt
		ts.YValues[i] = s.Concentration
	}
	return ts
}
