package figure

import (
	"math"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	// yTickTarget is the preferred number of y ticks.
	yTickTarget = 6
	// axisMargin widens data limits on each side, as a share of the span.
	axisMargin = 0.05
	// monthLabel formats major x tick labels.
	monthLabel = "2006-01"
)

// plainNumber formats y values as decimals, never in scientific notation.
func plainNumber(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// niceTicks returns evenly spaced y ticks on 1/2/2.5/5 x 10^k steps covering
// [min, max].
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		pad := math.Abs(min) * axisMargin
		if pad == 0 {
			pad = 1
		}
		min, max = min-pad, max+pad
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	best, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		if score := math.Abs(count - float64(n)); score < bestScore {
			best, bestScore = step, score
		}
	}

	start := math.Floor(min/best) * best
	end := math.Ceil(max/best) * best
	var ticks []chart.Tick
	for i := 0; ; i++ {
		v := start + float64(i)*best
		if v > end+best/2 {
			break
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: plainNumber(v)})
	}
	return ticks
}

// timeRange pads [min, max] by the axis margin; a single instant gets one
// day on each side.
func timeRange(min, max time.Time) *chart.ContinuousRange {
	pad := time.Duration(float64(max.Sub(min)) * axisMargin)
	if pad <= 0 {
		pad = 24 * time.Hour
	}
	return &chart.ContinuousRange{
		Min: chart.TimeToFloat64(min.Add(-pad)),
		Max: chart.TimeToFloat64(max.Add(pad)),
	}
}

// monthTicks lays out x ticks at every minor month start, labelled only at
// the major ones, plus one grid line per major tick. go-chart narrows the
// axis to the outermost ticks, so unlabelled ticks pin both ends of rng.
func monthTicks(rng *chart.ContinuousRange, major, minor []time.Time) ([]chart.Tick, []chart.GridLine) {
	labelled := make(map[int64]bool, len(major))
	for _, t := range major {
		labelled[t.UnixNano()] = true
	}

	ticks := make([]chart.Tick, 0, len(minor)+2)
	grid := make([]chart.GridLine, 0, len(major))
	ticks = append(ticks, chart.Tick{Value: rng.Min})
	for _, t := range minor {
		v := chart.TimeToFloat64(t)
		if labelled[t.UnixNano()] {
			ticks = append(ticks, chart.Tick{Value: v, Label: t.Format(monthLabel)})
			grid = append(grid, chart.GridLine{Value: v})
			continue
		}
		ticks = append(ticks, chart.Tick{Value: v})
	}
	ticks = append(ticks, chart.Tick{Value: rng.Max})
	return ticks, grid
}

// valueGrid draws one major grid line per y tick.
func valueGrid(ticks []chart.Tick) []chart.GridLine {
	grid := make([]chart.GridLine, len(ticks))
	for i, t := range ticks {
		grid[i] = chart.GridLine{Value: t.Value}
	}
	return grid
}
