package smoothing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Point is one smoothed observation.
type Point struct {
	X float64
	Y float64
}

const (
	// fractionEpsilon absorbs float error in fraction*n before truncation.
	fractionEpsilon = 1e-10
	// flatWindow is the spread, relative to the x range, below which a local
	// window is treated as a single x value and fitted by its weighted mean.
	flatWindow = 1e-3
	// bisquareScale multiplies the median absolute residual.
	bisquareScale = 6.0
)

// Lowess fits a locally weighted linear regression through (xs, ys) and
// returns one smoothed point per input pair, ordered by x. Pairs with a NaN
// coordinate are dropped first. Points sharing an x value share a fit.
func Lowess(xs, ys []float64, opts ...Option) ([]Point, error) {
	cfg := settings{fraction: DefaultFraction, iterations: DefaultIterations}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("lowess: %w (%d != %d)", ErrLengthMismatch, len(xs), len(ys))
	}
	if !(cfg.fraction > 0 && cfg.fraction <= 1) {
		return nil, fmt.Errorf("lowess: %w: %v", ErrFraction, cfg.fraction)
	}
	if cfg.iterations < 0 {
		return nil, fmt.Errorf("lowess: %w: %d", ErrIterations, cfg.iterations)
	}

	pts := make([]Point, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, Point{X: xs[i], Y: ys[i]})
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

	n := len(pts)
	if n < 2 {
		return pts, nil
	}

	x := make([]float64, n)
	y := make([]float64, n)
	for i, p := range pts {
		x[i], y[i] = p.X, p.Y
	}

	k := int(cfg.fraction*float64(n) + fractionEpsilon)
	if k < 2 {
		k = 2
	}
	if k > n {
		k = n
	}

	f := &fitter{
		x:      x,
		y:      y,
		k:      k,
		span:   floats.Max(x) - floats.Min(x),
		robust: make([]float64, n),
		fit:    make([]float64, n),
		wx:     make([]float64, 0, k),
		wy:     make([]float64, 0, k),
		ww:     make([]float64, 0, k),
	}
	for i := range f.robust {
		f.robust[i] = 1
	}

	for pass := 0; ; pass++ {
		f.smooth()
		if pass == cfg.iterations {
			break
		}
		if !f.reweight() {
			break
		}
	}

	for i := range pts {
		pts[i].Y = f.fit[i]
	}
	return pts, nil
}

type fitter struct {
	x, y   []float64
	k      int
	span   float64
	robust []float64
	fit    []float64

	// scratch buffers reused across local fits
	wx, wy, ww []float64
}

// smooth runs one pass of local fits with the current robustness weights.
func (f *fitter) smooth() {
	n := len(f.x)
	left, right := 0, f.k
	for i := 0; i < n; {
		xi := f.x[i]
		// Slide the k-point window while its right side is closer to xi.
		for right < n && xi > (f.x[left]+f.x[right])/2 {
			left++
			right++
		}
		f.fit[i] = f.local(i, left, right)

		j := i + 1
		for j < n && f.x[j] == xi {
			f.fit[j] = f.fit[i]
			j++
		}
		i = j
	}
}

// local returns the fitted value at x[i] from the window [left, right).
func (f *fitter) local(i, left, right int) float64 {
	xi := f.x[i]
	radius := math.Max(xi-f.x[left], f.x[right-1]-xi)

	f.wx, f.wy, f.ww = f.wx[:0], f.wy[:0], f.ww[:0]
	for j := left; j < right; j++ {
		w := f.robust[j]
		if radius > 0 {
			w *= tricube(math.Abs(f.x[j]-xi) / radius)
		}
		if w <= 0 {
			continue
		}
		// Centre on xi so the intercept is the fitted value.
		f.wx = append(f.wx, f.x[j]-xi)
		f.wy = append(f.wy, f.y[j])
		f.ww = append(f.ww, w)
	}

	if len(f.ww) < 2 {
		return f.y[i]
	}

	_, variance := stat.PopMeanVariance(f.wx, f.ww)
	if math.Sqrt(variance) <= flatWindow*f.span {
		return stat.Mean(f.wy, f.ww)
	}
	alpha, _ := stat.LinearRegression(f.wx, f.wy, f.ww, false)
	return alpha
}

// reweight derives bisquare robustness weights from the current residuals.
// It reports false when the residuals are all zero and further passes would
// not change the fit.
func (f *fitter) reweight() bool {
	abs := make([]float64, len(f.y))
	for i := range f.y {
		abs[i] = math.Abs(f.y[i] - f.fit[i])
	}
	scale := bisquareScale * median(abs)
	if scale == 0 {
		return false
	}
	for i, r := range abs {
		f.robust[i] = bisquare(r / scale)
	}
	return true
}

func tricube(d float64) float64 {
	if d >= 1 {
		return 0
	}
	c := 1 - d*d*d
	return c * c * c
}

func bisquare(u float64) float64 {
	if u >= 1 {
		return 0
	}
	c := 1 - u*u
	return c * c
}

// median sorts a copy of v and returns its middle value, averaging the two
// central values for even lengths.
func median(v []float64) float64 {
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}
	return (s[m-1] + s[m]) / 2
}
