// Package smoothing implements locally weighted scatterplot smoothing.
package smoothing

// Defaults follow Cleveland's LOWESS: two thirds of the points per local fit
// and three robustifying passes.
const (
	DefaultFraction   = 2.0 / 3.0
	DefaultIterations = 3
)

// Option applies a configuration option to a Lowess call.
type Option func(*settings)

type settings struct {
	fraction   float64
	iterations int
}

// WithFraction sets the share of points (0, 1] used for each local fit.
func WithFraction(f float64) Option {
	return func(s *settings) {
		s.fraction = f
	}
}

// WithIterations sets the number of robustifying passes after the first fit.
// Zero disables robustness weighting.
func WithIterations(n int) Option {
	return func(s *settings) {
		s.iterations = n
	}
}
