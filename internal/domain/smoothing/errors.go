package smoothing

import "errors"

// Sentinel errors for this package.
var (
	ErrLengthMismatch = errors.New("x and y lengths differ")
	ErrFraction       = errors.New("fraction must be in (0, 1]")
	ErrIterations     = errors.New("iterations must not be negative")
)
