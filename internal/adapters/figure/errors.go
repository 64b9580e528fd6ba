package figure

import "errors"

// ErrEmptyInput is matched by EmptyInputError through errors.Is.
var ErrEmptyInput = errors.New("empty input")

// EmptyInputError reports a render request for a table without rows; the
// date span of the x axis is undefined for it.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string { return "empty input: cleaned table has no rows" }

// Is reports whether target is ErrEmptyInput.
func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }
