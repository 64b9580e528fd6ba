package samplegen

import "errors"

var (
	// ErrUnexpectedStatus is returned when the server answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMismatch is returned when the server's cleaning disagrees with the generator.
	ErrMismatch = errors.New("cleaned row count mismatch")
)
