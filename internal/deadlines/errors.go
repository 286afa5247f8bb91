package deadlines

import "errors"

var (
	// ErrNotFound is returned when a deadline does not exist or belongs to a
	// different user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("deadline not found")

	// ErrInvalidInput indicates a caller-supplied field failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
