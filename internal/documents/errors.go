package documents

import "errors"

var (
	// ErrNotFound is returned when a document does not exist or belongs to a
	// different user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidInput indicates a caller-supplied field failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
