package gallery

import "errors"

// Sentinel errors returned by the navigator.
var (
	// ErrEmptyCollection is returned when a navigator is built over zero paths.
	ErrEmptyCollection = errors.New("empty media collection")
	// ErrInvalidStep is returned by paged movement when step < 1.
	ErrInvalidStep = errors.New("invalid step")
	// ErrInvalidLayout is returned for unknown layout names or a grid page size < 1.
	ErrInvalidLayout = errors.New("invalid layout")
)
