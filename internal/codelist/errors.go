package codelist

import "errors"

var (
	// ErrClassificationUnavailable means the definition could not be
	// retrieved or parsed. It is fatal to the run.
	ErrClassificationUnavailable = errors.New("classification unavailable")

	// ErrDimensionNotFound means the definition has no usable reference area
	// dimension. It is fatal to the run.
	ErrDimensionNotFound = errors.New("dimension not found")
)
