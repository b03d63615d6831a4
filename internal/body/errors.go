package body

import "errors"

var (
	// ErrEmptyShape indicates a body was built from a polygon with no vertices.
	ErrEmptyShape = errors.New("body: shape has no vertices")

	// ErrInvalidMass indicates a mass that is not positive (or is NaN).
	ErrInvalidMass = errors.New("body: mass must be positive or +Inf")

	// ErrInvalidShape indicates a vertex with NaN or Inf coordinates.
	ErrInvalidShape = errors.New("body: shape has non-finite vertex")
)
