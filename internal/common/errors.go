package common

import "errors"

var (
	// ErrInvalidParameter marks malformed or out-of-range construction arguments
	// (non-positive radius or width, zero counts, non-positive spacing).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidArgument marks an operation called on structurally insufficient
	// input, such as an empty path or a path too short to form a curvature triangle.
	ErrInvalidArgument = errors.New("invalid argument")
)
