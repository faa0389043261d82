package spline

import (
	"errors"

	"splinefit/pkg/geometry"
)

var (
	// ErrNotAllocated is returned when a spline is requested before Allocate.
	ErrNotAllocated = errors.New("spline: space not allocated")

	// ErrInvalidParameter is the geometry sentinel, reused for bad smoothing
	// parameters, weights and values.
	ErrInvalidParameter = geometry.ErrInvalidParameter

	// ErrOutOfDomain is the geometry sentinel for points outside the grid.
	ErrOutOfDomain = geometry.ErrOutOfDomain
)
