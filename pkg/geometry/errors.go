package geometry

import "errors"

var (
	// ErrInvalidParameter is returned for bad intervals, split counts or ratios.
	ErrInvalidParameter = errors.New("geometry: invalid parameter")

	// ErrIncompleteConfiguration is returned by GridBuilder.Build when an axis is unset.
	ErrIncompleteConfiguration = errors.New("geometry: incomplete grid configuration")

	// ErrOutOfDomain is returned when a point lies outside the grid's bounding box.
	ErrOutOfDomain = errors.New("geometry: point outside grid domain")
)
