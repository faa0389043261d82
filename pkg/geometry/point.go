// Package geometry builds the structured 2D grids that smoothing splines are
// defined over: per-axis splitting, grid assembly and point location.
package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used for point coincidence and domain checks.
const Epsilon = 1e-16

// Point is an immutable (x, y) pair.
type Point struct {
	X, Y float64
}

// NewPoint creates a point from its coordinates
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Near reports whether p and q coincide within eps on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Rectangle is an axis-aligned bounding box.
type Rectangle struct {
	Min, Max Point
}

// Width returns the extent along X
func (r Rectangle) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the extent along Y
func (r Rectangle) Height() float64 { return r.Max.Y - r.Min.Y }

// Contains reports whether p lies inside r, boundary included.
func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.Min.X-Epsilon && p.X <= r.Max.X+Epsilon &&
		p.Y >= r.Min.Y-Epsilon && p.Y <= r.Max.Y+Epsilon
}
