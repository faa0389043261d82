// Package oracle generates synthetic sample sets from known functions. It is
// the test-data source of the command line tool and of the tests; the spline
// package knows nothing about it.
package oracle

import (
	"fmt"
	"math"
	"sort"

	"splinefit/pkg/geometry"
	"splinefit/pkg/spline"
)

// Function is a known surface z = f(x, y).
type Function func(x, y float64) float64

var functions = map[string]Function{
	"sin*cos": func(x, y float64) float64 { return math.Sin(x) * math.Cos(y) },
	"sin+cos": func(x, y float64) float64 { return math.Sin(x) + math.Cos(y) },
	"plane":   func(x, y float64) float64 { return 1 + 2*x - 3*y },
	"paraboloid": func(x, y float64) float64 {
		return x*x + y*y
	},
}

// Lookup returns the named function.
func Lookup(name string) (Function, error) {
	f, ok := functions[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q (known: %v)", name, Names())
	}
	return f, nil
}

// Names lists the registered functions in sorted order.
func Names() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lattice returns the nodes of a uniform split of x and y into segments
// pieces each, row-major by Y then X.
func Lattice(x, y geometry.Interval, segments int) ([]geometry.Point, error) {
	xs, err := geometry.NewUniformSplitter(segments).Split(x)
	if err != nil {
		return nil, fmt.Errorf("lattice x: %w", err)
	}
	ys, err := geometry.NewUniformSplitter(segments).Split(y)
	if err != nil {
		return nil, fmt.Errorf("lattice y: %w", err)
	}

	points := make([]geometry.Point, 0, len(xs)*len(ys))
	for _, py := range ys {
		for _, px := range xs {
			points = append(points, geometry.NewPoint(px, py))
		}
	}
	return points, nil
}

// Diagonal returns n+1 equally spaced points from the lower-left to the
// upper-right corner of r.
func Diagonal(r geometry.Rectangle, n int) []geometry.Point {
	if n < 1 {
		n = 1
	}
	points := make([]geometry.Point, n+1)
	for i := range points {
		t := float64(i) / float64(n)
		points[i] = geometry.NewPoint(r.Min.X+t*r.Width(), r.Min.Y+t*r.Height())
	}
	points[n] = r.Max
	return points
}

// Values samples f at every point with unit weight.
func Values(points []geometry.Point, f Function) []spline.WeightedSample {
	samples := make([]spline.WeightedSample, len(points))
	for i, p := range points {
		samples[i] = spline.NewWeightedSample(p, f(p.X, p.Y), 1)
	}
	return samples
}
