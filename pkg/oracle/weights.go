package oracle

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"splinefit/pkg/geometry"
	"splinefit/pkg/spline"
)

// AssignWeights sets the weight of every sample that coincides with one of
// the anchors (within eps on both axes) to on, and all others to off. The
// anchors are indexed in a k-d tree so large sample sets stay cheap.
func AssignWeights(samples []spline.WeightedSample, anchors []geometry.Point, eps, on, off float64) []spline.WeightedSample {
	out := make([]spline.WeightedSample, len(samples))
	copy(out, samples)
	if len(anchors) == 0 {
		for i := range out {
			out[i].Weight = off
		}
		return out
	}

	points := make(kdtree.Points, len(anchors))
	for i, a := range anchors {
		points[i] = kdtree.Point{a.X, a.Y}
	}
	tree := kdtree.New(points, false)

	for i, s := range out {
		nearest, _ := tree.Nearest(kdtree.Point{s.Point.X, s.Point.Y})
		q := nearest.(kdtree.Point)
		if math.Abs(q[0]-s.Point.X) <= eps && math.Abs(q[1]-s.Point.Y) <= eps {
			out[i].Weight = on
		} else {
			out[i].Weight = off
		}
	}
	return out
}

// CoincidentCount returns how many samples coincide with an anchor.
func CoincidentCount(samples []spline.WeightedSample, anchors []geometry.Point, eps float64) int {
	marked := AssignWeights(samples, anchors, eps, 1, 0)
	n := 0
	for _, s := range marked {
		if s.Weight == 1 {
			n++
		}
	}
	return n
}
