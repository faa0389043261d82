package spline

import (
	"fmt"
	"math"

	"splinefit/pkg/geometry"
)

// WeightedSample is a measured value at a point. A zero weight keeps the
// sample in the set without letting it influence the fit.
type WeightedSample struct {
	Point  geometry.Point
	Value  float64
	Weight float64
}

// NewWeightedSample creates a sample
func NewWeightedSample(p geometry.Point, value, weight float64) WeightedSample {
	return WeightedSample{Point: p, Value: value, Weight: weight}
}

func (s WeightedSample) validate() error {
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return fmt.Errorf("sample value %g: %w", s.Value, ErrInvalidParameter)
	}
	if math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) || s.Weight < 0 {
		return fmt.Errorf("sample weight %g: %w", s.Weight, ErrInvalidParameter)
	}
	return nil
}
