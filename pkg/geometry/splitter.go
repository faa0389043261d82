package geometry

import (
	"fmt"
	"math"
)

// Interval is the closed range [Begin, End] of one grid axis.
type Interval struct {
	Begin float64
	End   float64
}

// Validate checks that both bounds are finite and Begin < End.
func (iv Interval) Validate() error {
	if !isFinite(iv.Begin) || !isFinite(iv.End) {
		return fmt.Errorf("interval [%g, %g] has non-finite bounds: %w", iv.Begin, iv.End, ErrInvalidParameter)
	}
	if iv.Begin >= iv.End {
		return fmt.Errorf("interval [%g, %g] is empty: %w", iv.Begin, iv.End, ErrInvalidParameter)
	}
	return nil
}

// Length returns End - Begin.
func (iv Interval) Length() float64 { return iv.End - iv.Begin }

// Splitter produces the ordered node coordinates of an interval.
type Splitter interface {
	Split(iv Interval) ([]float64, error)
}

// UniformSplitter divides an interval into Steps equal segments.
type UniformSplitter struct {
	Steps int
}

// NewUniformSplitter creates a splitter producing steps equal segments
func NewUniformSplitter(steps int) UniformSplitter {
	return UniformSplitter{Steps: steps}
}

// Split returns Steps+1 coordinates. The endpoints are assigned literally and
// interior values are interpolated from them, so no rounding accumulates.
func (s UniformSplitter) Split(iv Interval) ([]float64, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	if s.Steps < 1 {
		return nil, fmt.Errorf("uniform split into %d segments: %w", s.Steps, ErrInvalidParameter)
	}

	values := make([]float64, s.Steps+1)
	values[0] = iv.Begin
	values[s.Steps] = iv.End
	for i := 1; i < s.Steps; i++ {
		t := float64(i) / float64(s.Steps)
		values[i] = iv.Begin + (iv.End-iv.Begin)*t
	}

	return values, checkIncreasing(values)
}

// ProportionalSplitter divides an interval into Steps segments whose lengths
// form a geometric progression: each segment is Ratio times the previous one.
// A Ratio of 1 gives a uniform split.
type ProportionalSplitter struct {
	Steps int
	Ratio float64
}

// NewProportionalSplitter creates a geometric splitter
func NewProportionalSplitter(steps int, ratio float64) ProportionalSplitter {
	return ProportionalSplitter{Steps: steps, Ratio: ratio}
}

// Split returns Steps+1 coordinates with literal endpoints.
func (s ProportionalSplitter) Split(iv Interval) ([]float64, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	if s.Steps < 1 {
		return nil, fmt.Errorf("proportional split into %d segments: %w", s.Steps, ErrInvalidParameter)
	}
	if !isFinite(s.Ratio) || s.Ratio <= 0 {
		return nil, fmt.Errorf("proportional split ratio %g: %w", s.Ratio, ErrInvalidParameter)
	}
	if s.Ratio == 1 {
		return UniformSplitter{Steps: s.Steps}.Split(iv)
	}

	// first step h satisfies h * (1 - q^k) / (1 - q) = length
	q := s.Ratio
	total := (1 - math.Pow(q, float64(s.Steps))) / (1 - q)
	h := iv.Length() / total

	values := make([]float64, s.Steps+1)
	values[0] = iv.Begin
	values[s.Steps] = iv.End
	for i := 1; i < s.Steps; i++ {
		values[i] = iv.Begin + h*(1-math.Pow(q, float64(i)))/(1-q)
	}

	return values, checkIncreasing(values)
}

// AxisSplitParameter pairs an interval with the strategy used to split it.
type AxisSplitParameter struct {
	Interval Interval
	Splitter Splitter
}

// NewAxisSplitParameter creates a split description for one axis.
func NewAxisSplitParameter(iv Interval, splitter Splitter) AxisSplitParameter {
	return AxisSplitParameter{Interval: iv, Splitter: splitter}
}

// Split applies the splitter to the interval.
func (p AxisSplitParameter) Split() ([]float64, error) {
	if p.Splitter == nil {
		return nil, fmt.Errorf("axis split without a splitter: %w", ErrInvalidParameter)
	}
	values, err := p.Splitter.Split(p.Interval)
	if err != nil {
		return nil, err
	}
	if len(values) < 2 || values[0] != p.Interval.Begin || values[len(values)-1] != p.Interval.End {
		return nil, fmt.Errorf("splitter did not reproduce interval endpoints: %w", ErrInvalidParameter)
	}
	return values, nil
}

func checkIncreasing(values []float64) error {
	for i := 1; i < len(values); i++ {
		if !(values[i] > values[i-1]) {
			return fmt.Errorf("split values not strictly increasing at %d (%g, %g): %w",
				i, values[i-1], values[i], ErrInvalidParameter)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
