package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestUniformSplit verifies count, monotonicity and literal endpoints for a range of splits
func TestUniformSplit(t *testing.T) {
	intervals := []Interval{{0, 10}, {-1, 1}, {0.1, 0.3}, {-1e6, 3e-3}}
	for _, iv := range intervals {
		for k := 1; k <= 17; k++ {
			values, err := UniformSplitter{Steps: k}.Split(iv)
			require.NoError(t, err)
			require.Len(t, values, k+1)
			require.Equal(t, iv.Begin, values[0])
			require.Equal(t, iv.End, values[k])
			for i := 1; i < len(values); i++ {
				require.Greater(t, values[i], values[i-1])
			}
		}
	}
}

func TestUniformSplitSpacing(t *testing.T) {
	values, err := NewUniformSplitter(4).Split(Interval{0, 10})
	require.NoError(t, err)
	require.Equal(t, []float64{0, 2.5, 5, 7.5, 10}, values)
}

func TestUniformSplitInvalid(t *testing.T) {
	cases := []struct {
		name  string
		iv    Interval
		steps int
	}{
		{"zero steps", Interval{0, 1}, 0},
		{"negative steps", Interval{0, 1}, -3},
		{"empty interval", Interval{1, 1}, 2},
		{"reversed interval", Interval{2, 1}, 2},
		{"nan bound", Interval{math.NaN(), 1}, 2},
		{"inf bound", Interval{0, math.Inf(1)}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UniformSplitter{Steps: tc.steps}.Split(tc.iv)
			require.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestUniformSplitUnderflow(t *testing.T) {
	// the interval is too narrow to hold distinct interior values
	_, err := UniformSplitter{Steps: 8}.Split(Interval{0, 5e-324})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestProportionalSplit(t *testing.T) {
	values, err := NewProportionalSplitter(5, 2).Split(Interval{0, 31})
	require.NoError(t, err)
	require.Len(t, values, 6)
	require.Equal(t, 0.0, values[0])
	require.Equal(t, 31.0, values[5])

	// steps 1, 2, 4, 8, 16
	expected := []float64{0, 1, 3, 7, 15, 31}
	for i := range expected {
		require.InDelta(t, expected[i], values[i], 1e-12)
	}
	for i := 2; i < len(values); i++ {
		ratio := (values[i] - values[i-1]) / (values[i-1] - values[i-2])
		require.InDelta(t, 2.0, ratio, 1e-9)
	}
}

func TestProportionalSplitUnitRatio(t *testing.T) {
	uniform, err := UniformSplitter{Steps: 4}.Split(Interval{0, 10})
	require.NoError(t, err)
	proportional, err := ProportionalSplitter{Steps: 4, Ratio: 1}.Split(Interval{0, 10})
	require.NoError(t, err)
	require.Equal(t, uniform, proportional)
}

func TestProportionalSplitInvalid(t *testing.T) {
	for _, ratio := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := ProportionalSplitter{Steps: 3, Ratio: ratio}.Split(Interval{0, 1})
		require.ErrorIs(t, err, ErrInvalidParameter)
	}
	_, err := ProportionalSplitter{Steps: 0, Ratio: 1.5}.Split(Interval{0, 1})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestAxisSplitParameterWithoutSplitter(t *testing.T) {
	_, err := AxisSplitParameter{Interval: Interval{0, 1}}.Split()
	require.ErrorIs(t, err, ErrInvalidParameter)
}
