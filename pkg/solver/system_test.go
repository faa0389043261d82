package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinearSystemAccumulates(t *testing.T) {
	sys, err := NewLinearSystem(3)
	require.NoError(t, err)
	require.Equal(t, 3, sys.Size())

	sys.Add(0, 1, 1.5)
	sys.Add(0, 1, 2.5)
	sys.Add(1, 0, 4)
	sys.AddRHS(2, 1)
	sys.AddRHS(2, -3)

	require.Equal(t, 4.0, sys.At(0, 1))
	require.Equal(t, -2.0, sys.RHS(2))
	require.True(t, sys.IsSymmetric(0))

	sys.Add(2, 0, 1)
	require.False(t, sys.IsSymmetric(1e-12))
}

func TestLinearSystemShapes(t *testing.T) {
	_, err := NewLinearSystem(0)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewLinearSystemFrom([][]float64{{1, 2}, {3, 4}}, []float64{1})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewLinearSystemFrom([][]float64{{1, 2}, {3}}, []float64{1, 2})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	sys, err := NewLinearSystemFrom([][]float64{{1, 0}, {0, 1}}, []float64{1, 2})
	require.NoError(t, err)
	_, err = sys.Residual([]float64{1})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDirect(t *testing.T) {
	sys, err := NewLinearSystemFrom([][]float64{{2, 1, 1}, {1, 3, 1}, {1, 1, 4}}, []float64{7, 10, 15})
	require.NoError(t, err)

	x, err := Direct(sys)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, 2, 3}, x, 1e-12)

	residual, err := sys.Residual(x)
	require.NoError(t, err)
	require.Less(t, residual, 1e-12)
}

func TestDirectSingular(t *testing.T) {
	sys, err := NewLinearSystemFrom([][]float64{{1, 2}, {2, 4}}, []float64{1, 2})
	require.NoError(t, err)

	_, err = Direct(sys)
	require.ErrorIs(t, err, ErrSingularSystem)
}
