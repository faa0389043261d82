package spline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHermiteNodalProperties checks the interpolation conditions of the 1D shape functions
func TestHermiteNodalProperties(t *testing.T) {
	const h = 2.5
	left := hermite1D(0, h, 0)
	right := hermite1D(1, h, 0)
	require.InDeltaSlice(t, []float64{1, 0, 0, 0}, left[:], 1e-15)
	require.InDeltaSlice(t, []float64{0, 0, 1, 0}, right[:], 1e-15)

	dLeft := hermite1D(0, h, 1)
	dRight := hermite1D(1, h, 1)
	require.InDeltaSlice(t, []float64{0, 1, 0, 0}, dLeft[:], 1e-15)
	require.InDeltaSlice(t, []float64{0, 0, 0, 1}, dRight[:], 1e-15)
}

// TestHermiteDerivatives compares analytic derivatives with central differences
func TestHermiteDerivatives(t *testing.T) {
	const (
		h   = 1.7
		eps = 1e-6
	)
	for _, tt := range []float64{0.1, 0.35, 0.5, 0.9} {
		plus := hermite1D(tt+eps, h, 0)
		minus := hermite1D(tt-eps, h, 0)
		d1 := hermite1D(tt, h, 1)
		for i := range d1 {
			// d/dx = d/dt / h
			require.InDelta(t, (plus[i]-minus[i])/(2*eps*h), d1[i], 1e-6)
		}

		plus1 := hermite1D(tt+eps, h, 1)
		minus1 := hermite1D(tt-eps, h, 1)
		d2 := hermite1D(tt, h, 2)
		for i := range d2 {
			require.InDelta(t, (plus1[i]-minus1[i])/(2*eps*h), d2[i], 1e-5)
		}
	}
}

func TestLocalBasisPartitionOfUnity(t *testing.T) {
	for _, p := range [][2]float64{{0, 0}, {0.3, 0.7}, {1, 1}, {0.5, 0.2}} {
		b := localBasis(p[0], p[1], 2, 3, 0, 0)
		sum := 0.0
		for corner := 0; corner < 4; corner++ {
			sum += b[corner*DOFsPerNode+Value]
		}
		require.InDelta(t, 1.0, sum, 1e-14)
	}
}

func TestRoughnessAnnihilatesPlanes(t *testing.T) {
	const hx, hy = 2.0, 0.5
	k := roughness(hx, hy)

	// local coefficients of f = 1 + x + 2y on [0,hx]x[0,hy]
	f := func(x, y float64) [DOFsPerNode]float64 {
		return [DOFsPerNode]float64{1 + x + 2*y, 1, 2, 0}
	}
	var c [LocalDOFs]float64
	corners := [4][2]float64{{0, 0}, {hx, 0}, {0, hy}, {hx, hy}}
	for corner, xy := range corners {
		v := f(xy[0], xy[1])
		copy(c[corner*DOFsPerNode:], v[:])
	}

	for p := 0; p < LocalDOFs; p++ {
		sum := 0.0
		for q := 0; q < LocalDOFs; q++ {
			sum += k[p][q] * c[q]
		}
		require.InDelta(t, 0.0, sum, 1e-10)
	}

	// symmetric and positive on the diagonal
	for p := 0; p < LocalDOFs; p++ {
		require.GreaterOrEqual(t, k[p][p], 0.0)
		for q := 0; q < LocalDOFs; q++ {
			require.InDelta(t, k[p][q], k[q][p], 1e-12)
		}
	}
}
