package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSystem(t *testing.T, rows [][]float64, rhs []float64) *LinearSystem {
	t.Helper()
	sys, err := NewLinearSystemFrom(rows, rhs)
	require.NoError(t, err)
	return sys
}

func newTestSolver(t *testing.T, mutate func(*Config)) *GaussSeidel {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	gs, err := NewGaussSeidel(cfg)
	require.NoError(t, err)
	return gs
}

// TestSolveKnownSystem solves a symmetric positive definite 3x3 system with solution (1, 2, 3)
func TestSolveKnownSystem(t *testing.T) {
	sys := newTestSystem(t,
		[][]float64{{2, 1, 1}, {1, 3, 1}, {1, 1, 4}},
		[]float64{7, 10, 15},
	)

	res, err := newTestSolver(t, nil).Solve(context.Background(), sys)
	require.NoError(t, err)
	require.Equal(t, Converged, res.Status)
	require.True(t, res.Converged())
	require.Greater(t, res.Iterations, 0)
	require.InDeltaSlice(t, []float64{1, 2, 3}, res.Solution, 1e-8)

	residual, err := sys.Residual(res.Solution)
	require.NoError(t, err)
	require.Less(t, residual, 1e-8)
}

func TestSolveMatchesDirect(t *testing.T) {
	// banded SPD system: shifted 1D Laplacian
	const n = 50
	rows := make([][]float64, n)
	rhs := make([]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][i] = 2.5
		if i > 0 {
			rows[i][i-1] = -1
		}
		if i < n-1 {
			rows[i][i+1] = -1
		}
		rhs[i] = float64(i%7) - 3
	}
	sys := newTestSystem(t, rows, rhs)

	expected, err := Direct(sys)
	require.NoError(t, err)

	for _, p := range []Preconditioner{PreconditionNone, PreconditionJacobi} {
		for _, omega := range []float64{0.8, 1, 1.4} {
			gs := newTestSolver(t, func(c *Config) {
				c.Preconditioner = p
				c.Relaxation = omega
			})
			res, err := gs.Solve(context.Background(), sys)
			require.NoError(t, err)
			require.Equal(t, Converged, res.Status, "preconditioner %s, omega %g", p, omega)
			require.InDeltaSlice(t, expected, res.Solution, 1e-8)
		}
	}
}

func TestSolveNonSymmetricDiagonallyDominant(t *testing.T) {
	sys := newTestSystem(t,
		[][]float64{{5, 1, 2}, {-1, 4, 1}, {2, -1, 6}},
		[]float64{1, 2, 3},
	)
	expected, err := Direct(sys)
	require.NoError(t, err)

	res, err := newTestSolver(t, func(c *Config) { c.Relaxation = 1 }).Solve(context.Background(), sys)
	require.NoError(t, err)
	require.InDeltaSlice(t, expected, res.Solution, 1e-9)
}

// TestSolveZeroPivot checks that a zero diagonal fails instead of dividing by zero
func TestSolveZeroPivot(t *testing.T) {
	sys := newTestSystem(t,
		[][]float64{{0, 1}, {1, 0}},
		[]float64{1, 1},
	)
	res, err := newTestSolver(t, nil).Solve(context.Background(), sys)
	require.ErrorIs(t, err, ErrSingularSystem)
	require.Equal(t, Initialized, res.Status)

	zero := newTestSystem(t, [][]float64{{0, 0}, {0, 0}}, []float64{1, 1})
	_, err = newTestSolver(t, nil).Solve(context.Background(), zero)
	require.ErrorIs(t, err, ErrSingularSystem)
}

// TestSolvePivotCheckIsPerRow checks that unknowns on very different scales are
// accepted while a diagonal that is negligible within its own row is not
func TestSolvePivotCheckIsPerRow(t *testing.T) {
	scaled := newTestSystem(t,
		[][]float64{{1, 0}, {0, 1e-20}},
		[]float64{1, 1e-20},
	)
	res, err := newTestSolver(t, nil).Solve(context.Background(), scaled)
	require.NoError(t, err)
	require.True(t, res.Converged())
	require.InDeltaSlice(t, []float64{1, 1}, res.Solution, 1e-9)

	weak := newTestSystem(t,
		[][]float64{{1, 1}, {1, 1e-20}},
		[]float64{1, 1},
	)
	_, err = newTestSolver(t, nil).Solve(context.Background(), weak)
	require.ErrorIs(t, err, ErrSingularSystem)
}

func TestSolveMaxIterations(t *testing.T) {
	sys := newTestSystem(t,
		[][]float64{{4, -1, 0}, {-1, 4, -1}, {0, -1, 4}},
		[]float64{1, 2, 3},
	)
	res, err := newTestSolver(t, func(c *Config) { c.MaxIterations = 1 }).Solve(context.Background(), sys)
	require.NoError(t, err)
	require.Equal(t, MaxIterationsReached, res.Status)
	require.False(t, res.Converged())
	require.Equal(t, 1, res.Iterations)
	require.Len(t, res.Solution, 3)
	require.Greater(t, res.Residual, 0.0)
}

func TestSolveDivergence(t *testing.T) {
	sys := newTestSystem(t,
		[][]float64{{1, 3}, {3, 1}},
		[]float64{1, 1},
	)
	res, err := newTestSolver(t, func(c *Config) {
		c.Relaxation = 1
		c.DivergenceLimit = 1e3
		c.MaxIterations = 100
	}).Solve(context.Background(), sys)
	require.ErrorIs(t, err, ErrDiverged)
	require.Equal(t, DivergenceDetected, res.Status)
	require.Less(t, res.Iterations, 100)
}

func TestSolveZeroRHS(t *testing.T) {
	sys := newTestSystem(t, [][]float64{{2, 1}, {1, 2}}, []float64{0, 0})
	res, err := newTestSolver(t, nil).Solve(context.Background(), sys)
	require.NoError(t, err)
	require.Equal(t, Converged, res.Status)
	require.Equal(t, 0, res.Iterations)
	require.Equal(t, []float64{0, 0}, res.Solution)
}

func TestSolveCancelled(t *testing.T) {
	sys := newTestSystem(t, [][]float64{{2, 1}, {1, 2}}, []float64{1, 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestSolver(t, nil).Solve(ctx, sys)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, Iterating, res.Status)
}

func TestSolveProgressCallback(t *testing.T) {
	sys := newTestSystem(t,
		[][]float64{{4, -1, 0}, {-1, 4, -1}, {0, -1, 4}},
		[]float64{1, 2, 3},
	)
	gs := newTestSolver(t, func(c *Config) {
		c.MaxIterations = 5
		c.LogEvery = 1
	})
	calls := 0
	gs.SetProgressCallback(func(completed, total int, message string) {
		calls++
		require.Equal(t, 5, total)
	})

	res, err := gs.Solve(context.Background(), sys)
	require.NoError(t, err)
	require.Equal(t, res.Iterations, calls)
}

func TestSolveDoesNotModifySystem(t *testing.T) {
	sys := newTestSystem(t, [][]float64{{4, 1}, {1, 9}}, []float64{1, 2})
	_, err := newTestSolver(t, nil).Solve(context.Background(), sys)
	require.NoError(t, err)
	require.Equal(t, 4.0, sys.At(0, 0))
	require.Equal(t, 9.0, sys.At(1, 1))
	require.Equal(t, 2.0, sys.RHS(1))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cases := map[string]func(*Config){
		"iterations":   func(c *Config) { c.MaxIterations = 0 },
		"tolerance":    func(c *Config) { c.Tolerance = 0 },
		"relaxation 0": func(c *Config) { c.Relaxation = 0 },
		"relaxation 2": func(c *Config) { c.Relaxation = 2 },
		"precond":      func(c *Config) { c.Preconditioner = "ilu" },
		"divergence":   func(c *Config) { c.DivergenceLimit = 1 },
		"log interval": func(c *Config) { c.LogEvery = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			_, err := NewGaussSeidel(cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "converged", Converged.String())
	require.Equal(t, "max iterations reached", MaxIterationsReached.String())
	require.Equal(t, "unknown", Status(42).String())
}
