package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// pivotTolerance is the smallest |a_ii| accepted, relative to the largest
// absolute entry of row i. The check is per row so that unknowns measured
// in different units (values and derivatives) do not mask each other.
const pivotTolerance = 1e-14

// ProgressCallback reports progress of a long running solve
type ProgressCallback func(completed, total int, message string)

// GaussSeidel solves linear systems with preconditioned, over-relaxed
// Gauss-Seidel sweeps. A GaussSeidel holds no per-solve state and may be
// shared by concurrent solves.
type GaussSeidel struct {
	config   Config
	logger   logrus.FieldLogger
	progress ProgressCallback
}

// NewGaussSeidel validates cfg and creates a solver bound to it.
func NewGaussSeidel(cfg Config) (*GaussSeidel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GaussSeidel{
		config: cfg,
		logger: logrus.StandardLogger(),
	}, nil
}

// Config returns the solver settings
func (gs *GaussSeidel) Config() Config { return gs.config }

// SetLogger replaces the logger used for progress and warnings.
func (gs *GaussSeidel) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		gs.logger = logger
	}
}

// SetProgressCallback installs a callback invoked every LogEvery sweeps.
func (gs *GaussSeidel) SetProgressCallback(callback ProgressCallback) {
	gs.progress = callback
}

// iteration is the private working state of one solve.
type iteration struct {
	a      *mat.Dense
	b      []float64
	y      []float64
	scale  []float64
	lo, hi []int
	bnorm  float64
}

// Solve runs the iteration on sys, starting from zero.
//
// The outcome is one of:
//   - Converged: nil error.
//   - MaxIterationsReached: nil error, the best-effort solution is returned
//     and a warning is logged. The caller decides whether it is acceptable.
//   - DivergenceDetected: ErrDiverged.
//
// A numerically zero pivot fails with ErrSingularSystem before any sweep.
// ctx is checked once per sweep.
func (gs *GaussSeidel) Solve(ctx context.Context, sys *LinearSystem) (Result, error) {
	if sys == nil {
		return Result{}, fmt.Errorf("nil system: %w", ErrDimensionMismatch)
	}

	it, err := gs.prepare(sys)
	if err != nil {
		return Result{Status: Initialized}, err
	}

	n := len(it.b)
	if it.bnorm == 0 {
		return Result{Solution: make([]float64, n), Status: Converged}, nil
	}

	cfg := gs.config
	residual := 1.0
	for sweep := 1; sweep <= cfg.MaxIterations; sweep++ {
		if err := ctx.Err(); err != nil {
			return it.result(Iterating, sweep-1, residual), fmt.Errorf("solve interrupted after %d sweeps: %w", sweep-1, err)
		}

		it.sweep(cfg.Relaxation)
		residual = it.residual()

		if math.IsNaN(residual) || math.IsInf(residual, 0) || residual > cfg.DivergenceLimit {
			return it.result(DivergenceDetected, sweep, residual),
				fmt.Errorf("relative residual %g after %d sweeps: %w", residual, sweep, ErrDiverged)
		}
		if residual < cfg.Tolerance {
			gs.logger.Debugf("Gauss-Seidel converged after %d sweeps, residual %.3e", sweep, residual)
			return it.result(Converged, sweep, residual), nil
		}

		if cfg.LogEvery > 0 && sweep%cfg.LogEvery == 0 {
			gs.logger.Debugf("Gauss-Seidel sweep %d/%d, residual %.3e", sweep, cfg.MaxIterations, residual)
			if gs.progress != nil {
				gs.progress(sweep, cfg.MaxIterations, "")
			}
		}
	}

	gs.logger.Warnf("Gauss-Seidel stopped after %d sweeps with residual %.3e (tolerance %.3e)",
		cfg.MaxIterations, residual, cfg.Tolerance)
	return it.result(MaxIterationsReached, cfg.MaxIterations, residual), nil
}

// prepare copies the system, checks pivots, applies the preconditioner and
// computes the band of every row.
func (gs *GaussSeidel) prepare(sys *LinearSystem) (*iteration, error) {
	n := sys.Size()
	a := mat.DenseCopyOf(sys.matrix)
	b := make([]float64, n)
	for i := range b {
		b[i] = sys.rhs.AtVec(i)
	}

	maxAbs := 0.0
	for i := 0; i < n; i++ {
		for _, v := range a.RawRowView(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("non-finite matrix entry in row %d: %w", i, ErrSingularSystem)
			}
			maxAbs = math.Max(maxAbs, math.Abs(v))
		}
	}
	if maxAbs == 0 {
		return nil, fmt.Errorf("zero matrix: %w", ErrSingularSystem)
	}
	for i := 0; i < n; i++ {
		rowMax := floats.Norm(a.RawRowView(i), math.Inf(1))
		if d := a.At(i, i); math.Abs(d) <= pivotTolerance*rowMax {
			return nil, fmt.Errorf("pivot %d is %g: %w", i, d, ErrSingularSystem)
		}
	}

	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}
	if gs.config.Preconditioner == PreconditionJacobi {
		for i := range scale {
			scale[i] = 1 / math.Sqrt(math.Abs(a.At(i, i)))
		}
		for i := 0; i < n; i++ {
			row := a.RawRowView(i)
			for j := range row {
				row[j] *= scale[i] * scale[j]
			}
			b[i] *= scale[i]
		}
	}

	lo := make([]int, n)
	hi := make([]int, n)
	for i := 0; i < n; i++ {
		row := a.RawRowView(i)
		lo[i], hi[i] = i, i
		for j := 0; j < i; j++ {
			if row[j] != 0 {
				lo[i] = j
				break
			}
		}
		for j := n - 1; j > i; j-- {
			if row[j] != 0 {
				hi[i] = j
				break
			}
		}
	}

	return &iteration{
		a:     a,
		b:     b,
		y:     make([]float64, n),
		scale: scale,
		lo:    lo,
		hi:    hi,
		bnorm: floats.Norm(b, 2),
	}, nil
}

// sweep updates every unknown in index order, using values already updated
// in this sweep.
func (it *iteration) sweep(omega float64) {
	for i := range it.y {
		row := it.a.RawRowView(i)
		sigma := it.b[i]
		for j := it.lo[i]; j <= it.hi[i]; j++ {
			if j != i {
				sigma -= row[j] * it.y[j]
			}
		}
		it.y[i] += omega * (sigma/row[i] - it.y[i])
	}
}

// residual returns ||b - Ay|| / ||b|| of the preconditioned system.
func (it *iteration) residual() float64 {
	sum := 0.0
	for i := range it.y {
		row := it.a.RawRowView(i)
		r := it.b[i] - floats.Dot(row[it.lo[i]:it.hi[i]+1], it.y[it.lo[i]:it.hi[i]+1])
		sum += r * r
	}
	return math.Sqrt(sum) / it.bnorm
}

// result undoes the preconditioning and hands the solution over.
func (it *iteration) result(status Status, sweeps int, residual float64) Result {
	x := make([]float64, len(it.y))
	floats.MulTo(x, it.scale, it.y)
	return Result{
		Solution:   x,
		Status:     status,
		Iterations: sweeps,
		Residual:   residual,
	}
}
