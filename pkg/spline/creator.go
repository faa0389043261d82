// Package spline fits smoothing splines over structured grids.
//
// A SmoothingCreator is allocated once per grid and then turns sets of
// weighted samples into Splines. The fit minimises
//
//	sum_k w_k (f(p_k) - v_k)^2 + sum_e (alpha + r*|e|) * integral_e(f_xx^2 + 2 f_xy^2 + f_yy^2)
//
// over bicubic Hermite surfaces, where alpha is the smoothing parameter, |e|
// the area of element e and r a small regularization that keeps the system
// solvable when alpha is zero and the samples leave some coefficients
// undetermined. Scaling r by the element area makes the floor independent of
// the size of the domain: the roughness integral shrinks with the square of
// the length scale and the area grows with it.
package spline

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"splinefit/pkg/geometry"
	"splinefit/pkg/solver"
)

// Options configures a SmoothingCreator.
type Options struct {
	// Regularization, multiplied by each element's area, is added to the
	// smoothing parameter of every fit.
	Regularization float64
}

// DefaultOptions returns the regularization used by the command line tool.
func DefaultOptions() Options {
	return Options{Regularization: 1.6e-5}
}

// SmoothingCreator builds smoothing splines on one allocated grid.
// Allocate must complete before CreateSpline is called; after that the
// creator is read-only and CreateSpline may run concurrently.
type SmoothingCreator struct {
	solver  *solver.GaussSeidel
	options Options
	logger  logrus.FieldLogger

	space   *AllocatedSpace
	penalty [][LocalDOFs][LocalDOFs]float64
	areas   []float64
}

// NewSmoothingCreator creates an unallocated creator.
func NewSmoothingCreator(gs *solver.GaussSeidel, opts Options) (*SmoothingCreator, error) {
	if gs == nil {
		return nil, fmt.Errorf("nil solver: %w", ErrInvalidParameter)
	}
	if math.IsNaN(opts.Regularization) || math.IsInf(opts.Regularization, 0) || opts.Regularization < 0 {
		return nil, fmt.Errorf("regularization %g: %w", opts.Regularization, ErrInvalidParameter)
	}
	return &SmoothingCreator{
		solver:  gs,
		options: opts,
		logger:  logrus.StandardLogger(),
	}, nil
}

// SetLogger replaces the logger
func (c *SmoothingCreator) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		c.logger = logger
	}
}

// Allocate prepares the spline space and the element roughness matrices for
// grid. Calling it again replaces the previous allocation.
func (c *SmoothingCreator) Allocate(grid *geometry.Grid) error {
	space, err := Allocate(grid)
	if err != nil {
		return err
	}

	penalty := make([][LocalDOFs][LocalDOFs]float64, grid.ElementCount())
	areas := make([]float64, grid.ElementCount())
	for e := range penalty {
		b := grid.ElementBounds(e)
		penalty[e] = roughness(b.Width(), b.Height())
		areas[e] = b.Width() * b.Height()
	}

	c.space = space
	c.penalty = penalty
	c.areas = areas
	c.logger.Debugf("allocated spline space: %d elements, %d global DOFs (%d local)",
		grid.ElementCount(), space.DOFCount(), space.LocalDOFCount())
	return nil
}

// Space returns the allocated space, or nil before Allocate.
func (c *SmoothingCreator) Space() *AllocatedSpace { return c.space }

// Assemble builds the linear system of a fit without solving it.
func (c *SmoothingCreator) Assemble(samples []WeightedSample, smoothing float64) (*solver.LinearSystem, error) {
	if c.space == nil {
		return nil, ErrNotAllocated
	}
	if math.IsNaN(smoothing) || math.IsInf(smoothing, 0) || smoothing < 0 {
		return nil, fmt.Errorf("smoothing parameter %g: %w", smoothing, ErrInvalidParameter)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples: %w", ErrInvalidParameter)
	}

	sys, err := solver.NewLinearSystem(c.space.DOFCount())
	if err != nil {
		return nil, err
	}

	for k, s := range samples {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("sample %d: %w", k, err)
		}
		e, basis, err := c.space.basisAt(s.Point, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", k, err)
		}
		if s.Weight == 0 {
			continue
		}

		dofs := c.space.elements[e]
		for p := 0; p < LocalDOFs; p++ {
			wp := s.Weight * basis[p]
			sys.AddRHS(dofs[p], wp*s.Value)
			for q := 0; q < LocalDOFs; q++ {
				sys.Add(dofs[p], dofs[q], wp*basis[q])
			}
		}
	}

	for e, k := range c.penalty {
		alpha := smoothing + c.options.Regularization*c.areas[e]
		if alpha > 0 {
			dofs := c.space.elements[e]
			for p := 0; p < LocalDOFs; p++ {
				for q := 0; q < LocalDOFs; q++ {
					sys.Add(dofs[p], dofs[q], alpha*k[p][q])
				}
			}
		}
	}

	return sys, nil
}

// CreateSpline fits a spline to samples with the given smoothing parameter
// using the Gauss-Seidel solver. A solve that stops at the iteration cap is
// not an error; check Spline.Converged.
func (c *SmoothingCreator) CreateSpline(ctx context.Context, samples []WeightedSample, smoothing float64) (*Spline, error) {
	sys, err := c.Assemble(samples, smoothing)
	if err != nil {
		return nil, err
	}

	res, err := c.solver.Solve(ctx, sys)
	if err != nil {
		return nil, fmt.Errorf("create spline: %w", err)
	}
	if !res.Converged() {
		c.logger.Warnf("spline fit (smoothing %g) did not converge: %s after %d sweeps",
			smoothing, res.Status, res.Iterations)
	}

	return &Spline{
		space:        c.space,
		coefficients: res.Solution,
		status:       res.Status,
		iterations:   res.Iterations,
		residual:     res.Residual,
	}, nil
}

// CreateSplineDirect fits like CreateSpline but solves the system by LU
// factorization. It serves as a reference for the iterative fit.
func (c *SmoothingCreator) CreateSplineDirect(samples []WeightedSample, smoothing float64) (*Spline, error) {
	sys, err := c.Assemble(samples, smoothing)
	if err != nil {
		return nil, err
	}

	x, err := solver.Direct(sys)
	if err != nil {
		return nil, fmt.Errorf("create spline: %w", err)
	}
	return &Spline{
		space:        c.space,
		coefficients: x,
		status:       solver.Converged,
	}, nil
}
