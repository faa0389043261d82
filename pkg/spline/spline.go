package spline

import (
	"fmt"

	"splinefit/pkg/geometry"
	"splinefit/pkg/solver"
)

// Spline is a fitted surface. It shares the read-only space of its creator
// and exclusively owns its coefficients.
type Spline struct {
	space        *AllocatedSpace
	coefficients []float64

	status     solver.Status
	iterations int
	residual   float64
}

// Calculate evaluates the spline at p. Points outside the grid fail with
// ErrOutOfDomain; there is no extrapolation.
func (s *Spline) Calculate(p geometry.Point) (float64, error) {
	return s.derivative(p, 0, 0)
}

// Gradient returns the partial derivatives of the spline at p.
func (s *Spline) Gradient(p geometry.Point) (dx, dy float64, err error) {
	if dx, err = s.derivative(p, 1, 0); err != nil {
		return 0, 0, err
	}
	if dy, err = s.derivative(p, 0, 1); err != nil {
		return 0, 0, err
	}
	return dx, dy, nil
}

func (s *Spline) derivative(p geometry.Point, dx, dy int) (float64, error) {
	e, basis, err := s.space.basisAt(p, dx, dy)
	if err != nil {
		return 0, fmt.Errorf("evaluate spline: %w", err)
	}
	dofs := s.space.elements[e]
	sum := 0.0
	for l, b := range basis {
		sum += b * s.coefficients[dofs[l]]
	}
	return sum, nil
}

// Coefficients returns a copy of the global coefficients.
func (s *Spline) Coefficients() []float64 {
	return append([]float64(nil), s.coefficients...)
}

// Space returns the spline space the coefficients belong to.
func (s *Spline) Space() *AllocatedSpace { return s.space }

// Status reports how the solve that produced the spline ended.
func (s *Spline) Status() solver.Status { return s.status }

// Converged reports whether the solver met its tolerance.
func (s *Spline) Converged() bool { return s.status == solver.Converged }

// Iterations returns the number of solver sweeps. Zero for direct fits.
func (s *Spline) Iterations() int { return s.iterations }

// Residual returns the final relative residual of the solve.
func (s *Spline) Residual() float64 { return s.residual }
