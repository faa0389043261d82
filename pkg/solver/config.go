package solver

import (
	"fmt"
	"math"
)

// Preconditioner selects the transform applied to a system before sweeping.
type Preconditioner string

const (
	// PreconditionNone sweeps the system as assembled.
	PreconditionNone Preconditioner = "none"

	// PreconditionJacobi rescales the system symmetrically by its diagonal,
	// D^-1/2 A D^-1/2, so that every pivot becomes one.
	PreconditionJacobi Preconditioner = "jacobi"
)

// Config holds the Gauss-Seidel settings. It is passed by value and never
// modified by the solver.
type Config struct {
	// MaxIterations caps the number of full sweeps.
	MaxIterations int

	// Tolerance is the relative residual ||b - Ax|| / ||b|| at which the
	// iteration is considered converged.
	Tolerance float64

	// Relaxation is the over-relaxation factor. 1 gives plain Gauss-Seidel.
	Relaxation float64

	// Preconditioner is applied once before the first sweep.
	Preconditioner Preconditioner

	// DivergenceLimit is the relative residual above which the iteration is
	// abandoned as divergent.
	DivergenceLimit float64

	// LogEvery controls how often progress is logged at debug level. Zero disables it.
	LogEvery int
}

// DefaultConfig returns settings that converge for the systems produced by
// the smoothing spline on moderately sized grids.
func DefaultConfig() Config {
	return Config{
		MaxIterations:   20000,
		Tolerance:       1e-10,
		Relaxation:      1.5,
		Preconditioner:  PreconditionJacobi,
		DivergenceLimit: 1e8,
		LogEvery:        1000,
	}
}

// Validate checks every field for range errors.
func (c Config) Validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations %d: %w", c.MaxIterations, ErrInvalidConfig)
	}
	if math.IsNaN(c.Tolerance) || c.Tolerance <= 0 {
		return fmt.Errorf("tolerance %g: %w", c.Tolerance, ErrInvalidConfig)
	}
	if math.IsNaN(c.Relaxation) || c.Relaxation <= 0 || c.Relaxation >= 2 {
		return fmt.Errorf("relaxation %g outside (0, 2): %w", c.Relaxation, ErrInvalidConfig)
	}
	switch c.Preconditioner {
	case PreconditionNone, PreconditionJacobi:
	default:
		return fmt.Errorf("unknown preconditioner %q: %w", c.Preconditioner, ErrInvalidConfig)
	}
	if math.IsNaN(c.DivergenceLimit) || c.DivergenceLimit <= 1 {
		return fmt.Errorf("divergence limit %g: %w", c.DivergenceLimit, ErrInvalidConfig)
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("log interval %d: %w", c.LogEvery, ErrInvalidConfig)
	}
	return nil
}
