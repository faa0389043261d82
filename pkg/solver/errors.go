package solver

import "errors"

var (
	// ErrSingularSystem is returned when a diagonal pivot is numerically zero
	// or a direct factorization finds the matrix singular.
	ErrSingularSystem = errors.New("solver: singular system")

	// ErrDiverged is returned when the residual grows without bound or stops being finite.
	ErrDiverged = errors.New("solver: iteration diverged")

	// ErrInvalidConfig is returned for out-of-range solver settings.
	ErrInvalidConfig = errors.New("solver: invalid configuration")

	// ErrDimensionMismatch is returned when a system is not square or its
	// right-hand side does not match the matrix size.
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")
)
