// Package solver assembles and solves the linear systems behind spline fits
// using a preconditioned Gauss-Seidel iteration.
package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearSystem is a square matrix with its right-hand side. It is filled by
// accumulation, Increment-style, and read by the solvers.
type LinearSystem struct {
	matrix *mat.Dense
	rhs    *mat.VecDense
}

// NewLinearSystem allocates an n x n zero system.
func NewLinearSystem(n int) (*LinearSystem, error) {
	if n < 1 {
		return nil, fmt.Errorf("system size %d: %w", n, ErrDimensionMismatch)
	}
	return &LinearSystem{
		matrix: mat.NewDense(n, n, nil),
		rhs:    mat.NewVecDense(n, nil),
	}, nil
}

// NewLinearSystemFrom copies a row-major matrix and a right-hand side into a new system.
func NewLinearSystemFrom(rows [][]float64, rhs []float64) (*LinearSystem, error) {
	n := len(rows)
	if len(rhs) != n {
		return nil, fmt.Errorf("matrix has %d rows but rhs has %d entries: %w", n, len(rhs), ErrDimensionMismatch)
	}
	sys, err := NewLinearSystem(n)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), n, ErrDimensionMismatch)
		}
		sys.matrix.SetRow(i, row)
		sys.rhs.SetVec(i, rhs[i])
	}
	return sys, nil
}

// Size returns the number of unknowns.
func (s *LinearSystem) Size() int {
	n, _ := s.matrix.Dims()
	return n
}

// Add accumulates v into entry (i, j) of the matrix.
func (s *LinearSystem) Add(i, j int, v float64) {
	s.matrix.Set(i, j, s.matrix.At(i, j)+v)
}

// AddRHS accumulates v into entry i of the right-hand side.
func (s *LinearSystem) AddRHS(i int, v float64) {
	s.rhs.SetVec(i, s.rhs.AtVec(i)+v)
}

// At returns matrix entry (i, j).
func (s *LinearSystem) At(i, j int) float64 { return s.matrix.At(i, j) }

// RHS returns right-hand side entry i.
func (s *LinearSystem) RHS(i int) float64 { return s.rhs.AtVec(i) }

// Matrix exposes the matrix read-only.
func (s *LinearSystem) Matrix() mat.Matrix { return s.matrix }

// Vector exposes the right-hand side read-only.
func (s *LinearSystem) Vector() mat.Vector { return s.rhs }

// IsSymmetric reports whether the matrix is symmetric within tol.
func (s *LinearSystem) IsSymmetric(tol float64) bool {
	n := s.Size()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := s.matrix.At(i, j) - s.matrix.At(j, i)
			if d > tol || d < -tol {
				return false
			}
		}
	}
	return true
}

// Residual returns ||b - Ax||_2 for the given solution.
func (s *LinearSystem) Residual(x []float64) (float64, error) {
	n := s.Size()
	if len(x) != n {
		return 0, fmt.Errorf("solution has %d entries, want %d: %w", len(x), n, ErrDimensionMismatch)
	}
	r := mat.NewVecDense(n, nil)
	r.MulVec(s.matrix, mat.NewVecDense(n, append([]float64(nil), x...)))
	r.SubVec(s.rhs, r)
	return mat.Norm(r, 2), nil
}
