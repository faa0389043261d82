package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Direct solves sys by LU factorization. It is the reference the iterative
// solver is compared against. An exactly singular matrix fails with
// ErrSingularSystem; an ill-conditioned one is solved and logged.
func Direct(sys *LinearSystem) ([]float64, error) {
	if sys == nil {
		return nil, fmt.Errorf("nil system: %w", ErrDimensionMismatch)
	}

	var lu mat.LU
	lu.Factorize(sys.matrix)

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, sys.rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("LU solve: %v: %w", err, ErrSingularSystem)
		}
		logrus.Debugf("direct solve is ill-conditioned (condition number %.3e)", float64(cond))
	}

	solution := make([]float64, sys.Size())
	for i := range solution {
		solution[i] = x.AtVec(i)
	}
	for _, v := range solution {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("LU solve produced non-finite values: %w", ErrSingularSystem)
		}
	}
	return solution, nil
}
