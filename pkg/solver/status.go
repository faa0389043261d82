package solver

// Status is the state of a Gauss-Seidel solve.
type Status int

const (
	Initialized Status = iota
	Iterating
	Converged
	MaxIterationsReached
	DivergenceDetected
)

func (s Status) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max iterations reached"
	case DivergenceDetected:
		return "divergence detected"
	default:
		return "unknown"
	}
}

// Result is the outcome of a solve. Solution is owned by the caller.
type Result struct {
	Solution   []float64
	Status     Status
	Iterations int
	// Residual is the final relative residual of the preconditioned system.
	Residual float64
}

// Converged reports whether the tolerance was met.
func (r Result) Converged() bool { return r.Status == Converged }
