package models

// ProfileRow is one point of the diagonal comparison table: the iterative
// fit, the direct fit and the known function evaluated at the same point.
type ProfileRow struct {
	// X and Y locate the point in the domain
	X, Y float64

	// Spline is the value of the Gauss-Seidel fit
	Spline float64

	// Direct is the value of the fit solved by LU factorization
	Direct float64

	// True is the value of the sampled function
	True float64
}

// Metrics summarises the quality of one fit.
type Metrics struct {
	// RMSE and MaxError compare the fit against the known function along the profile
	RMSE     float64
	MaxError float64

	// SampleRMS is the weighted root mean square residual at the samples
	SampleRMS float64

	// DirectDeviation is the largest profile difference between the
	// iterative and the direct fit
	DirectDeviation float64

	// Iterations and Status describe the Gauss-Seidel run
	Iterations int
	Status     string
	Residual   float64
}

// SweepResult is the outcome of one fit in a smoothing sweep.
type SweepResult struct {
	// Smoothing is the parameter the fit was run with
	Smoothing float64

	// RMS and MaxAbs are the residual statistics at the samples
	RMS    float64
	MaxAbs float64

	// Iterations and Converged describe the Gauss-Seidel run
	Iterations int
	Converged  bool

	// Err is set when the fit failed
	Err error
}
