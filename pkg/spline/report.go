package spline

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FitReport summarises how closely a spline follows its samples.
type FitReport struct {
	// RMS is the root mean square residual, weighted by sample weight.
	// When every weight is zero the samples count equally.
	RMS float64
	// MaxAbs is the largest absolute residual over all samples.
	MaxAbs float64
	// Mean is the mean signed residual (spline minus sample).
	Mean float64
	// StdDev is the standard deviation of the signed residuals.
	StdDev float64
}

// Report evaluates s at every sample point.
func Report(s *Spline, samples []WeightedSample) (FitReport, error) {
	if len(samples) == 0 {
		return FitReport{}, nil
	}

	residuals := make([]float64, len(samples))
	weights := make([]float64, len(samples))
	for i, sample := range samples {
		v, err := s.Calculate(sample.Point)
		if err != nil {
			return FitReport{}, err
		}
		residuals[i] = v - sample.Value
		weights[i] = sample.Weight
	}
	if floats.Sum(weights) == 0 {
		weights = nil
	}

	squares := make([]float64, len(residuals))
	floats.MulTo(squares, residuals, residuals)

	abs := make([]float64, len(residuals))
	for i, r := range residuals {
		abs[i] = math.Abs(r)
	}

	mean, std := stat.MeanStdDev(residuals, nil)
	return FitReport{
		RMS:    math.Sqrt(stat.Mean(squares, weights)),
		MaxAbs: floats.Max(abs),
		Mean:   mean,
		StdDev: std,
	}, nil
}
