package experiment

import (
	"context"
	"strconv"
	"sync"

	"splinefit/internal/models"
	"splinefit/pkg/spline"
)

// Sweep fits the samples once per smoothing parameter on a pool of
// Config.Sweep.NumWorkers goroutines. All fits share the allocated space.
// Results are in the order of smoothings; a failed fit carries its error in
// SweepResult.Err. The returned error is set only if setup fails or ctx is
// cancelled.
func (r *Runner) Sweep(ctx context.Context, smoothings []float64) ([]models.SweepResult, error) {
	if err := r.prepare(); err != nil {
		return nil, err
	}

	numWorkers := r.params.Config.Sweep.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(smoothings) {
		numWorkers = len(smoothings)
	}

	results := make([]models.SweepResult, len(smoothings))
	jobs := make(chan int)
	done := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.fit(ctx, smoothings[i])
				done <- i
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range smoothings {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	finished := make([]bool, len(smoothings))
	completed := 0
	for i := range done {
		finished[i] = true
		completed++
		if r.progress != nil {
			r.progress(completed, len(smoothings), "fitted smoothing "+strconv.FormatFloat(smoothings[i], 'g', -1, 64))
		}
	}

	if err := ctx.Err(); err != nil {
		for i := range results {
			if !finished[i] {
				results[i] = models.SweepResult{Smoothing: smoothings[i], Err: err}
			}
		}
		return results, err
	}
	return results, nil
}

func (r *Runner) fit(ctx context.Context, smoothing float64) models.SweepResult {
	result := models.SweepResult{Smoothing: smoothing}

	s, err := r.creator.CreateSpline(ctx, r.samples, smoothing)
	if err != nil {
		result.Err = err
		return result
	}
	report, err := spline.Report(s, r.samples)
	if err != nil {
		result.Err = err
		return result
	}

	result.RMS = report.RMS
	result.MaxAbs = report.MaxAbs
	result.Iterations = s.Iterations()
	result.Converged = s.Converged()
	return result
}
