// Package experiment runs the complete fitting pipeline on synthetic data:
// it builds the grid, samples a known function, fits the spline iteratively
// and directly, compares both against the function and writes the requested
// outputs.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"splinefit/internal/models"
	"splinefit/pkg/config"
	"splinefit/pkg/geometry"
	"splinefit/pkg/oracle"
	"splinefit/pkg/solver"
	"splinefit/pkg/spline"
	"splinefit/pkg/stl"
	"splinefit/pkg/visualization"
)

// Params holds the pipeline parameters.
type Params struct {
	// Config supplies the grid, solver, spline, sample and output settings.
	// It must have passed Validate.
	Config *config.Config

	// OutputDir is prepended to relative output file names.
	OutputDir string
}

// ProgressCallback reports completed fits during a sweep.
type ProgressCallback func(completed, total int, message string)

// Runner handles the fitting pipeline. The steps are:
// 1. Building the grid and allocating the spline space
// 2. Sampling the known function and assigning weights
// 3. Fitting the spline with Gauss-Seidel and with a direct solve
// 4. Evaluating all three along the domain diagonal
// 5. Calculating metrics
// 6. Writing the optional plot, heat map, raster and STL outputs
type Runner struct {
	params   *Params
	logger   logrus.FieldLogger
	progress ProgressCallback

	grid    *geometry.Grid
	creator *spline.SmoothingCreator
	truth   oracle.Function
	samples []spline.WeightedSample
	onNode  int

	spline  *spline.Spline
	direct  *spline.Spline
	profile []models.ProfileRow
	metrics models.Metrics
}

// NewRunner creates a new runner with the provided parameters.
func NewRunner(params *Params) *Runner {
	return &Runner{
		params: params,
		logger: logrus.StandardLogger(),
	}
}

// SetLogger replaces the logger used by the runner and the components it builds.
func (r *Runner) SetLogger(logger logrus.FieldLogger) {
	if logger != nil {
		r.logger = logger
	}
}

// SetProgressCallback sets a callback invoked after each fit of a sweep.
func (r *Runner) SetProgressCallback(callback ProgressCallback) {
	r.progress = callback
}

// Process runs the complete pipeline
func (r *Runner) Process(ctx context.Context) error {
	cfg := r.params.Config

	r.logger.Infof("Step 1: Building %dx%d grid and allocating spline space...",
		cfg.Grid.X.Segments, cfg.Grid.Y.Segments)
	if err := r.prepare(); err != nil {
		return err
	}

	r.logger.Infof("Step 2: Sampled %q at %d points, %d on grid nodes",
		cfg.Samples.Function, len(r.samples), r.onNode)

	r.logger.Infof("Step 3: Fitting spline with smoothing %g...", cfg.Spline.Smoothing)
	fit, err := r.creator.CreateSpline(ctx, r.samples, cfg.Spline.Smoothing)
	if err != nil {
		return fmt.Errorf("failed to fit spline: %w", err)
	}
	direct, err := r.creator.CreateSplineDirect(r.samples, cfg.Spline.Smoothing)
	if err != nil {
		return fmt.Errorf("failed to fit reference spline: %w", err)
	}
	r.spline, r.direct = fit, direct

	r.logger.Infof("Step 4: Evaluating profile along the diagonal (%d steps)...", cfg.Output.ProfilePoints)
	if err := r.buildProfile(); err != nil {
		return fmt.Errorf("failed to evaluate profile: %w", err)
	}

	r.logger.Info("Step 5: Calculating metrics...")
	if err := r.calculateMetrics(); err != nil {
		return fmt.Errorf("failed to calculate metrics: %w", err)
	}

	r.logger.Info("Step 6: Writing outputs...")
	return r.writeOutputs()
}

// prepare builds the grid, the creator and the samples once.
func (r *Runner) prepare() error {
	if r.creator != nil {
		return nil
	}
	cfg := r.params.Config

	grid, err := cfg.GridBuilder().Build()
	if err != nil {
		return fmt.Errorf("failed to build grid: %w", err)
	}

	gs, err := solver.NewGaussSeidel(cfg.SolverConfig())
	if err != nil {
		return fmt.Errorf("failed to create solver: %w", err)
	}
	gs.SetLogger(r.logger)

	creator, err := spline.NewSmoothingCreator(gs, cfg.SplineOptions())
	if err != nil {
		return fmt.Errorf("failed to create spline creator: %w", err)
	}
	creator.SetLogger(r.logger)
	if err := creator.Allocate(grid); err != nil {
		return fmt.Errorf("failed to allocate spline space: %w", err)
	}

	truth, err := oracle.Lookup(cfg.Samples.Function)
	if err != nil {
		return err
	}
	points, err := oracle.Lattice(cfg.Grid.X.Interval(), cfg.Grid.Y.Interval(), cfg.Samples.Segments)
	if err != nil {
		return fmt.Errorf("failed to build sample lattice: %w", err)
	}

	anchors := make([]geometry.Point, 0, grid.NodeCount())
	for _, n := range grid.Nodes() {
		anchors = append(anchors, n.Point)
	}
	samples := oracle.AssignWeights(oracle.Values(points, truth), anchors,
		cfg.Samples.NodeEpsilon, cfg.Samples.OnNodeWeight, cfg.Samples.OffNodeWeight)

	r.grid = grid
	r.creator = creator
	r.truth = truth
	r.samples = samples
	r.onNode = oracle.CoincidentCount(samples, anchors, cfg.Samples.NodeEpsilon)
	return nil
}

func (r *Runner) buildProfile() error {
	points := oracle.Diagonal(r.grid.Bounds(), r.params.Config.Output.ProfilePoints)
	rows := make([]models.ProfileRow, len(points))
	for i, p := range points {
		fit, err := r.spline.Calculate(p)
		if err != nil {
			return err
		}
		direct, err := r.direct.Calculate(p)
		if err != nil {
			return err
		}
		rows[i] = models.ProfileRow{
			X:      p.X,
			Y:      p.Y,
			Spline: fit,
			Direct: direct,
			True:   r.truth(p.X, p.Y),
		}
	}
	r.profile = rows
	return nil
}

func (r *Runner) calculateMetrics() error {
	n := len(r.profile)
	fit := make([]float64, n)
	direct := make([]float64, n)
	truth := make([]float64, n)
	for i, row := range r.profile {
		fit[i], direct[i], truth[i] = row.Spline, row.Direct, row.True
	}

	report, err := spline.Report(r.spline, r.samples)
	if err != nil {
		return err
	}

	r.metrics = models.Metrics{
		RMSE:            floats.Distance(fit, truth, 2) / math.Sqrt(float64(n)),
		MaxError:        floats.Distance(fit, truth, math.Inf(1)),
		SampleRMS:       report.RMS,
		DirectDeviation: floats.Distance(fit, direct, math.Inf(1)),
		Iterations:      r.spline.Iterations(),
		Status:          r.spline.Status().String(),
		Residual:        r.spline.Residual(),
	}
	r.logger.Infof("RMSE %.3e, max error %.3e, %d sweeps (%s)",
		r.metrics.RMSE, r.metrics.MaxError, r.metrics.Iterations, r.metrics.Status)
	return nil
}

func (r *Runner) writeOutputs() error {
	out := r.params.Config.Output
	var errs []error

	if out.PlotFile != "" {
		path := r.outputPath(out.PlotFile)
		if err := visualization.SaveProfilePlot(path, "Diagonal profile", r.profile); err != nil {
			errs = append(errs, fmt.Errorf("profile plot: %w", err))
		} else {
			r.logger.Infof("Profile plot saved to %s", path)
		}
	}

	if out.HeatmapFile != "" {
		path := r.outputPath(out.HeatmapFile)
		viewer := visualization.NewViewer(r.spline, r.grid.Bounds())
		if err := viewer.SaveHeatMap(path, "Fitted surface", 64); err != nil {
			errs = append(errs, fmt.Errorf("heat map: %w", err))
		} else {
			r.logger.Infof("Heat map saved to %s", path)
		}
	}

	if out.RasterFile != "" {
		path := r.outputPath(out.RasterFile)
		viewer := visualization.NewViewer(r.spline, r.grid.Bounds())
		img, err := viewer.Raster(out.RasterSize, out.RasterSize)
		if err == nil {
			err = visualization.SaveRaster(img, path)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("raster: %w", err))
		} else {
			r.logger.Infof("Raster saved to %s", path)
		}
	}

	if out.STLFile != "" {
		path := r.outputPath(out.STLFile)
		mesh := stl.NewSurfaceMesh(r.spline.Calculate, r.grid.Bounds(), out.STLResolution)
		mesh.SetScale(float32(out.STLScale.X), float32(out.STLScale.Y), float32(out.STLScale.Z))
		triangles, err := mesh.GenerateTriangles()
		if err == nil {
			err = stl.SaveToSTL(path, triangles)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("STL surface: %w", err))
		} else {
			r.logger.Infof("STL surface with %d triangles saved to %s", len(triangles), path)
		}
	}

	return errors.Join(errs...)
}

func (r *Runner) outputPath(name string) string {
	if filepath.IsAbs(name) || r.params.OutputDir == "" {
		return name
	}
	return filepath.Join(r.params.OutputDir, name)
}

// GetMetrics returns the metrics of the last Process call.
func (r *Runner) GetMetrics() models.Metrics { return r.metrics }

// Profile returns the diagonal profile of the last Process call.
func (r *Runner) Profile() []models.ProfileRow { return r.profile }

// Spline returns the iterative fit of the last Process call.
func (r *Runner) Spline() *spline.Spline { return r.spline }

// Samples returns the weighted samples the fits use.
func (r *Runner) Samples() []spline.WeightedSample { return r.samples }

// OnNodeSamples returns how many samples coincide with a grid node.
func (r *Runner) OnNodeSamples() int { return r.onNode }
