// Package config provides configuration loading and management for splinefit.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"splinefit/pkg/geometry"
	"splinefit/pkg/oracle"
	"splinefit/pkg/solver"
	"splinefit/pkg/spline"
)

// Axis describes how one coordinate axis of the grid is split.
type Axis struct {
	// Begin and End bound the axis
	Begin float64 `yaml:"begin"`
	End   float64 `yaml:"end"`

	// Segments is the number of cells along the axis
	Segments int `yaml:"segments"`

	// Ratio is the length ratio between consecutive segments; 1 splits uniformly
	Ratio float64 `yaml:"ratio"`
}

// Interval returns the axis bounds.
func (a Axis) Interval() geometry.Interval {
	return geometry.Interval{Begin: a.Begin, End: a.End}
}

// SplitParameter returns the splitter configured for the axis.
func (a Axis) SplitParameter() geometry.AxisSplitParameter {
	if a.Ratio == 0 || a.Ratio == 1 {
		return geometry.NewAxisSplitParameter(a.Interval(), geometry.NewUniformSplitter(a.Segments))
	}
	return geometry.NewAxisSplitParameter(a.Interval(), geometry.NewProportionalSplitter(a.Segments, a.Ratio))
}

// Scale holds per-axis factors applied to exported geometry.
type Scale struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Grid parameters
	Grid struct {
		X Axis `yaml:"x"`
		Y Axis `yaml:"y"`
	} `yaml:"grid"`

	// Solver parameters for the Gauss-Seidel iteration
	Solver struct {
		MaxIterations   int     `yaml:"maxIterations"`
		Tolerance       float64 `yaml:"tolerance"`
		Relaxation      float64 `yaml:"relaxation"`
		Preconditioner  string  `yaml:"preconditioner"`
		DivergenceLimit float64 `yaml:"divergenceLimit"`

		// LogEvery controls how often progress is logged, in sweeps
		LogEvery int `yaml:"logEvery"`
	} `yaml:"solver"`

	// Spline parameters
	Spline struct {
		// Smoothing weights the bending energy against the data misfit
		Smoothing float64 `yaml:"smoothing"`

		// Regularization, times each element area, is added to Smoothing so the
		// system stays definite on any domain size
		Regularization float64 `yaml:"regularization"`
	} `yaml:"spline"`

	// Samples describes the synthetic data set
	Samples struct {
		// Function names the known surface to sample
		Function string `yaml:"function"`

		// Segments is the lattice resolution per axis; samples sit on its nodes
		Segments int `yaml:"segments"`

		// OnNodeWeight applies to samples that coincide with a grid node
		OnNodeWeight float64 `yaml:"onNodeWeight"`

		// OffNodeWeight applies to all other samples
		OffNodeWeight float64 `yaml:"offNodeWeight"`

		// NodeEpsilon is the coincidence tolerance per axis
		NodeEpsilon float64 `yaml:"nodeEpsilon"`
	} `yaml:"samples"`

	// Output parameters
	Output struct {
		// ProfilePoints is the number of steps along the domain diagonal
		ProfilePoints int `yaml:"profilePoints"`

		// PlotFile, HeatmapFile, RasterFile and STLFile are skipped when empty
		PlotFile    string `yaml:"plotFile"`
		HeatmapFile string `yaml:"heatmapFile"`
		RasterFile  string `yaml:"rasterFile"`
		STLFile     string `yaml:"stlFile"`

		// RasterSize is the width and height of the grayscale JPEG in pixels
		RasterSize int `yaml:"rasterSize"`

		// STLResolution is the number of surface cells per axis
		STLResolution int `yaml:"stlResolution"`

		// STLScale stretches the exported surface, e.g. to exaggerate heights
		STLScale Scale `yaml:"stlScale"`

		// LogLevel is any logrus level name
		LogLevel string `yaml:"logLevel"`
	} `yaml:"output"`

	// Sweep parameters for fitting several smoothing values at once
	Sweep struct {
		Smoothing  []float64 `yaml:"smoothing"`
		NumWorkers int       `yaml:"numWorkers"`
	} `yaml:"sweep"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Grid.X = Axis{Begin: 0, End: 10, Segments: 4, Ratio: 1}
	cfg.Grid.Y = Axis{Begin: 0, End: 10, Segments: 4, Ratio: 1}

	sc := solver.DefaultConfig()
	cfg.Solver.MaxIterations = sc.MaxIterations
	cfg.Solver.Tolerance = sc.Tolerance
	cfg.Solver.Relaxation = sc.Relaxation
	cfg.Solver.Preconditioner = string(sc.Preconditioner)
	cfg.Solver.DivergenceLimit = sc.DivergenceLimit
	cfg.Solver.LogEvery = sc.LogEvery

	cfg.Spline.Smoothing = 0
	cfg.Spline.Regularization = spline.DefaultOptions().Regularization

	cfg.Samples.Function = "sin*cos"
	cfg.Samples.Segments = 8
	cfg.Samples.OnNodeWeight = 1
	cfg.Samples.OffNodeWeight = 1
	cfg.Samples.NodeEpsilon = 1e-9

	cfg.Output.ProfilePoints = 100
	cfg.Output.RasterSize = 256
	cfg.Output.STLResolution = 50
	cfg.Output.STLScale = Scale{X: 1, Y: 1, Z: 1}
	cfg.Output.LogLevel = "info"

	cfg.Sweep.Smoothing = []float64{0, 0.01, 0.1, 1, 10}
	cfg.Sweep.NumWorkers = runtime.NumCPU()

	return cfg
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Grid.X.SplitParameter().Split(); err != nil {
		errs = append(errs, fmt.Errorf("grid.x: %w", err))
	}
	if _, err := c.Grid.Y.SplitParameter().Split(); err != nil {
		errs = append(errs, fmt.Errorf("grid.y: %w", err))
	}
	if err := c.SolverConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("solver: %w", err))
	}
	if !nonNegative(c.Spline.Smoothing) {
		errs = append(errs, fmt.Errorf("spline.smoothing must be finite and non-negative, got %g", c.Spline.Smoothing))
	}
	if !nonNegative(c.Spline.Regularization) {
		errs = append(errs, fmt.Errorf("spline.regularization must be finite and non-negative, got %g", c.Spline.Regularization))
	}
	if _, err := oracle.Lookup(c.Samples.Function); err != nil {
		errs = append(errs, fmt.Errorf("samples.function: %w", err))
	}
	if c.Samples.Segments < 1 {
		errs = append(errs, fmt.Errorf("samples.segments must be positive, got %d", c.Samples.Segments))
	}
	if !nonNegative(c.Samples.OnNodeWeight) || !nonNegative(c.Samples.OffNodeWeight) {
		errs = append(errs, errors.New("samples weights must be finite and non-negative"))
	}
	if c.Output.ProfilePoints < 1 {
		errs = append(errs, fmt.Errorf("output.profilePoints must be positive, got %d", c.Output.ProfilePoints))
	}
	if c.Output.RasterFile != "" && c.Output.RasterSize < 2 {
		errs = append(errs, fmt.Errorf("output.rasterSize must be at least 2, got %d", c.Output.RasterSize))
	}
	if c.Output.STLFile != "" && c.Output.STLResolution < 1 {
		errs = append(errs, fmt.Errorf("output.stlResolution must be positive, got %d", c.Output.STLResolution))
	}
	if sc := c.Output.STLScale; !positive(sc.X) || !positive(sc.Y) || !positive(sc.Z) {
		errs = append(errs, fmt.Errorf("output.stlScale factors must be positive, got %+v", sc))
	}
	if _, err := logrus.ParseLevel(c.Output.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("output.logLevel: %w", err))
	}
	for _, s := range c.Sweep.Smoothing {
		if !nonNegative(s) {
			errs = append(errs, fmt.Errorf("sweep.smoothing contains invalid value %g", s))
			break
		}
	}
	return errors.Join(errs...)
}

// nonNegative rejects NaN and infinities along with negative values.
func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// SolverConfig converts the solver section.
func (c *Config) SolverConfig() solver.Config {
	return solver.Config{
		MaxIterations:   c.Solver.MaxIterations,
		Tolerance:       c.Solver.Tolerance,
		Relaxation:      c.Solver.Relaxation,
		Preconditioner:  solver.Preconditioner(c.Solver.Preconditioner),
		DivergenceLimit: c.Solver.DivergenceLimit,
		LogEvery:        c.Solver.LogEvery,
	}
}

// SplineOptions converts the spline section.
func (c *Config) SplineOptions() spline.Options {
	return spline.Options{Regularization: c.Spline.Regularization}
}

// GridBuilder returns a builder with both axes set.
func (c *Config) GridBuilder() *geometry.GridBuilder {
	return geometry.NewGridBuilder().
		SetXAxis(c.Grid.X.SplitParameter()).
		SetYAxis(c.Grid.Y.SplitParameter())
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
