package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splinefit/pkg/solver"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, solver.DefaultConfig(), cfg.SolverConfig())
	assert.Equal(t, 1.6e-5, cfg.SplineOptions().Regularization)

	grid, err := cfg.GridBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, 25, grid.NodeCount())
	assert.Equal(t, 16, grid.ElementCount())
}

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Grid, cfg.Grid)
	assert.Equal(t, "sin*cos", cfg.Samples.Function)
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "splinefit.yaml")
	cfg := DefaultConfig()
	cfg.Grid.X.Segments = 6
	cfg.Grid.Y.Ratio = 1.2
	cfg.Spline.Smoothing = 0.5
	cfg.Output.PlotFile = "profile.png"

	require.NoError(t, SaveConfig(cfg, path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("spline:\n  smoothing: 2.5\nsamples:\n  function: plane\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Spline.Smoothing)
	assert.Equal(t, "plane", cfg.Samples.Function)
	assert.Equal(t, 1.6e-5, cfg.Spline.Regularization)
	assert.Equal(t, 20000, cfg.Solver.MaxIterations)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid: [unterminated"), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty axis", func(c *Config) { c.Grid.X.End = c.Grid.X.Begin }},
		{"no segments", func(c *Config) { c.Grid.Y.Segments = 0 }},
		{"relaxation", func(c *Config) { c.Solver.Relaxation = 2 }},
		{"preconditioner", func(c *Config) { c.Solver.Preconditioner = "ilu" }},
		{"negative smoothing", func(c *Config) { c.Spline.Smoothing = -1 }},
		{"negative regularization", func(c *Config) { c.Spline.Regularization = -1 }},
		{"unknown function", func(c *Config) { c.Samples.Function = "tan" }},
		{"sample segments", func(c *Config) { c.Samples.Segments = 0 }},
		{"weights", func(c *Config) { c.Samples.OffNodeWeight = -1 }},
		{"profile", func(c *Config) { c.Output.ProfilePoints = 0 }},
		{"stl resolution", func(c *Config) { c.Output.STLFile = "a.stl"; c.Output.STLResolution = 0 }},
		{"log level", func(c *Config) { c.Output.LogLevel = "loud" }},
		{"sweep", func(c *Config) { c.Sweep.Smoothing = []float64{1, -1} }},
		{"NaN smoothing", func(c *Config) { c.Spline.Smoothing = math.NaN() }},
		{"infinite smoothing", func(c *Config) { c.Spline.Smoothing = math.Inf(1) }},
		{"NaN regularization", func(c *Config) { c.Spline.Regularization = math.NaN() }},
		{"NaN weight", func(c *Config) { c.Samples.OnNodeWeight = math.NaN() }},
		{"NaN sweep", func(c *Config) { c.Sweep.Smoothing = []float64{0.1, math.NaN()} }},
		{"raster size", func(c *Config) { c.Output.RasterFile = "a.jpg"; c.Output.RasterSize = 1 }},
		{"stl scale", func(c *Config) { c.Output.STLScale.Z = 0 }},
		{"NaN stl scale", func(c *Config) { c.Output.STLScale.X = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
