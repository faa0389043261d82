package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"splinefit/internal/models"
	"splinefit/pkg/config"
	"splinefit/pkg/experiment"
)

func main() {
	configPath := flag.String("config", "splinefit.yaml", "YAML configuration file (defaults are used if it does not exist)")
	outputDir := flag.String("output-dir", ".", "Directory for plots and STL output")
	writeConfig := flag.String("write-config", "", "Write the default configuration to this file and exit")
	sweep := flag.String("sweep", "", "Comma separated smoothing values to fit concurrently (\"config\" uses sweep.smoothing)")
	logLevel := flag.String("log-level", "", "Override output.logLevel")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			logrus.Fatalf("Failed to write configuration: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *writeConfig)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *logLevel != "" {
		cfg.Output.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	level, _ := logrus.ParseLevel(cfg.Output.LogLevel)
	logrus.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := experiment.NewRunner(&experiment.Params{Config: cfg, OutputDir: *outputDir})

	if *sweep != "" {
		smoothings, err := parseSweep(*sweep, cfg.Sweep.Smoothing)
		if err != nil {
			logrus.Fatalf("Invalid sweep: %v", err)
		}
		runSweep(ctx, runner, smoothings)
		return
	}

	startTime := time.Now()
	if err := runner.Process(ctx); err != nil {
		logrus.Fatalf("Fit failed: %v", err)
	}
	elapsed := time.Since(startTime)

	printTables(runner.Profile())

	m := runner.GetMetrics()
	fmt.Printf("\nFit completed in %.2f seconds\n", elapsed.Seconds())
	fmt.Printf("Gauss-Seidel: %s after %d sweeps (residual %.3e)\n", m.Status, m.Iterations, m.Residual)
	fmt.Printf("RMSE vs true function:  %.6e\n", m.RMSE)
	fmt.Printf("Max error:              %.6e\n", m.MaxError)
	fmt.Printf("Weighted sample RMS:    %.6e\n", m.SampleRMS)
	fmt.Printf("Max deviation (direct): %.6e\n", m.DirectDeviation)
}

// printTables prints the direct, iterative and true values along the profile.
func printTables(rows []models.ProfileRow) {
	tables := []struct {
		title string
		value func(models.ProfileRow) float64
	}{
		{"Direct solution", func(r models.ProfileRow) float64 { return r.Direct }},
		{"Spline solution", func(r models.ProfileRow) float64 { return r.Spline }},
		{"True solution", func(r models.ProfileRow) float64 { return r.True }},
	}
	for _, table := range tables {
		fmt.Println(table.title)
		for _, row := range rows {
			fmt.Printf("%.8f %.8f %.8e\n", row.X, row.Y, table.value(row))
		}
	}
}

func runSweep(ctx context.Context, runner *experiment.Runner, smoothings []float64) {
	runner.SetProgressCallback(func(completed, total int, message string) {
		fmt.Printf("\rFitting: %.1f%% complete", float64(completed)/float64(total)*100)
	})

	results, err := runner.Sweep(ctx, smoothings)
	fmt.Println()
	if err != nil {
		logrus.Fatalf("Sweep failed: %v", err)
	}

	fmt.Printf("%-12s %-14s %-14s %-8s %s\n", "smoothing", "rms", "max abs", "sweeps", "status")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-12g error: %v\n", r.Smoothing, r.Err)
			continue
		}
		status := "converged"
		if !r.Converged {
			status = "not converged"
		}
		fmt.Printf("%-12g %-14.6e %-14.6e %-8d %s\n", r.Smoothing, r.RMS, r.MaxAbs, r.Iterations, status)
	}
}

func parseSweep(arg string, fromConfig []float64) ([]float64, error) {
	if arg == "config" {
		return fromConfig, nil
	}
	var values []float64
	for _, field := range strings.Split(arg, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, fmt.Errorf("smoothing must be non-negative, got %g", v)
		}
		values = append(values, v)
	}
	return values, nil
}
