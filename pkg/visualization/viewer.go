// Package visualization renders fitted surfaces: grayscale rasters, heat
// maps and diagonal profile plots.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"splinefit/internal/models"
	"splinefit/pkg/geometry"
)

// Surface is anything that can be evaluated over a rectangle.
type Surface interface {
	Calculate(p geometry.Point) (float64, error)
}

// Viewer samples a surface on a regular lattice for rendering.
type Viewer struct {
	surface Surface
	bounds  geometry.Rectangle
}

// NewViewer creates a viewer for surface over bounds
func NewViewer(surface Surface, bounds geometry.Rectangle) *Viewer {
	return &Viewer{surface: surface, bounds: bounds}
}

// Sample evaluates the surface on a cols x rows lattice covering the bounds,
// corners included. The result is indexed [row][col] with row 0 at Min.Y.
func (v *Viewer) Sample(cols, rows int) ([][]float64, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("lattice must be at least 2x2, got %dx%d", cols, rows)
	}

	values := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		values[r] = make([]float64, cols)
		for c := 0; c < cols; c++ {
			p := v.at(c, r, cols, rows)
			z, err := v.surface.Calculate(p)
			if err != nil {
				return nil, fmt.Errorf("sample at %v: %w", p, err)
			}
			values[r][c] = z
		}
	}
	return values, nil
}

func (v *Viewer) at(c, r, cols, rows int) geometry.Point {
	x := v.bounds.Min.X + v.bounds.Width()*float64(c)/float64(cols-1)
	y := v.bounds.Min.Y + v.bounds.Height()*float64(r)/float64(rows-1)
	if c == cols-1 {
		x = v.bounds.Max.X
	}
	if r == rows-1 {
		y = v.bounds.Max.Y
	}
	return geometry.NewPoint(x, y)
}

// Raster renders the surface as a 16-bit grayscale image, normalised so the
// lowest sampled value is black and the highest white. Image row 0 is the
// top of the domain.
func (v *Viewer) Raster(width, height int) (*image.Gray16, error) {
	values, err := v.Sample(width, height)
	if err != nil {
		return nil, err
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range values {
		for _, z := range row {
			lo = math.Min(lo, z)
			hi = math.Max(hi, z)
		}
	}
	span := hi - lo

	img := image.NewGray16(image.Rect(0, 0, width, height))
	for r, row := range values {
		for c, z := range row {
			level := 0.0
			if span > 0 {
				level = (z - lo) / span
			}
			img.SetGray16(c, height-1-r, color.Gray16{Y: uint16(math.Round(level * 65535))})
		}
	}
	return img, nil
}

// SaveRaster saves an image as a JPEG file
func SaveRaster(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// surfaceGrid adapts sampled values to plotter.GridXYZ.
type surfaceGrid struct {
	values [][]float64
	xs, ys []float64
}

func (g surfaceGrid) Dims() (c, r int)   { return len(g.xs), len(g.ys) }
func (g surfaceGrid) Z(c, r int) float64 { return g.values[r][c] }
func (g surfaceGrid) X(c int) float64    { return g.xs[c] }
func (g surfaceGrid) Y(r int) float64    { return g.ys[r] }

// SaveHeatMap renders the surface as a heat map with resolution cells per
// axis and saves it. The format follows the file extension.
func (v *Viewer) SaveHeatMap(filename, title string, resolution int) error {
	values, err := v.Sample(resolution, resolution)
	if err != nil {
		return err
	}
	grid := surfaceGrid{
		values: values,
		xs:     make([]float64, resolution),
		ys:     make([]float64, resolution),
	}
	for i := 0; i < resolution; i++ {
		p := v.at(i, i, resolution, resolution)
		grid.xs[i] = p.X
		grid.ys[i] = p.Y
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewHeatMap(grid, palette.Heat(32, 1)))

	return save(p, filename)
}

// SaveProfilePlot plots the fitted, direct and true values of a profile
// against the distance along it.
func SaveProfilePlot(filename, title string, rows []models.ProfileRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("profile is empty")
	}

	fit := make(plotter.XYs, len(rows))
	direct := make(plotter.XYs, len(rows))
	truth := make(plotter.XYs, len(rows))
	for i, row := range rows {
		d := math.Hypot(row.X-rows[0].X, row.Y-rows[0].Y)
		fit[i] = plotter.XY{X: d, Y: row.Spline}
		direct[i] = plotter.XY{X: d, Y: row.Direct}
		truth[i] = plotter.XY{X: d, Y: row.True}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "distance along profile"
	p.Y.Label.Text = "z"
	if err := plotutil.AddLines(p, "spline", fit, "direct", direct, "true", truth); err != nil {
		return fmt.Errorf("failed to add profile lines: %w", err)
	}

	return save(p, filename)
}

func save(p *plot.Plot, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
