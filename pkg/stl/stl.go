// Package stl triangulates height fields and writes them as binary STL files.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"splinefit/pkg/geometry"
)

// Triangle is one facet of a mesh.
type Triangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
}

// HeightField returns the surface height at a point.
type HeightField func(p geometry.Point) (float64, error)

// SurfaceMesh samples a height field on a regular lattice over a rectangle
// and triangulates it, two triangles per lattice cell.
type SurfaceMesh struct {
	field      HeightField
	bounds     geometry.Rectangle
	resolution int

	// scale factors applied to x, y and z of every vertex
	xScale, yScale, zScale float32
}

// NewSurfaceMesh creates a mesh with resolution cells per axis.
func NewSurfaceMesh(field HeightField, bounds geometry.Rectangle, resolution int) *SurfaceMesh {
	return &SurfaceMesh{
		field:      field,
		bounds:     bounds,
		resolution: resolution,
		xScale:     1,
		yScale:     1,
		zScale:     1,
	}
}

// SetScale sets the factors applied to vertex coordinates.
func (m *SurfaceMesh) SetScale(x, y, z float32) {
	m.xScale, m.yScale, m.zScale = x, y, z
}

// GenerateTriangles evaluates the field on the lattice and returns
// 2*resolution^2 triangles with upward facing normals.
func (m *SurfaceMesh) GenerateTriangles() ([]Triangle, error) {
	if m.resolution < 1 {
		return nil, fmt.Errorf("resolution must be positive, got %d", m.resolution)
	}
	n := m.resolution + 1

	vertices := make([][3]float32, n*n)
	for j := 0; j < n; j++ {
		y := m.bounds.Min.Y + m.bounds.Height()*float64(j)/float64(m.resolution)
		if j == m.resolution {
			y = m.bounds.Max.Y
		}
		for i := 0; i < n; i++ {
			x := m.bounds.Min.X + m.bounds.Width()*float64(i)/float64(m.resolution)
			if i == m.resolution {
				x = m.bounds.Max.X
			}
			z, err := m.field(geometry.NewPoint(x, y))
			if err != nil {
				return nil, fmt.Errorf("height at (%g, %g): %w", x, y, err)
			}
			vertices[j*n+i] = [3]float32{
				float32(x) * m.xScale,
				float32(y) * m.yScale,
				float32(z) * m.zScale,
			}
		}
	}

	triangles := make([]Triangle, 0, 2*m.resolution*m.resolution)
	for j := 0; j < m.resolution; j++ {
		for i := 0; i < m.resolution; i++ {
			v00 := vertices[j*n+i]
			v10 := vertices[j*n+i+1]
			v01 := vertices[(j+1)*n+i]
			v11 := vertices[(j+1)*n+i+1]
			triangles = append(triangles, newTriangle(v00, v10, v11), newTriangle(v00, v11, v01))
		}
	}
	return triangles, nil
}

// newTriangle builds a facet with its normal from counter-clockwise vertices.
func newTriangle(a, b, c [3]float32) Triangle {
	u := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	normal := [3]float32{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
	}
	length := float32(math.Sqrt(float64(normal[0]*normal[0] + normal[1]*normal[1] + normal[2]*normal[2])))
	if length > 0 {
		normal[0] /= length
		normal[1] /= length
		normal[2] /= length
	}
	return Triangle{Normal: normal, Vertex1: a, Vertex2: b, Vertex3: c}
}

// SaveToSTL writes triangles as a binary STL file: an 80 byte header, the
// triangle count and 50 bytes per triangle.
func SaveToSTL(filename string, triangles []Triangle) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create STL file: %w", err)
	}

	if err := WriteSTL(file, triangles); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close STL file: %w", err)
	}
	return nil
}

// WriteSTL encodes triangles in binary STL to w.
func WriteSTL(w io.Writer, triangles []Triangle) error {
	bw := bufio.NewWriter(w)

	var header [80]byte
	copy(header[:], "splinefit surface")
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write STL header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}
	for i := range triangles {
		if err := binary.Write(bw, binary.LittleEndian, &triangles[i]); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush STL data: %w", err)
	}
	return nil
}
