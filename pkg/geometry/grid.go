package geometry

import (
	"fmt"
	"sort"
)

// Node is a lattice point. I and J are its positions along X and Y.
type Node struct {
	Point Point
	I, J  int
}

// Element is a rectangular cell identified by its lower-left node (I, J).
// Nodes holds the indices of its corners in the order
// lower-left, lower-right, upper-left, upper-right.
type Element struct {
	I, J  int
	Nodes [4]int
}

// Grid is a structured lattice built from two axis splits. All nodes and
// elements live in contiguous slices; every other structure refers to them
// by index.
//
// Node (i, j) has index j*nx + i and element (i, j) has index j*(nx-1) + i,
// i.e. both are stored row-major by Y then X.
type Grid struct {
	xs, ys   []float64
	nodes    []Node
	elements []Element
}

// GridBuilder assembles a Grid from one split per axis.
type GridBuilder struct {
	x, y *AxisSplitParameter
}

// NewGridBuilder returns an empty builder
func NewGridBuilder() *GridBuilder {
	return &GridBuilder{}
}

// SetXAxis sets the split along X.
func (b *GridBuilder) SetXAxis(p AxisSplitParameter) *GridBuilder {
	b.x = &p
	return b
}

// SetYAxis sets the split along Y.
func (b *GridBuilder) SetYAxis(p AxisSplitParameter) *GridBuilder {
	b.y = &p
	return b
}

// Build splits both axes and creates the grid.
func (b *GridBuilder) Build() (*Grid, error) {
	if b.x == nil {
		return nil, fmt.Errorf("x axis not set: %w", ErrIncompleteConfiguration)
	}
	if b.y == nil {
		return nil, fmt.Errorf("y axis not set: %w", ErrIncompleteConfiguration)
	}

	xs, err := b.x.Split()
	if err != nil {
		return nil, fmt.Errorf("x axis: %w", err)
	}
	ys, err := b.y.Split()
	if err != nil {
		return nil, fmt.Errorf("y axis: %w", err)
	}

	return NewGrid(xs, ys)
}

// NewGrid creates a grid directly from node coordinates. Both sequences must
// be strictly increasing with at least two values.
func NewGrid(xs, ys []float64) (*Grid, error) {
	if len(xs) < 2 || len(ys) < 2 {
		return nil, fmt.Errorf("grid needs at least 2 coordinates per axis, got %d x %d: %w",
			len(xs), len(ys), ErrInvalidParameter)
	}
	for _, values := range [][]float64{xs, ys} {
		for _, v := range values {
			if !isFinite(v) {
				return nil, fmt.Errorf("non-finite grid coordinate %g: %w", v, ErrInvalidParameter)
			}
		}
		if err := checkIncreasing(values); err != nil {
			return nil, err
		}
	}

	g := &Grid{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
	}
	nx, ny := len(xs), len(ys)

	g.nodes = make([]Node, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			g.nodes = append(g.nodes, Node{Point: Point{X: xs[i], Y: ys[j]}, I: i, J: j})
		}
	}

	g.elements = make([]Element, 0, (nx-1)*(ny-1))
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			g.elements = append(g.elements, Element{
				I: i,
				J: j,
				Nodes: [4]int{
					j*nx + i,
					j*nx + i + 1,
					(j+1)*nx + i,
					(j+1)*nx + i + 1,
				},
			})
		}
	}

	return g, nil
}

// XCoordinates returns a copy of the X node coordinates.
func (g *Grid) XCoordinates() []float64 { return append([]float64(nil), g.xs...) }

// YCoordinates returns a copy of the Y node coordinates.
func (g *Grid) YCoordinates() []float64 { return append([]float64(nil), g.ys...) }

// NodesPerAxis returns the number of node coordinates along X and Y.
func (g *Grid) NodesPerAxis() (nx, ny int) { return len(g.xs), len(g.ys) }

// NodeCount returns nx*ny.
func (g *Grid) NodeCount() int { return len(g.nodes) }

// ElementCount returns (nx-1)*(ny-1).
func (g *Grid) ElementCount() int { return len(g.elements) }

// Node returns the node with the given index.
func (g *Grid) Node(index int) Node { return g.nodes[index] }

// Nodes returns all nodes. The slice must not be modified.
func (g *Grid) Nodes() []Node { return g.nodes }

// Element returns the element with the given index.
func (g *Grid) Element(index int) Element { return g.elements[index] }

// Elements returns all elements. The slice must not be modified.
func (g *Grid) Elements() []Element { return g.elements }

// NodeIndex maps axis positions to a node index.
func (g *Grid) NodeIndex(i, j int) int { return j*len(g.xs) + i }

// ElementIndex maps a lower-left position to an element index.
func (g *Grid) ElementIndex(i, j int) int { return j*(len(g.xs)-1) + i }

// Bounds returns the bounding box of the grid.
func (g *Grid) Bounds() Rectangle {
	return Rectangle{
		Min: Point{X: g.xs[0], Y: g.ys[0]},
		Max: Point{X: g.xs[len(g.xs)-1], Y: g.ys[len(g.ys)-1]},
	}
}

// ElementBounds returns the bounding box of an element.
func (g *Grid) ElementBounds(index int) Rectangle {
	e := g.elements[index]
	return Rectangle{
		Min: Point{X: g.xs[e.I], Y: g.ys[e.J]},
		Max: Point{X: g.xs[e.I+1], Y: g.ys[e.J+1]},
	}
}

// Contains reports whether p lies in the grid's bounding box.
func (g *Grid) Contains(p Point) bool {
	return p.IsFinite() && g.Bounds().Contains(p)
}

// Locate returns the index of the element owning p.
//
// Along each axis a coordinate v belongs to the cell with x[i] <= v < x[i+1];
// the upper boundary of the domain belongs to the last cell. A point on an
// interior edge is therefore owned by the element to its right (or above it).
func (g *Grid) Locate(p Point) (int, error) {
	if !g.Contains(p) {
		return -1, fmt.Errorf("point %v outside %v..%v: %w", p, g.Bounds().Min, g.Bounds().Max, ErrOutOfDomain)
	}
	i := cellIndex(g.xs, p.X)
	j := cellIndex(g.ys, p.Y)
	return g.ElementIndex(i, j), nil
}

// cellIndex finds the cell of a sorted coordinate slice containing v.
// v is assumed to be within the slice's range up to Epsilon.
func cellIndex(coords []float64, v float64) int {
	i := sort.Search(len(coords), func(k int) bool { return coords[k] > v }) - 1
	if i < 0 {
		return 0
	}
	if i > len(coords)-2 {
		return len(coords) - 2
	}
	return i
}
