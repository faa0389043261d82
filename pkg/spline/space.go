package spline

import (
	"fmt"

	"splinefit/pkg/geometry"
)

// DOFRef names one local basis function of one element.
type DOFRef struct {
	Element int
	Local   int
}

// AllocatedSpace is the bicubic Hermite spline space over one grid. Nodes
// shared by neighbouring elements carry a single set of global coefficients,
// so the number of global DOFs is 4 per node rather than 16 per element.
//
// The space is immutable once allocated and may be shared by concurrent fits.
type AllocatedSpace struct {
	grid     *geometry.Grid
	elements [][LocalDOFs]int
	owners   [][]DOFRef
}

// Allocate builds the DOF maps for grid.
func Allocate(grid *geometry.Grid) (*AllocatedSpace, error) {
	if grid == nil {
		return nil, fmt.Errorf("allocate: nil grid: %w", ErrInvalidParameter)
	}

	s := &AllocatedSpace{
		grid:     grid,
		elements: make([][LocalDOFs]int, grid.ElementCount()),
		owners:   make([][]DOFRef, grid.NodeCount()*DOFsPerNode),
	}

	for e, element := range grid.Elements() {
		for corner, node := range element.Nodes {
			for kind := 0; kind < DOFsPerNode; kind++ {
				local := corner*DOFsPerNode + kind
				global := node*DOFsPerNode + kind
				s.elements[e][local] = global
				s.owners[global] = append(s.owners[global], DOFRef{Element: e, Local: local})
			}
		}
	}

	return s, nil
}

// Grid returns the grid the space was allocated for.
func (s *AllocatedSpace) Grid() *geometry.Grid { return s.grid }

// DOFCount returns the number of global coefficients.
func (s *AllocatedSpace) DOFCount() int { return len(s.owners) }

// LocalDOFCount returns elements * 16, the count before sharing.
func (s *AllocatedSpace) LocalDOFCount() int { return len(s.elements) * LocalDOFs }

// ElementDOFs returns the global coefficient indices of an element.
func (s *AllocatedSpace) ElementDOFs(element int) [LocalDOFs]int { return s.elements[element] }

// Owners returns every (element, local) pair mapped to a global coefficient.
func (s *AllocatedSpace) Owners(global int) []DOFRef {
	return append([]DOFRef(nil), s.owners[global]...)
}

// NodeDOF returns the global index of a DOF kind at a node.
func (s *AllocatedSpace) NodeDOF(node, kind int) int { return node*DOFsPerNode + kind }

// basisAt locates p and evaluates the derivative (dx, dy) of the element's
// local basis there.
func (s *AllocatedSpace) basisAt(p geometry.Point, dx, dy int) (int, [LocalDOFs]float64, error) {
	e, err := s.grid.Locate(p)
	if err != nil {
		return -1, [LocalDOFs]float64{}, err
	}
	b := s.grid.ElementBounds(e)
	hx, hy := b.Width(), b.Height()
	tx := clampUnit((p.X - b.Min.X) / hx)
	ty := clampUnit((p.Y - b.Min.Y) / hy)
	return e, localBasis(tx, ty, hx, hy, dx, dy), nil
}

func clampUnit(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
