package grid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Stagger selects the canonical position of a DOF kind on the grid:
// velocity components live on the faces normal to their direction,
// pressure and temperature at cell centers.
type Stagger int

const (
	VX Stagger = iota
	VY
	VZ
	Center
)

func (s Stagger) String() string {
	switch s {
	case VX:
		return "vx"
	case VY:
		return "vy"
	case VZ:
		return "vz"
	case Center:
		return "center"
	}
	return "unknown"
}

// Axis is one direction of a rank's sub-block: the owned cell range
// plus one ghost cell/node on each side, with coordinate arrays for
// cell centers and nodes.
type Axis struct {
	Start      int  // global index of the first owned cell
	Cells      int  // owned cells
	Nodes      int  // owned nodes
	TotalCells int  // cells along the whole domain
	TotalNodes int  // nodes along the whole domain
	First      bool // rank touches the lower domain boundary
	Last       bool // rank touches the upper domain boundary

	ncrd []float64 // node coordinates, logical index -1..Nodes
	ccrd []float64 // cell-center coordinates, logical index -1..Cells
	gbeg float64   // global domain begin
	gend float64   // global domain end
}

// NewUniformAxis builds a single-rank axis spanning [beg,end] with n
// uniform cells. Ghost coordinates are extrapolated with the boundary
// cell spacing.
func NewUniformAxis(beg, end float64, n int) Axis {
	var (
		a = Axis{
			Cells:      n,
			Nodes:      n + 1,
			TotalCells: n,
			TotalNodes: n + 1,
			First:      true,
			Last:       true,
			gbeg:       beg,
			gend:       end,
		}
		nodes = make([]float64, n+1)
		h     = (end - beg) / float64(n)
	)
	floats.Span(nodes, beg, end)

	a.ncrd = make([]float64, n+3)
	a.ncrd[0] = beg - h
	copy(a.ncrd[1:], nodes)
	a.ncrd[n+2] = end + h

	a.ccrd = make([]float64, n+2)
	for i := -1; i <= n; i++ {
		a.ccrd[i+1] = 0.5 * (a.ncrd[i+1] + a.ncrd[i+2])
	}
	return a
}

// Sub extracts the sub-axis of a rank owning cells [start,start+cells)
// of this (global) axis. Ghost coordinates come from the global arrays,
// so interior rank boundaries see their neighbor's true coordinates.
func (a Axis) Sub(start, cells int) (Axis, error) {
	if start < 0 || cells < 1 || start+cells > a.TotalCells {
		return Axis{}, fmt.Errorf("grid: sub-axis [%d,%d) outside of %d cells",
			start, start+cells, a.TotalCells)
	}
	var (
		s = Axis{
			Start:      start,
			Cells:      cells,
			TotalCells: a.TotalCells,
			TotalNodes: a.TotalNodes,
			First:      start == 0,
			Last:       start+cells == a.TotalCells,
			gbeg:       a.gbeg,
			gend:       a.gend,
		}
	)
	// the last rank owns the closing node
	s.Nodes = cells
	if s.Last {
		s.Nodes = cells + 1
	}
	s.ncrd = make([]float64, s.Nodes+2)
	copy(s.ncrd, a.ncrd[start:start+s.Nodes+2])
	s.ccrd = make([]float64, cells+2)
	copy(s.ccrd, a.ccrd[start:start+cells+2])
	return s, nil
}

// NodeCoord returns the node coordinate at logical index i in -1..Nodes.
func (a Axis) NodeCoord(i int) float64 { return a.ncrd[i+1] }

// CellCoord returns the cell-center coordinate at logical index i in
// -1..Cells. The ghost entries carry the neighboring rank's boundary
// cell center, or the extrapolated mirror beyond the domain.
func (a Axis) CellCoord(i int) float64 { return a.ccrd[i+1] }

// Bounds returns the global domain extent along the axis.
func (a Axis) Bounds() (beg, end float64) { return a.gbeg, a.gend }

// Stretch displaces every coordinate proportionally to its distance
// from the reference point: x += eps*(x - ref). The reference point
// stays fixed. Used to deform the mesh with the background strain rate.
func (a *Axis) Stretch(eps, ref float64) {
	for i := range a.ncrd {
		a.ncrd[i] += eps * (a.ncrd[i] - ref)
	}
	for i := range a.ccrd {
		a.ccrd[i] += eps * (a.ccrd[i] - ref)
	}
	a.gbeg += eps * (a.gbeg - ref)
	a.gend += eps * (a.gend - ref)
}

// Grid is one rank's sub-block of the distributed staggered grid.
type Grid struct {
	X, Y, Z Axis
	Rank    int
}

// NewUniform builds a single-rank uniform grid over the given box.
func NewUniform(min, max [3]float64, nx, ny, nz int) *Grid {
	return &Grid{
		X: NewUniformAxis(min[0], max[0], nx),
		Y: NewUniformAxis(min[1], max[1], ny),
		Z: NewUniformAxis(min[2], max[2], nz),
	}
}

// GlobalBox returns the current global domain bounds.
func (g *Grid) GlobalBox() (bx, by, bz, ex, ey, ez float64) {
	bx, ex = g.X.Bounds()
	by, ey = g.Y.Bounds()
	bz, ez = g.Z.Bounds()
	return
}

// Dims returns the owned slot counts per direction for a DOF kind.
func (g *Grid) Dims(s Stagger) (nx, ny, nz int) {
	nx, ny, nz = g.X.Cells, g.Y.Cells, g.Z.Cells
	switch s {
	case VX:
		nx = g.X.Nodes
	case VY:
		ny = g.Y.Nodes
	case VZ:
		nz = g.Z.Nodes
	}
	return
}

// NumCells is the rank's owned cell count.
func (g *Grid) NumCells() int {
	return g.X.Cells * g.Y.Cells * g.Z.Cells
}

// NumVelDOF is the rank's owned velocity DOF count across all three
// components, in vx-vy-vz scan order.
func (g *Grid) NumVelDOF() int {
	var (
		n int
	)
	for _, s := range []Stagger{VX, VY, VZ} {
		nx, ny, nz := g.Dims(s)
		n += nx * ny * nz
	}
	return n
}

// CellIJK expands a flat owned-cell index into i,j,k cell coordinates.
func (g *Grid) CellIJK(cellID int) (i, j, k int) {
	var (
		m = g.X.Cells
		n = g.Y.Cells
	)
	k = cellID / (m * n)
	j = (cellID - k*m*n) / m
	i = cellID - k*m*n - j*m
	return
}

// IndexingMode selects whether the solver numbers velocity and pressure
// DOFs in one coupled space or in separate blocks.
type IndexingMode int

const (
	Coupled IndexingMode = iota
	Uncoupled
)

// DOFIndex carries the rank's local-to-global index offsets as provided
// by the solver's DOF numbering.
type DOFIndex struct {
	Mode IndexingMode
	St   int // coupled: global start of the rank's DOF block
	Stv  int // uncoupled: global start of the velocity block
	Stp  int // uncoupled: global start of the pressure block
	Lnv  int // local velocity DOF count
	Lnp  int // local pressure DOF count
}

// VelShift is the offset taking local velocity indices to global ones.
func (d DOFIndex) VelShift() int {
	if d.Mode == Coupled {
		return d.St
	}
	return d.Stv
}

// PresShift is the offset taking local pressure indices (numbered after
// the velocity block) to global ones.
func (d DOFIndex) PresShift() int {
	if d.Mode == Coupled {
		return d.St
	}
	return d.Stp - d.Lnv
}
