package bc

import (
	"stagbc/grid"
)

// Field stores one Dirichlet constraint slot per DOF of a single kind,
// over the rank's owned slots plus one ghost layer per axis. A slot is
// either unconstrained or carries a concrete value; the two states are
// kept in a value/set pair so that any finite value, including zero, is
// a legitimate constraint.
type Field struct {
	Stag       grid.Stagger
	nx, ny, nz int // owned slot counts
	vals       []float64
	set        []bool
}

// NewField allocates an all-unconstrained field for the given DOF kind.
func NewField(g *grid.Grid, s grid.Stagger) *Field {
	var (
		nx, ny, nz = g.Dims(s)
	)
	return &Field{
		Stag: s,
		nx:   nx,
		ny:   ny,
		nz:   nz,
		vals: make([]float64, (nx+2)*(ny+2)*(nz+2)),
		set:  make([]bool, (nx+2)*(ny+2)*(nz+2)),
	}
}

// Dims returns the owned slot counts.
func (f *Field) Dims() (nx, ny, nz int) { return f.nx, f.ny, f.nz }

// logical indices run -1..n per axis, ghost slots included
func (f *Field) idx(i, j, k int) int {
	return (k+1)*(f.ny+2)*(f.nx+2) + (j+1)*(f.nx+2) + i + 1
}

// Set constrains the slot at (i,j,k) to value v, overwriting any value
// written by an earlier rule.
func (f *Field) Set(i, j, k int, v float64) {
	n := f.idx(i, j, k)
	f.vals[n] = v
	f.set[n] = true
}

// At returns the constraint value and whether the slot is constrained.
func (f *Field) At(i, j, k int) (float64, bool) {
	n := f.idx(i, j, k)
	return f.vals[n], f.set[n]
}

// IsSet reports whether the slot carries a constraint.
func (f *Field) IsSet(i, j, k int) bool {
	return f.set[f.idx(i, j, k)]
}

// Reset marks every slot, ghosts included, unconstrained.
func (f *Field) Reset() {
	for n := range f.set {
		f.set[n] = false
		f.vals[n] = 0
	}
}

// NumSet counts constrained slots, ghosts included.
func (f *Field) NumSet() int {
	var (
		c int
	)
	for _, s := range f.set {
		if s {
			c++
		}
	}
	return c
}

// Exchanger synchronizes constraint fields across rank boundaries: owned
// boundary layers are merged into the neighboring ranks' ghost slots.
// The exchange is collective; every rank must call it at the same point
// of the step.
type Exchanger interface {
	LocalToLocal(f *Field) error
}

// SingleRank is the degenerate exchanger for an undecomposed domain:
// there are no neighbors, ghost slots keep their locally written values.
type SingleRank struct{}

func (SingleRank) LocalToLocal(*Field) error { return nil }
