package bc

import "fmt"

// Addressing tells whether SPC indices are rank-local slot numbers or
// global matrix rows.
type Addressing int

const (
	LocalAddressing Addressing = iota
	GlobalAddressing
)

func (a Addressing) String() string {
	if a == GlobalAddressing {
		return "global"
	}
	return "local"
}

// SPC is one single-point constraint: a DOF index and its prescribed
// value.
type SPC struct {
	Idx int
	Val float64
}

// SPCSet is the flat constraint list handed to the solver. It always
// carries its own addressing, so a consumer can tell local from global
// indices without tracking conversion state on the side.
type SPCSet struct {
	Vel  []SPC
	Pres []SPC // reserved for primary pressure constraints
	Addr Addressing

	dof DOFShifter
}

// DOFShifter converts rank-local DOF slot numbers to global matrix rows
// and back.
type DOFShifter interface {
	VelShift() int
	PresShift() int
}

// NumSPC returns the constraint counts.
func (s *SPCSet) NumSPC() (vel, pres int) {
	return len(s.Vel), len(s.Pres)
}

// Shift converts every index to the requested addressing. Shifting a
// list that is already in that addressing is a hard error: the caller
// has lost track of what the indices mean, and applying the offset
// twice would silently constrain the wrong rows.
func (s *SPCSet) Shift(to Addressing) error {
	if s.Addr == to {
		return fmt.Errorf("bc: constraint list already uses %s addressing", to)
	}
	var (
		dv = s.dof.VelShift()
		dp = s.dof.PresShift()
	)
	if to == LocalAddressing {
		dv, dp = -dv, -dp
	}
	for i := range s.Vel {
		s.Vel[i].Idx += dv
	}
	for i := range s.Pres {
		s.Pres[i].Idx += dp
	}
	s.Addr = to
	return nil
}

// ApplyToSolution overwrites the constrained entries of a rank-local
// solution vector with their prescribed values. The list must be in
// local addressing.
func (s *SPCSet) ApplyToSolution(sol []float64) error {
	if s.Addr != LocalAddressing {
		return fmt.Errorf("bc: applying %s-addressed constraints to a local vector", s.Addr)
	}
	for _, list := range [][]SPC{s.Vel, s.Pres} {
		for _, c := range list {
			if c.Idx < 0 || c.Idx >= len(sol) {
				return fmt.Errorf("bc: constraint index %d outside solution of length %d", c.Idx, len(sol))
			}
			sol[c.Idx] = c.Val
		}
	}
	return nil
}

// listSPC rebuilds the constraint list by scanning the owned slots of
// the three velocity fields in storage order (x fastest, then y, then
// z, fields in vx/vy/vz order), so the running counter reproduces the
// rank-local DOF numbering. Constrained ghost slots are two-point
// constraints and never appear here.
func (b *BC) listSPC() {
	var (
		iter int
		vel  []SPC
	)
	for _, f := range []*Field{b.Vx, b.Vy, b.Vz} {
		nx, ny, nz := f.Dims()
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					if v, ok := f.At(i, j, k); ok {
						vel = append(vel, SPC{Idx: iter, Val: v})
					}
					iter++
				}
			}
		}
	}
	b.spc.Vel = vel
	b.spc.Pres = b.spc.Pres[:0]
	b.spc.Addr = LocalAddressing
}
