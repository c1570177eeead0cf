package bc

import "math"

// Marker is the subset of a material tracer the constraint engine may
// rewrite: position, phase and temperature.
type Marker struct {
	X     [3]float64
	Phase int
	T     float64
}

// OverrideMarker rewrites the phase and temperature of a marker sitting
// in an inflow boundary cell, so that recycled tracers re-enter the
// domain as fresh inflow material. cellID is the rank-local cell the
// marker currently occupies. Markers away from active inflow
// boundaries are left untouched.
func (b *BC) OverrideMarker(t float64, cellID int, m *Marker) {
	if b.win == nil && b.plume == nil && !b.botOpen {
		return
	}
	var (
		g       = b.g
		i, j, k = g.CellIJK(cellID)
		x, y, z = m.X[0], m.X[1], m.X[2]
	)

	if w := b.win; w != nil && b.onWindowFace(i, j) {
		if z >= w.Bot && z <= w.Top && w.TempMode != TempFromMarker {
			switch w.TempMode {
			case TempConstant:
				m.T = w.ConstTemp
			case TempThermalAge:
				// half-space cooling profile below the window top, plus
				// the adiabatic correction with depth
				var (
					_, _, _, _, _, ztop = g.GlobalBox()
					zplate              = math.Abs(z - w.Top)
					dT                  float64
				)
				if b.adiabaticGrad > 0 {
					dT = b.adiabaticGrad * math.Abs(z-ztop)
				}
				m.T = (w.MantleTemp-w.TopTemp)*
					math.Erf(zplate/2.0/math.Sqrt(b.thermalKappa*w.ThermalAge)) +
					w.TopTemp + dT
			}
		}
		if len(w.Phases) > 0 &&
			z >= w.Bot-w.RelaxDist && z <= w.Top+w.RelaxDist {
			for ip, ph := range w.Phases {
				if z >= w.PhaseBounds[ip] && z < w.PhaseBounds[ip+1] {
					m.Phase = ph
				}
			}
		}
	}

	// bottom-boundary inflow material
	if g.Z.First && k == 0 {
		tbot, _ := b.BottomTemp(t)
		if p := b.plume; p != nil {
			phase := b.phaseInflowBot
			if p.Footprint(x, y) {
				phase = p.Phase
			}
			dx := x - p.Center[0]
			r2 := dx * dx
			if p.Dim == 2 {
				dy := y - p.Center[1]
				r2 += dy * dy
			}
			m.Phase = phase
			m.T = tbot + (p.Temperature-tbot)*math.Exp(-r2/(p.Radius*p.Radius))
		} else if b.botOpen {
			m.Phase = b.phaseInflowBot
			m.T = tbot
		}
	}
}

// onWindowFace reports whether the local cell column sits on the global
// boundary face carrying the inflow window. The compensating mode
// drives whole-face velocities and has no per-marker material rule.
func (b *BC) onWindowFace(i, j int) bool {
	g := b.g
	switch b.win.Face {
	case Left:
		return g.X.First && i == 0
	case Right:
		return g.X.Last && i == g.X.Cells-1
	case Front:
		return g.Y.First && j == 0
	case Back:
		return g.Y.Last && j == g.Y.Cells-1
	}
	return false
}
