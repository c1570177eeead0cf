package bc

import "stagbc/grid"

// profile evaluates the window velocity at height z. With an outflow
// face configured the inflow ramps to zero over RelaxDist above the top
// and below the bottom, and everything past the lower ramp carries the
// outflow velocity (except in the mirrored arrangement, where the
// opposite face reuses the inflow profile). Without one, the face is
// split: inflow inside the window, outflow below it.
func (w *Window) profile(z, velin, velout float64) float64 {
	var vel float64
	if w.FaceOut != 0 {
		if z <= w.Top && z >= w.Bot {
			vel = velin
		}
		if w.RelaxDist > 0 {
			if z >= w.Top && z <= w.Top+w.RelaxDist {
				vel = velin - velin/w.RelaxDist*(z-w.Top)
			}
			if z <= w.Bot && z >= w.Bot-w.RelaxDist {
				vel = velin + velin/w.RelaxDist*(z-w.Bot)
			}
		}
		if w.FaceOut != 1 && z < w.Bot-w.RelaxDist {
			vel = velout
		}
		return vel
	}
	if z <= w.Top && z >= w.Bot {
		vel = velin
	}
	if z < w.Bot {
		vel = velout
	}
	return vel
}

// applyBoundVel constrains the lateral faces from the inflow window.
// The inflow velocity may be scheduled; the outflow velocity tracks it
// through the face mass balance unless configured explicitly.
func (b *BC) applyBoundVel(ctx *stepCtx) error {
	if b.win == nil {
		return nil
	}
	var (
		g = b.g
		w = b.win
	)
	_, _, zbot, _, _, _ := g.GlobalBox()
	velin, velout := w.Velocities(ctx.t, zbot)

	switch w.Face {
	case Left, Right:
		b.eachSlot(grid.VX, func(i, j, k int, _, _, z float64) {
			var (
				first = g.X.First && i == 0
				last  = g.X.Last && i == g.X.Nodes-1
			)
			if !first && !last {
				return
			}
			vel := w.profile(z, velin, velout)
			switch {
			case w.Face == Left && first:
				b.Vx.Set(i, j, k, vel)
			case w.Face == Left && last && w.FaceOut == 1:
				b.Vx.Set(i, j, k, vel)
			case w.Face == Left && last && w.FaceOut == -1:
				b.Vx.Set(i, j, k, -vel)
			case w.Face == Right && last && w.FaceOut == 0:
				b.Vx.Set(i, j, k, vel)
			case w.Face == Right && last:
				b.Vx.Set(i, j, k, -vel)
			case w.Face == Right && first && w.FaceOut == 1:
				b.Vx.Set(i, j, k, -vel)
			case w.Face == Right && first && w.FaceOut == -1:
				b.Vx.Set(i, j, k, vel)
			}
		})

	case Front, Back:
		b.eachSlot(grid.VY, func(i, j, k int, _, _, z float64) {
			var (
				first = g.Y.First && j == 0
				last  = g.Y.Last && j == g.Y.Nodes-1
			)
			if !first && !last {
				return
			}
			vel := w.profile(z, velin, velout)
			switch {
			case w.Face == Front && first:
				b.Vy.Set(i, j, k, vel)
			case w.Face == Front && last && w.FaceOut == 1:
				b.Vy.Set(i, j, k, vel)
			case w.Face == Front && last && w.FaceOut == -1:
				b.Vy.Set(i, j, k, -vel)
			case w.Face == Back && last && w.FaceOut == 0:
				b.Vy.Set(i, j, k, vel)
			case w.Face == Back && last:
				b.Vy.Set(i, j, k, -vel)
			case w.Face == Back && first && w.FaceOut == 1:
				b.Vy.Set(i, j, k, -vel)
			case w.Face == Back && first && w.FaceOut == -1:
				b.Vy.Set(i, j, k, vel)
			}
		})

	case CompensatingInflow:
		// symmetric inflow through both x faces, compensated through
		// the horizontal boundaries
		b.eachSlot(grid.VX, func(i, j, k int, _, _, z float64) {
			var vel float64
			if z <= w.Top && z >= w.Bot {
				vel = velin
			}
			if g.X.First && i == 0 {
				b.Vx.Set(i, j, k, vel)
			}
			if g.X.Last && i == g.X.Nodes-1 {
				b.Vx.Set(i, j, k, -vel)
			}
		})
		b.eachSlot(grid.VZ, func(i, j, k int, _, _, _ float64) {
			if g.Z.First && k == 0 && !b.botOpen {
				b.Vz.Set(i, j, k, w.VelBot)
			}
			if g.Z.Last && k == g.Z.Nodes-1 && !b.topOpen {
				b.Vz.Set(i, j, k, w.VelTop)
			}
		})
	}

	return nil
}
