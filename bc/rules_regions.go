package bc

import (
	"math"

	"stagbc/geom"
	"stagbc/grid"
)

// applyBlocks constrains the horizontal velocities inside each
// kinematic block to the rigid-body velocity of its path over the
// current step. Blocks whose path does not cover [t, t+dt] are skipped.
func (b *BC) applyBlocks(ctx *stepCtx) error {
	for _, blk := range b.blocks {
		beg, okB := blk.Position(ctx.t)
		end, okE := blk.Position(ctx.t + ctx.dt)
		if !okB || !okE {
			continue
		}
		var (
			theta        = end.Theta - beg.Theta
			costh, sinth = math.Cos(theta), math.Sin(theta)
			poly         = blk.PolygonAt(beg)
		)
		move := func(p geom.Point2) geom.Point2 {
			return geom.RotDispPoint2D(beg, end, costh, sinth, p)
		}
		b.eachSlot(grid.VX, func(i, j, k int, x, y, z float64) {
			if z < blk.Bot || z > blk.Top {
				return
			}
			p := geom.Point2{X: x, Y: y}
			if !poly.Contains(p) {
				return
			}
			b.Vx.Set(i, j, k, (move(p).X-p.X)/ctx.dt)
		})
		b.eachSlot(grid.VY, func(i, j, k int, x, y, z float64) {
			if z < blk.Bot || z > blk.Top {
				return
			}
			p := geom.Point2{X: x, Y: y}
			if !poly.Contains(p) {
				return
			}
			b.Vy.Set(i, j, k, (move(p).Y-p.Y)/ctx.dt)
		})
	}
	return nil
}

// applyVelBoxes constrains the requested velocity components inside
// each box. Skipped during an initial-guess solve so that the guess is
// not polluted by internal Dirichlet values.
func (b *BC) applyVelBoxes(ctx *stepCtx) error {
	if ctx.initGuess {
		return nil
	}
	for _, vb := range b.boxes {
		box := vb.Bounds(ctx.t)
		for _, c := range []struct {
			s   grid.Stagger
			f   *Field
			d   int
			vel float64
		}{
			{grid.VX, b.Vx, 0, vb.Vel[0]},
			{grid.VY, b.Vy, 1, vb.Vel[1]},
			{grid.VZ, b.Vz, 2, vb.Vel[2]},
		} {
			if !vb.Has[c.d] {
				continue
			}
			f, vel := c.f, c.vel
			b.eachSlot(c.s, func(i, j, k int, x, y, z float64) {
				if box.Contains(x, y, z) {
					f.Set(i, j, k, vel)
				}
			})
		}
	}
	return nil
}

// applyVelCylinders constrains velocity components inside each
// cylinder, with an optional parabolic falloff from the axis. Skipped
// during an initial-guess solve.
func (b *BC) applyVelCylinders(ctx *stepCtx) error {
	if ctx.initGuess {
		return nil
	}
	for _, vc := range b.cylinders {
		cyl := vc.Shape(ctx.t)
		for _, c := range []struct {
			s grid.Stagger
			f *Field
			d int
		}{
			{grid.VX, b.Vx, 0},
			{grid.VY, b.Vy, 1},
			{grid.VZ, b.Vz, 2},
		} {
			if !vc.Has[c.d] {
				continue
			}
			f, d := c.f, c.d
			b.eachSlot(c.s, func(i, j, k int, x, y, z float64) {
				u, r := cyl.Radial(x, y, z)
				if u < 0 || u > 1 || r > 1 {
					return
				}
				f.Set(i, j, k, vc.Velocity(d, r))
			})
		}
	}
	return nil
}

// applyPhaseLock freezes all six face velocities of cells filled
// entirely by the lock phase.
func (b *BC) applyPhaseLock(*stepCtx) error {
	if b.fixPhase < 0 || b.phaseFrac == nil {
		return nil
	}
	g := b.g
	for k := 0; k < g.Z.Cells; k++ {
		for j := 0; j < g.Y.Cells; j++ {
			for i := 0; i < g.X.Cells; i++ {
				cell := (k*g.Y.Cells+j)*g.X.Cells + i
				if b.phaseFrac[cell] != 1.0 {
					continue
				}
				b.lockCell(i, j, k)
			}
		}
	}
	return nil
}

// applyCellLock freezes all six face velocities of cells flagged in the
// fixed-cell file.
func (b *BC) applyCellLock(*stepCtx) error {
	if !b.fixCell || b.fixCellFlag == nil {
		return nil
	}
	g := b.g
	for k := 0; k < g.Z.Cells; k++ {
		for j := 0; j < g.Y.Cells; j++ {
			for i := 0; i < g.X.Cells; i++ {
				cell := (k*g.Y.Cells+j)*g.X.Cells + i
				if b.fixCellFlag[cell] == 0 {
					continue
				}
				b.lockCell(i, j, k)
			}
		}
	}
	return nil
}

func (b *BC) lockCell(i, j, k int) {
	b.Vx.Set(i, j, k, 0.0)
	b.Vx.Set(i+1, j, k, 0.0)
	b.Vy.Set(i, j, k, 0.0)
	b.Vy.Set(i, j+1, k, 0.0)
	b.Vz.Set(i, j, k, 0.0)
	b.Vz.Set(i, j, k+1, 0.0)
}
