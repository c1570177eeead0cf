package bc

import (
	"math"

	"stagbc/grid"
)

// ghostIntCellRange extends an owned cell range into the ghost layer on
// rank-internal sides, so that two-point values written next to a
// partition boundary also land in the shared ghost rows.
func ghostIntCellRange(a grid.Axis) (lo, hi int) {
	lo, hi = 0, a.Cells-1
	if !a.First {
		lo = -1
	}
	if !a.Last {
		hi = a.Cells
	}
	return
}

func ghostIntNodeRange(a grid.Axis) (lo, hi int) {
	lo, hi = 0, a.Nodes-1
	if !a.First {
		lo = -1
	}
	if !a.Last {
		hi = a.Nodes
	}
	return
}

// eachSlot visits every owned slot of a DOF kind with its staggered
// coordinates.
func (b *BC) eachSlot(s grid.Stagger, fn func(i, j, k int, x, y, z float64)) {
	var (
		g          = b.g
		nx, ny, nz = g.Dims(s)
	)
	xc := g.X.CellCoord
	if s == grid.VX {
		xc = g.X.NodeCoord
	}
	yc := g.Y.CellCoord
	if s == grid.VY {
		yc = g.Y.NodeCoord
	}
	zc := g.Z.CellCoord
	if s == grid.VZ {
		zc = g.Z.NodeCoord
	}
	for k := 0; k < nz; k++ {
		z := zc(k)
		for j := 0; j < ny; j++ {
			y := yc(j)
			for i := 0; i < nx; i++ {
				fn(i, j, k, xc(i), y, z)
			}
		}
	}
}

// applyTemp writes the top/bottom temperature constraints into the
// cell-center ghost layers (two-point constraints against the boundary
// cells), with the plume thermal perturbation embedded at the bottom.
// Unset boundary temperatures mean zero-flux and write nothing.
func (b *BC) applyTemp(ctx *stepCtx) error {
	var (
		g        = b.g
		tbot, ok = b.BottomTemp(ctx.t)
	)
	if !ok && !b.hasTtop {
		return nil
	}
	xlo, xhi := ghostIntCellRange(g.X)
	ylo, yhi := ghostIntCellRange(g.Y)
	for k := 0; k < g.Z.Cells; k++ {
		atBot := ok && g.Z.First && k == 0
		atTop := b.hasTtop && g.Z.Last && k == g.Z.Cells-1
		if !atBot && !atTop {
			continue
		}
		for j := ylo; j <= yhi; j++ {
			for i := xlo; i <= xhi; i++ {
				if atBot {
					b.T.Set(i, j, -1, tbot)
					if b.plume != nil {
						b.plumeBottomTemp(i, j, tbot)
					}
				}
				if atTop {
					b.T.Set(i, j, g.Z.Cells, b.ttop)
				}
			}
		}
	}
	return nil
}

// plumeBottomTemp overwrites the bottom ghost temperature inside the
// plume footprint: a Gaussian bump towards the plume temperature in 2D,
// the plume temperature itself in 3D.
func (b *BC) plumeBottomTemp(i, j int, tbot float64) {
	var (
		p = b.plume
		x = b.g.X.CellCoord(i)
		y = b.g.Y.CellCoord(j)
	)
	if !p.Footprint(x, y) {
		return
	}
	if p.Dim == 1 {
		dx := x - p.Center[0]
		b.T.Set(i, j, -1, tbot+(p.Temperature-tbot)*math.Exp(-dx*dx/(p.Radius*p.Radius)))
		return
	}
	b.T.Set(i, j, -1, p.Temperature)
}

// applyPres writes the top/bottom pressure constraints into the
// cell-center ghost layers. Must run before the velocity defaults,
// which skip the boundary normal velocity wherever a face already
// carries a pressure constraint.
func (b *BC) applyPres(*stepCtx) error {
	var (
		g = b.g
	)
	if !b.hasPbot && !b.hasPtop {
		return nil
	}
	xlo, xhi := ghostIntCellRange(g.X)
	ylo, yhi := ghostIntCellRange(g.Y)
	for k := 0; k < g.Z.Cells; k++ {
		atBot := b.hasPbot && g.Z.First && k == 0
		atTop := b.hasPtop && g.Z.Last && k == g.Z.Cells-1
		if !atBot && !atTop {
			continue
		}
		for j := ylo; j <= yhi; j++ {
			for i := xlo; i <= xhi; i++ {
				if atBot {
					b.P.Set(i, j, -1, b.pbot)
				}
				if atTop {
					b.P.Set(i, j, g.Z.Cells, b.ptop)
				}
			}
		}
	}
	return nil
}

// applyVelDefault constrains the domain-boundary normal velocities from
// the background strain rate about the reference point, plus the
// simple-shear tangential values in the ghost layers. A face carrying a
// pressure constraint keeps its normal velocity free; an open boundary
// zeroes the respective normal component.
func (b *BC) applyVelDefault(ctx *stepCtx) error {
	var (
		g                            = b.g
		exx, eyy, ezz, exy, eyz, exz = b.StrainRates(ctx.t)
		rxx, ryy, rzz                = b.refPoint[0], b.refPoint[1], b.refPoint[2]
	)
	bx, by, bz, ex, ey, ez := g.GlobalBox()

	// boundary velocity = strain rate times coordinate w.r.t. reference
	vbx, vex := (bx-rxx)*exx, (ex-rxx)*exx
	vby, vey := (by-ryy)*eyy, (ey-ryy)*eyy
	vbz, vez := (bz-rzz)*ezz, (ez-rzz)*ezz
	if b.topOpen {
		vez = 0
	} else if b.botOpen {
		vbz = 0
	}

	// X-normal faces
	b.eachSlot(grid.VX, func(i, j, k int, _, y, z float64) {
		if g.X.First && i == 0 && !b.P.IsSet(-1, j, k) {
			b.Vx.Set(i, j, k, vbx+(z-rzz)*exz+(y-ryy)*exy)
		}
		if g.X.Last && i == g.X.Nodes-1 && !b.P.IsSet(g.X.Cells, j, k) {
			b.Vx.Set(i, j, k, vex+(z-rzz)*exz+(y-ryy)*exy)
		}
		// simple shear: tangential ghost values, halfway to the ghost cell
		if exz != 0 {
			if g.Z.First && k == 0 {
				b.Vx.Set(i, j, -1, (z-rzz)*exz+(g.Z.CellCoord(k-1)-z)*exz/2.0)
			}
			if g.Z.Last && k == g.Z.Cells-1 {
				b.Vx.Set(i, j, g.Z.Cells, (z-rzz)*exz+(g.Z.CellCoord(k+1)-z)*exz/2.0)
			}
		}
		if exy != 0 {
			if g.Y.First && j == 0 {
				b.Vx.Set(i, -1, k, (y-ryy)*exy+(g.Y.CellCoord(j-1)-y)*exy/2.0)
			}
			if g.Y.Last && j == g.Y.Cells-1 {
				b.Vx.Set(i, g.Y.Cells, k, (y-ryy)*exy+(g.Y.CellCoord(j+1)-y)*exy/2.0)
			}
		}
	})

	// Y-normal faces
	b.eachSlot(grid.VY, func(i, j, k int, _, _, z float64) {
		if g.Y.First && j == 0 && !b.P.IsSet(i, -1, k) {
			b.Vy.Set(i, j, k, vby+(z-rzz)*eyz)
		}
		if g.Y.Last && j == g.Y.Nodes-1 && !b.P.IsSet(i, g.Y.Cells, k) {
			b.Vy.Set(i, j, k, vey+(z-rzz)*eyz)
		}
		if exy != 0 {
			if g.X.First && i == 0 {
				b.Vy.Set(i, j, k, 0.0)
			}
			if g.X.Last && i == g.X.Cells-1 {
				b.Vy.Set(i, j, k, 0.0)
			}
		}
		if eyz != 0 {
			if g.Z.First && k == 0 {
				b.Vy.Set(i, j, -1, (z-rzz)*eyz+(g.Z.CellCoord(k-1)-z)*eyz/2.0)
			}
			if g.Z.Last && k == g.Z.Cells-1 {
				b.Vy.Set(i, j, g.Z.Cells, (z-rzz)*eyz+(g.Z.CellCoord(k+1)-z)*eyz/2.0)
			}
		}
	})

	// Z-normal faces
	b.eachSlot(grid.VZ, func(i, j, k int, _, _, _ float64) {
		if exz != 0 {
			if g.X.First && i == 0 {
				b.Vz.Set(i, j, k, 0.0)
			}
			if g.X.Last && i == g.X.Cells-1 {
				b.Vz.Set(i, j, k, 0.0)
			}
		}
		if eyz != 0 {
			if g.Y.First && j == 0 {
				b.Vz.Set(i, j, k, 0.0)
			}
			if g.Y.Last && j == g.Y.Cells-1 {
				b.Vz.Set(i, j, k, 0.0)
			}
		}
		if g.Z.First && k == 0 && !b.botOpen && !b.P.IsSet(i, j, -1) {
			b.Vz.Set(i, j, k, vbz)
		}
		if g.Z.Last && k == g.Z.Nodes-1 && !b.topOpen && !b.P.IsSet(i, j, g.Z.Cells) {
			b.Vz.Set(i, j, k, vez)
		}
	})

	return nil
}
