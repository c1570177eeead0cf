package bc

// applyVelTPC writes the no-slip two-point constraints for the
// tangential velocities. These land exclusively in ghost slots, after
// the halo exchange, so the exchanged interior values are never
// clobbered and every rank bordering a no-slip face sees the same
// ghost row. The implied tangential boundary value is zero; the
// matrix assembly mirrors the interior value through the ghost slot.
func (b *BC) applyVelTPC() {
	var (
		g       = b.g
		xn, xh  = ghostIntNodeRange(g.X)
		yn, yh  = ghostIntNodeRange(g.Y)
		zn, zh  = ghostIntNodeRange(g.Z)
		xc, xch = ghostIntCellRange(g.X)
		yc, ych = ghostIntCellRange(g.Y)
		zc, zch = ghostIntCellRange(g.Z)
		mcx     = g.X.Cells
		mcy     = g.Y.Cells
		mcz     = g.Z.Cells
	)

	// Vx: tangential on the y and z faces
	for k := zc; k <= zch; k++ {
		for j := yc; j <= ych; j++ {
			for i := xn; i <= xh; i++ {
				if b.noslip[2] && g.Y.First && j == 0 {
					b.Vx.Set(i, -1, k, 0.0)
				}
				if b.noslip[3] && g.Y.Last && j == mcy-1 {
					b.Vx.Set(i, mcy, k, 0.0)
				}
				if b.noslip[4] && g.Z.First && k == 0 {
					b.Vx.Set(i, j, -1, 0.0)
				}
				if b.noslip[5] && g.Z.Last && k == mcz-1 {
					b.Vx.Set(i, j, mcz, 0.0)
				}
			}
		}
	}

	// Vy: tangential on the x and z faces
	for k := zc; k <= zch; k++ {
		for j := yn; j <= yh; j++ {
			for i := xc; i <= xch; i++ {
				if b.noslip[0] && g.X.First && i == 0 {
					b.Vy.Set(-1, j, k, 0.0)
				}
				if b.noslip[1] && g.X.Last && i == mcx-1 {
					b.Vy.Set(mcx, j, k, 0.0)
				}
				if b.noslip[4] && g.Z.First && k == 0 {
					b.Vy.Set(i, j, -1, 0.0)
				}
				if b.noslip[5] && g.Z.Last && k == mcz-1 {
					b.Vy.Set(i, j, mcz, 0.0)
				}
			}
		}
	}

	// Vz: tangential on the x and y faces
	for k := zn; k <= zh; k++ {
		for j := yc; j <= ych; j++ {
			for i := xc; i <= xch; i++ {
				if b.noslip[0] && g.X.First && i == 0 {
					b.Vz.Set(-1, j, k, 0.0)
				}
				if b.noslip[1] && g.X.Last && i == mcx-1 {
					b.Vz.Set(mcx, j, k, 0.0)
				}
				if b.noslip[2] && g.Y.First && j == 0 {
					b.Vz.Set(i, -1, k, 0.0)
				}
				if b.noslip[3] && g.Y.Last && j == mcy-1 {
					b.Vz.Set(i, mcy, k, 0.0)
				}
			}
		}
	}
}
