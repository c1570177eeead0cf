package bc

import (
	"math"

	"stagbc/grid"
)

// OutflowVel solves the bottom-face mass balance for the uniform
// outflow velocity outside the plume footprint, so that the net flux
// through the bottom is zero (scaled by AreaFrac for domains that model
// a symmetric slice of the plume).
//
// Poiseuille: the mean of V(1-r^2/R^2) is 2/3 V over a band and 1/2 V
// over a disk. Gaussian: the profile is V_out + (V_in-V_out)e^(-r^2/R^2)
// over the whole face, so integrating the exponential in closed form
// (sqrt(pi)/2 R erf(x/R) per axis) and zeroing the total flux gives
// V_out = -V_in*s/(1-s) with s the face-average of the exponential.
func (p *Plume) OutflowVel(xmin, xmax, ymin, ymax float64) float64 {
	var (
		areaBottom, areaInflow float64
	)
	if p.Dim == 1 {
		areaBottom = xmax - xmin
		areaInflow = 2 * p.Radius
	} else {
		areaBottom = (xmax - xmin) * (ymax - ymin)
		areaInflow = math.Pi * p.Radius * p.Radius
	}

	if p.Shape == Poiseuille {
		vavg := p.InflowVel * 2.0 / 3.0
		if p.Dim == 2 {
			vavg = p.InflowVel / 2.0
		}
		return -vavg * areaInflow * p.AreaFrac / (areaBottom - areaInflow)
	}

	var (
		c  = p.Radius
		xc = p.Center[0]
		s  float64
	)
	if p.Dim == 1 {
		s = math.Sqrt(math.Pi) * c *
			(math.Erf((xmax-xc)/c) - math.Erf((xmin-xc)/c)) / 2 / areaBottom
	} else {
		yc := p.Center[1]
		s = math.Pi * c * c / 4 *
			(math.Erf((xmax-xc)/c) - math.Erf((xmin-xc)/c)) *
			(math.Erf((ymax-yc)/c) - math.Erf((ymin-yc)/c)) / areaBottom
	}
	return -p.InflowVel * s / (1 - s) * p.AreaFrac
}

// applyPlumeInflow constrains Vz on the bottom face: the inflow profile
// over the plume footprint, the balancing outflow velocity elsewhere.
// The permeable variant leaves the velocities free (it only steers the
// marker override) and is skipped here.
func (b *BC) applyPlumeInflow(*stepCtx) error {
	if b.plume == nil || b.plume.Type != PlumeInflow {
		return nil
	}
	var (
		g = b.g
		p = b.plume
	)
	xmin, ymin, _, xmax, ymax, _ := g.GlobalBox()
	var (
		vin     = p.InflowVel
		vout    = p.OutflowVel(xmin, xmax, ymin, ymax)
		radius2 = p.Radius * p.Radius
	)
	if !g.Z.First {
		return nil
	}
	b.eachSlot(grid.VZ, func(i, j, k int, x, y, _ float64) {
		if k != 0 {
			return
		}
		dx := x - p.Center[0]
		r2 := dx * dx
		if p.Dim == 2 {
			dy := y - p.Center[1]
			r2 += dy * dy
		}
		if p.Shape == Poiseuille {
			if r2 <= radius2 {
				b.Vz.Set(i, j, 0, vin*(1-r2/radius2))
			} else {
				b.Vz.Set(i, j, 0, vout)
			}
			return
		}
		b.Vz.Set(i, j, 0, vout+(vin-vout)*math.Exp(-r2/radius2))
	})
	return nil
}
