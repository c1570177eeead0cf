package bc

import (
	"fmt"
	"math"
	"sort"

	"stagbc/geom"
)

// KinBlock is a rigid region moving along a prescribed path: ordered
// path points with times and orientation angles, plus a polygon footprint
// sampled at the initial pose and z-bounds. The block does not carry a
// velocity field of its own; grid points inside the footprint get the
// finite-difference velocity of their transformed position over a step.
//
// Path interpolation is linear between bracketing path points. Curved
// (spline) path input would need adaptive subdivision to keep the curve
// parameter proportional to arc length and is not implemented.
type KinBlock struct {
	Path     []geom.Pose // positions, orientations at the path times
	Times    []float64
	Poly     *geom.Polygon // footprint at Path[0]
	Bot, Top float64
}

// NewKinBlock validates path/time counts and monotonicity and builds the
// footprint polygon with the containment tolerance used by the rules.
func NewKinBlock(path []geom.Pose, times []float64, poly []geom.Point2, bot, top float64) (*KinBlock, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("bc: kinematic block needs at least 2 path points, got %d", len(path))
	}
	if len(path) > maxPathPoints {
		return nil, fmt.Errorf("bc: too many path points: %d, max allowed: %d", len(path), maxPathPoints)
	}
	if len(times) != len(path) {
		return nil, fmt.Errorf("bc: kinematic block has %d path points but %d times", len(path), len(times))
	}
	if !sort.Float64sAreSorted(times) {
		return nil, fmt.Errorf("bc: kinematic block path times must be ascending")
	}
	if len(poly) < 3 {
		return nil, fmt.Errorf("bc: kinematic block polygon needs at least 3 vertices, got %d", len(poly))
	}
	if len(poly) > maxPolyPoints {
		return nil, fmt.Errorf("bc: too many polygon vertices: %d, max allowed: %d", len(poly), maxPolyPoints)
	}
	if bot > top {
		return nil, fmt.Errorf("bc: kinematic block bottom %g above top %g", bot, top)
	}
	return &KinBlock{
		Path:  path,
		Times: times,
		Poly:  geom.NewPolygon(poly, polyRTol),
		Bot:   bot,
		Top:   top,
	}, nil
}

// Position interpolates the block pose at time t. ok is false outside
// the path's time interval.
func (b *KinBlock) Position(t float64) (p geom.Pose, ok bool) {
	var (
		n = len(b.Times)
		i int
	)
	if t < b.Times[0] || t > b.Times[n-1] {
		return geom.Pose{}, false
	}
	for i = 1; i < n-1; i++ {
		if t < b.Times[i] {
			break
		}
	}
	i--
	r := (t - b.Times[i]) / (b.Times[i+1] - b.Times[i])
	s := 1.0 - r
	return geom.Pose{
		X:     s*b.Path[i].X + r*b.Path[i+1].X,
		Y:     s*b.Path[i].Y + r*b.Path[i+1].Y,
		Theta: s*b.Path[i].Theta + r*b.Path[i+1].Theta,
	}, true
}

// PolygonAt maps the footprint into world space at pose p.
func (b *KinBlock) PolygonAt(p geom.Pose) *geom.Polygon {
	var (
		a     = b.Path[0]
		theta = p.Theta - a.Theta
		costh = math.Cos(theta)
		sinth = math.Sin(theta)
		verts = make([]geom.Point2, len(b.Poly.Verts))
	)
	for i, v := range b.Poly.Verts {
		verts[i] = geom.RotDispPoint2D(a, p, costh, sinth, v)
	}
	return geom.NewPolygon(verts, polyRTol)
}
