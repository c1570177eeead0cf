package geom

import "math"

// Point2 is a point in the horizontal (x,y) plane.
type Point2 struct {
	X, Y float64
}

// Pose is a rigid-body pose in the horizontal plane: position plus a
// counter-clockwise rotation angle.
type Pose struct {
	X, Y, Theta float64
}

// RotDispPoint2D maps point p from the frame of pose a into world space
// at pose b: rotate about a's origin by (b.Theta - a.Theta), then
// translate so that a's origin lands on b's.
func RotDispPoint2D(a, b Pose, costh, sinth float64, p Point2) Point2 {
	var (
		dx = p.X - a.X
		dy = p.Y - a.Y
	)
	return Point2{
		X: b.X + costh*dx - sinth*dy,
		Y: b.Y + sinth*dx + costh*dy,
	}
}

// Polygon is a closed 2D polygon with a precomputed bounding box and an
// absolute boundary tolerance derived from a relative tolerance against
// the polygon extent.
type Polygon struct {
	Verts      []Point2
	xmin, xmax float64
	ymin, ymax float64
	atol       float64
}

// NewPolygon builds a polygon from its vertex list. rtol is the relative
// tolerance used to admit boundary points in containment tests.
func NewPolygon(verts []Point2, rtol float64) *Polygon {
	var (
		p = &Polygon{Verts: verts}
	)
	p.xmin, p.xmax = verts[0].X, verts[0].X
	p.ymin, p.ymax = verts[0].Y, verts[0].Y
	for _, v := range verts[1:] {
		p.xmin = math.Min(p.xmin, v.X)
		p.xmax = math.Max(p.xmax, v.X)
		p.ymin = math.Min(p.ymin, v.Y)
		p.ymax = math.Max(p.ymax, v.Y)
	}
	p.atol = rtol * math.Max(p.xmax-p.xmin, p.ymax-p.ymin)
	return p
}

// Contains tests point q against the polygon. The bounding box expanded
// by the tolerance is used as a cheap pre-filter, points within the
// tolerance of an edge count as inside, otherwise a crossing-number test
// decides.
func (p *Polygon) Contains(q Point2) bool {
	if q.X < p.xmin-p.atol || q.X > p.xmax+p.atol ||
		q.Y < p.ymin-p.atol || q.Y > p.ymax+p.atol {
		return false
	}
	var (
		n        = len(p.Verts)
		crossing int
	)
	for i := 0; i < n; i++ {
		a := p.Verts[i]
		b := p.Verts[(i+1)%n]
		if distPointSegment(q, a, b) <= p.atol {
			return true
		}
		// crossing-number test: count edges crossed by the ray y=q.Y, x>q.X
		if (a.Y > q.Y) != (b.Y > q.Y) {
			xc := a.X + (q.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if xc > q.X {
				crossing++
			}
		}
	}
	return crossing%2 == 1
}

func distPointSegment(q, a, b Point2) float64 {
	var (
		abx = b.X - a.X
		aby = b.Y - a.Y
		aqx = q.X - a.X
		aqy = q.Y - a.Y
	)
	den := abx*abx + aby*aby
	if den == 0 {
		return math.Hypot(aqx, aqy)
	}
	t := (aqx*abx + aqy*aby) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(q.X-(a.X+t*abx), q.Y-(a.Y+t*aby))
}

// Box is an axis-aligned box with inclusive bounds.
type Box struct {
	Min, Max [3]float64
}

// Contains performs the inclusive per-axis bounds test.
func (b Box) Contains(x, y, z float64) bool {
	return x >= b.Min[0] && x <= b.Max[0] &&
		y >= b.Min[1] && y <= b.Max[1] &&
		z >= b.Min[2] && z <= b.Max[2]
}

// Cylinder is a finite cylinder between a base point and a cap point.
type Cylinder struct {
	Base, Cap [3]float64
	Radius    float64
}

// Radial projects a test point onto the base-to-cap axis. u is the
// normalized parametric coordinate along the axis, r the perpendicular
// distance from the axis normalized by the radius.
func (c Cylinder) Radial(x, y, z float64) (u, r float64) {
	var (
		ax = c.Cap[0] - c.Base[0]
		ay = c.Cap[1] - c.Base[1]
		az = c.Cap[2] - c.Base[2]
		px = x - c.Base[0]
		py = y - c.Base[1]
		pz = z - c.Base[2]
	)
	u = (ax*px + ay*py + az*pz) / (ax*ax + ay*ay + az*az)
	dx := px - u*ax
	dy := py - u*ay
	dz := pz - u*az
	r = math.Sqrt(dx*dx+dy*dy+dz*dz) / c.Radius
	return
}

// Contains reports whether the point falls inside the finite cylinder.
func (c Cylinder) Contains(x, y, z float64) bool {
	u, r := c.Radial(x, y, z)
	return u >= 0 && u <= 1 && r <= 1
}
