package bc

import (
	"fmt"
	"math"

	"stagbc/geom"
	"stagbc/schedule"
)

const (
	maxRegions    = 10
	maxPeriods    = 20
	maxPathPoints = 25
	maxPolyPoints = 50

	polyRTol = 1e-12
)

// VelProfile is the radial falloff of a cylinder or plume velocity.
type VelProfile int

const (
	Uniform VelProfile = iota
	Parabolic
)

// ParseVelProfile maps the configuration string to a profile.
func ParseVelProfile(s string) (VelProfile, error) {
	switch s {
	case "", "uniform":
		return Uniform, nil
	case "parabolic":
		return Parabolic, nil
	}
	return 0, fmt.Errorf("bc: velocity profile must be uniform or parabolic, not %q", s)
}

// VelBox prescribes constant velocity components inside an axis-aligned
// box. Components left unset are not constrained. If Advect is set the
// box center translates with its own velocity over elapsed time.
type VelBox struct {
	Center [3]float64
	Width  [3]float64
	Vel    [3]float64
	Has    [3]bool
	Advect bool
}

// NewVelBox validates that at least one velocity component is given.
func NewVelBox(center, width [3]float64, vel [3]float64, has [3]bool, advect bool) (*VelBox, error) {
	if !has[0] && !has[1] && !has[2] {
		return nil, fmt.Errorf("bc: velocity box should specify at least one velocity component")
	}
	return &VelBox{Center: center, Width: width, Vel: vel, Has: has, Advect: advect}, nil
}

// Bounds returns the box at time t, advected if requested.
func (vb *VelBox) Bounds(t float64) geom.Box {
	var (
		c = vb.Center
	)
	if vb.Advect {
		for d := 0; d < 3; d++ {
			if vb.Has[d] {
				c[d] += vb.Vel[d] * t
			}
		}
	}
	return geom.Box{
		Min: [3]float64{c[0] - vb.Width[0]/2, c[1] - vb.Width[1]/2, c[2] - vb.Width[2]/2},
		Max: [3]float64{c[0] + vb.Width[0]/2, c[1] + vb.Width[1]/2, c[2] + vb.Width[2]/2},
	}
}

// VelCylinder prescribes velocity inside a finite cylinder, either as
// per-axis components or as a magnitude along the cylinder axis, with a
// uniform or parabolic radial profile.
type VelCylinder struct {
	Base, Cap [3]float64
	Radius    float64
	Vel       [3]float64
	Has       [3]bool
	Profile   VelProfile
	Advect    bool
}

// NewVelCylinder validates the component/magnitude choice and resolves a
// magnitude into components along the axis.
func NewVelCylinder(base, top [3]float64, radius float64, vel [3]float64, has [3]bool,
	vmag float64, hasMag bool, profile VelProfile, advect bool) (*VelCylinder, error) {

	anyComp := has[0] || has[1] || has[2]
	if anyComp && hasMag {
		return nil, fmt.Errorf("bc: for velocity cylinder, specify vmag or vx/vy/vz")
	}
	if !anyComp && !hasMag {
		return nil, fmt.Errorf("bc: velocity cylinder should specify at least one velocity component")
	}
	if hasMag {
		var (
			ax = top[0] - base[0]
			ay = top[1] - base[1]
			az = top[2] - base[2]
			a  = math.Sqrt(ax*ax + ay*ay + az*az)
		)
		if a == 0 {
			return nil, fmt.Errorf("bc: velocity cylinder has coincident base and cap")
		}
		vel = [3]float64{vmag * ax / a, vmag * ay / a, vmag * az / a}
		has = [3]bool{true, true, true}
	}
	return &VelCylinder{
		Base: base, Cap: top, Radius: radius,
		Vel: vel, Has: has, Profile: profile, Advect: advect,
	}, nil
}

// Shape returns the cylinder at time t, advected if requested.
func (vc *VelCylinder) Shape(t float64) geom.Cylinder {
	var (
		base = vc.Base
		tip  = vc.Cap
	)
	if vc.Advect {
		for d := 0; d < 3; d++ {
			if vc.Has[d] {
				base[d] += vc.Vel[d] * t
				tip[d] += vc.Vel[d] * t
			}
		}
	}
	return geom.Cylinder{Base: base, Cap: tip, Radius: vc.Radius}
}

// Velocity evaluates the profiled velocity component at normalized
// radial coordinate r.
func (vc *VelCylinder) Velocity(d int, r float64) float64 {
	if vc.Profile == Parabolic {
		return vc.Vel[d] * (1 - r*r)
	}
	return vc.Vel[d]
}

// Face identifies a lateral domain face carrying an inflow window, or
// the compensating mode driving both x faces symmetrically.
type Face int

const (
	NoFace Face = iota
	Left
	Right
	Front
	Back
	CompensatingInflow
)

// ParseFace maps the configuration string to a face selector.
func ParseFace(s string) (Face, error) {
	switch s {
	case "":
		return NoFace, nil
	case "Left":
		return Left, nil
	case "Right":
		return Right, nil
	case "Front":
		return Front, nil
	case "Back":
		return Back, nil
	case "CompensatingInflow":
		return CompensatingInflow, nil
	}
	return 0, fmt.Errorf("bc: unknown inflow face %q", s)
}

// InflowTemp selects how inflowing material gets its temperature.
type InflowTemp int

const (
	TempFromMarker InflowTemp = iota // nearest-marker inheritance (default)
	TempConstant
	TempThermalAge // half-space cooling profile
)

// Window is a boundary inflow/outflow window on one lateral face: cells
// with z in [Bot,Top] get the inflow velocity, the rest of the face the
// outflow velocity, optionally ramped over RelaxDist. FaceOut selects
// the outflow arrangement: 0 closes the balance below the window on the
// same face, 1 mirrors the profile on the opposite face, -1 puts the
// mirrored in/out profile on both faces.
type Window struct {
	Face      Face
	FaceOut   int
	Bot, Top  float64
	VelIn     *schedule.Schedule
	VelOut    float64
	hasVelOut bool // explicitly configured, never recomputed
	RelaxDist float64

	// compensating mode only
	VelBot, VelTop float64

	// inflow material rules for the marker override
	TempMode    InflowTemp
	ConstTemp   float64
	TopTemp     float64
	MantleTemp  float64
	ThermalAge  float64
	Phases      []int
	PhaseBounds []float64 // len(Phases)+1 z-interval delimiters
}

// NewWindow validates the window and resolves the outflow velocity from
// discrete mass balance over the face when it is not explicitly given:
// velout = -velin*(top-bot)/(bot-zbot).
func NewWindow(face Face, faceOut int, bot, top float64, velIn *schedule.Schedule,
	velOut float64, hasVelOut bool, relaxDist float64, zbot float64) (*Window, error) {

	if face == NoFace {
		return nil, fmt.Errorf("bc: inflow window requires a face")
	}
	if bot > top {
		return nil, fmt.Errorf("bc: inflow window bottom %g above top %g", bot, top)
	}
	if len(velIn.Values) > maxPeriods {
		return nil, fmt.Errorf("bc: too many inflow velocity periods: %d, max allowed: %d",
			len(velIn.Values), maxPeriods)
	}
	if faceOut < -1 || faceOut > 1 {
		return nil, fmt.Errorf("bc: inflow face_out must be -1, 0 or 1, got %d", faceOut)
	}
	w := &Window{
		Face:      face,
		FaceOut:   faceOut,
		Bot:       bot,
		Top:       top,
		VelIn:     velIn,
		VelOut:    velOut,
		hasVelOut: hasVelOut,
		RelaxDist: relaxDist,
	}
	if !hasVelOut {
		w.VelOut = massBalanceOutflow(velIn.Value(0), top, bot, zbot)
	}
	return w, nil
}

// Velocities returns the inflow and outflow velocities at time t. A
// scheduled inflow recomputes the mass-balance outflow each period
// unless the outflow was configured explicitly.
func (w *Window) Velocities(t, zbot float64) (velin, velout float64) {
	velin = w.VelIn.Value(t)
	velout = w.VelOut
	if !w.hasVelOut {
		velout = massBalanceOutflow(velin, w.Top, w.Bot, zbot)
	}
	return
}

func massBalanceOutflow(velin, top, bot, zbot float64) float64 {
	return -velin * (top - bot) / (bot - zbot)
}

// PlumeType distinguishes a prescribed vertical inflow from a permeable
// open bottom.
type PlumeType int

const (
	PlumeInflow PlumeType = iota + 1
	PlumePermeable
)

// PlumeShape is the inflow velocity profile over the plume footprint.
type PlumeShape int

const (
	Poiseuille PlumeShape = iota
	Gaussian
)

// Plume is a bottom-boundary inflow region: a band in 2D, a disk in 3D.
type Plume struct {
	Type        PlumeType
	Shape       PlumeShape
	Dim         int // 1 = 2D band, 2 = 3D disk
	Center      [2]float64
	Radius      float64
	Temperature float64
	Phase       int
	InflowVel   float64
	AreaFrac    float64
}

// NewPlume validates the enumerated plume options.
func NewPlume(ptype PlumeType, shape PlumeShape, dim int, center [2]float64,
	radius float64, temperature float64, phase int, inflowVel, areaFrac float64) (*Plume, error) {

	if ptype != PlumeInflow && ptype != PlumePermeable {
		return nil, fmt.Errorf("bc: choose either Inflow_Type or Permeable_Type as plume type")
	}
	if dim != 1 && dim != 2 {
		return nil, fmt.Errorf("bc: plume dimension must be 2D or 3D")
	}
	if radius <= 0 {
		return nil, fmt.Errorf("bc: plume radius must be positive, got %g", radius)
	}
	if areaFrac == 0 {
		areaFrac = 1.0
	}
	return &Plume{
		Type: ptype, Shape: shape, Dim: dim,
		Center: center, Radius: radius, Temperature: temperature,
		Phase: phase, InflowVel: inflowVel, AreaFrac: areaFrac,
	}, nil
}

// Footprint reports whether the horizontal position lies inside the
// plume region.
func (p *Plume) Footprint(x, y float64) bool {
	if p.Dim == 1 {
		return x >= p.Center[0]-p.Radius && x <= p.Center[0]+p.Radius
	}
	dx := x - p.Center[0]
	dy := y - p.Center[1]
	return dx*dx+dy*dy <= p.Radius*p.Radius
}
