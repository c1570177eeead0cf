package bc

import (
	"fmt"

	"stagbc/config"
	"stagbc/geom"
	"stagbc/grid"
	"stagbc/schedule"
)

// BC is the boundary-condition constraint engine for one rank. It owns
// the per-DOF constraint fields and the declarative rule set, rebuilds
// the constraint state every time step, and hands compact SPC lists to
// the solver. All entities are constructed once at setup and immutable
// in shape afterwards; only time-dependent scalar lookups vary.
type BC struct {
	g   *grid.Grid
	ex  Exchanger
	dof grid.DOFIndex

	// constraint fields, one per DOF kind
	Vx, Vy, Vz *Field
	P, T       *Field

	// background deformation
	exx, eyy, exy, exz, eyz *schedule.Schedule
	refPoint                [3]float64

	// velocity rule entities
	blocks    []*KinBlock
	boxes     []*VelBox
	cylinders []*VelCylinder
	win       *Window
	plume     *Plume

	// boundary flags
	noslip  [6]bool // left right front back bottom top
	topOpen bool
	botOpen bool

	// cell locking
	fixPhase    int // -1 when disabled
	fixCell     bool
	fixCellFlag []byte
	phaseFrac   []float64 // per owned cell, fraction of fixPhase material

	// temperature & pressure boundary values
	tbot           *schedule.Schedule
	ttop           float64
	hasTtop        bool
	pbot, ptop     float64
	hasPbot        bool
	hasPtop        bool
	phaseInflowBot int

	// marker override physics
	adiabaticGrad float64
	thermalKappa  float64

	spc SPCSet
}

// stepCtx carries the per-step time state through the rule pipeline.
type stepCtx struct {
	t, dt     float64
	initGuess bool
}

// rule is one stage of the ordered constraint pipeline.
type rule struct {
	name  string
	apply func(*stepCtx) error
}

// New builds the engine from validated, scaled configuration values.
// All configuration inconsistencies are reported here; the engine never
// substitutes defaults for contradictory options.
func New(g *grid.Grid, ex Exchanger, dof grid.DOFIndex, p *config.Parameters) (*BC, error) {
	var (
		b = &BC{
			g:              g,
			ex:             ex,
			dof:            dof,
			Vx:             NewField(g, grid.VX),
			Vy:             NewField(g, grid.VY),
			Vz:             NewField(g, grid.VZ),
			P:              NewField(g, grid.Center),
			T:              NewField(g, grid.Center),
			fixPhase:       -1,
			ttop:           -1,
			pbot:           -1,
			ptop:           -1,
			phaseInflowBot: -1,
			adiabaticGrad:  p.AdiabaticGradient,
			thermalKappa:   p.ThermalKappa,
		}
		err error
	)
	if b.thermalKappa == 0 {
		b.thermalKappa = 1e-6 // SI diffusivity, for unscaled input
	}

	// background strain-rate schedules; absent components are zero
	if b.exx, err = strainSchedule("exx", p.Exx); err != nil {
		return nil, err
	}
	if b.eyy, err = strainSchedule("eyy", p.Eyy); err != nil {
		return nil, err
	}
	if b.exy, err = strainSchedule("exy", p.Exy); err != nil {
		return nil, err
	}
	if b.exz, err = strainSchedule("exz", p.Exz); err != nil {
		return nil, err
	}
	if b.eyz, err = strainSchedule("eyz", p.Eyz); err != nil {
		return nil, err
	}
	b.refPoint = p.BGRefPoint

	// kinematic blocks
	if len(p.Blocks) > maxRegions {
		return nil, fmt.Errorf("bc: too many kinematic blocks: %d, max allowed: %d", len(p.Blocks), maxRegions)
	}
	for _, bp := range p.Blocks {
		blk, err := blockFromConfig(bp)
		if err != nil {
			return nil, err
		}
		b.blocks = append(b.blocks, blk)
	}

	// velocity boxes
	if len(p.VelBoxes) > maxRegions {
		return nil, fmt.Errorf("bc: too many velocity boxes: %d, max allowed: %d", len(p.VelBoxes), maxRegions)
	}
	for _, vp := range p.VelBoxes {
		vel, has := optVel(vp.Vx, vp.Vy, vp.Vz)
		box, err := NewVelBox(vp.Center, vp.Width, vel, has, vp.Advect)
		if err != nil {
			return nil, err
		}
		b.boxes = append(b.boxes, box)
	}

	// velocity cylinders
	if len(p.VelCylinders) > maxRegions {
		return nil, fmt.Errorf("bc: too many velocity cylinders: %d, max allowed: %d", len(p.VelCylinders), maxRegions)
	}
	for _, cp := range p.VelCylinders {
		prof, err := ParseVelProfile(cp.Type)
		if err != nil {
			return nil, err
		}
		vel, has := optVel(cp.Vx, cp.Vy, cp.Vz)
		var vmag float64
		if cp.Vmag != nil {
			vmag = *cp.Vmag
		}
		cyl, err := NewVelCylinder(cp.Base, cp.Cap, cp.Radius, vel, has,
			vmag, cp.Vmag != nil, prof, cp.Advect)
		if err != nil {
			return nil, err
		}
		b.cylinders = append(b.cylinders, cyl)
	}

	// boundary flags
	for d := 0; d < 6; d++ {
		b.noslip[d] = p.NoSlip[d] != 0
	}
	b.topOpen = p.OpenTopBound
	b.botOpen = p.OpenBotBound
	if p.PermeablePhaseInflow != nil {
		b.phaseInflowBot = *p.PermeablePhaseInflow
	}

	// inflow window
	if p.InflowWindow != nil {
		if b.win, err = windowFromConfig(p.InflowWindow, g); err != nil {
			return nil, err
		}
	}

	// plume
	if p.Plume != nil {
		if b.plume, err = plumeFromConfig(p.Plume); err != nil {
			return nil, err
		}
		if b.plume.Type == PlumePermeable {
			b.botOpen = true
			if p.Plume.MantlePhase == nil {
				return nil, fmt.Errorf("bc: the mantle plume phase must be defined for a permeable plume")
			}
			b.phaseInflowBot = *p.Plume.MantlePhase
		}
		// an inflow-type plume needs no explicit inflow phase; markers
		// outside the footprint default to the first material
		if b.phaseInflowBot < 0 {
			b.phaseInflowBot = 0
		}
	}
	if b.botOpen && b.phaseInflowBot < 0 {
		return nil, fmt.Errorf("bc: the permeable inflow phase must be defined for an open bottom boundary")
	}

	// temperature & pressure boundary values
	if len(p.TempBot) > 0 {
		if b.tbot, err = schedule.New(p.TempBot, p.TempBotTimeDelims); err != nil {
			return nil, err
		}
	}
	if p.TempTop != nil {
		b.ttop = *p.TempTop
		b.hasTtop = true
	}
	if p.PresBot != nil {
		b.pbot = *p.PresBot
		b.hasPbot = true
	}
	if p.PresTop != nil {
		b.ptop = *p.PresTop
		b.hasPtop = true
	}

	if p.InitTemp && b.tbot != nil && b.hasTtop && b.tbot.Value(0) == b.ttop {
		return nil, fmt.Errorf("bc: top and bottom temperatures give zero initial gradient")
	}
	if b.topOpen && b.noslip[5] {
		return nil, fmt.Errorf("bc: no-slip condition is incompatible with an open top boundary")
	}
	if b.botOpen && b.noslip[4] {
		return nil, fmt.Errorf("bc: no-slip condition is incompatible with an open bottom boundary")
	}

	// cell locking
	if p.FixPhase != nil {
		b.fixPhase = *p.FixPhase
	}
	b.fixCell = p.FixCell
	if b.fixCell {
		b.fixCellFlag = make([]byte, g.NumCells())
	}

	b.spc = SPCSet{dof: dof}
	return b, nil
}

func strainSchedule(name string, s config.StrainSchedule) (*schedule.Schedule, error) {
	if len(s.Rates) == 0 {
		return schedule.Constant(0), nil
	}
	if len(s.Rates) > maxPeriods {
		return nil, fmt.Errorf("bc: too many %s strain-rate periods: %d, max allowed: %d",
			name, len(s.Rates), maxPeriods)
	}
	sched, err := schedule.New(s.Rates, s.TimeDelims)
	if err != nil {
		return nil, fmt.Errorf("bc: %s strain rate: %w", name, err)
	}
	return sched, nil
}

func optVel(vx, vy, vz *float64) (vel [3]float64, has [3]bool) {
	if vx != nil {
		vel[0], has[0] = *vx, true
	}
	if vy != nil {
		vel[1], has[1] = *vy, true
	}
	if vz != nil {
		vel[2], has[2] = *vz, true
	}
	return
}

func blockFromConfig(bp config.BlockParams) (*KinBlock, error) {
	var (
		path  = make([]geom.Pose, len(bp.Path))
		times = make([]float64, len(bp.Path))
		poly  = make([]geom.Point2, len(bp.Poly))
	)
	for i, pp := range bp.Path {
		path[i] = geom.Pose{X: pp.X, Y: pp.Y, Theta: pp.Theta}
		times[i] = pp.Time
	}
	for i, v := range bp.Poly {
		poly[i] = geom.Point2{X: v.X, Y: v.Y}
	}
	return NewKinBlock(path, times, poly, bp.Bot, bp.Top)
}

func windowFromConfig(wp *config.WindowParams, g *grid.Grid) (*Window, error) {
	face, err := ParseFace(wp.Face)
	if err != nil {
		return nil, err
	}
	velIn, err := schedule.New(wp.VelIn, wp.VelInTimeDelims)
	if err != nil {
		return nil, fmt.Errorf("bc: inflow velocity: %w", err)
	}
	_, _, zbot, _, _, _ := g.GlobalBox()
	var velOut float64
	if wp.VelOut != nil {
		velOut = *wp.VelOut
	}
	w, err := NewWindow(face, wp.FaceOut, wp.Bot, wp.Top, velIn,
		velOut, wp.VelOut != nil, wp.RelaxDist, zbot)
	if err != nil {
		return nil, err
	}
	w.VelBot = wp.VelBot
	w.VelTop = wp.VelTop

	switch wp.TemperatureInflow {
	case "":
		w.TempMode = TempFromMarker
	case "Constant_T_inflow":
		w.TempMode = TempConstant
		w.ConstTemp = wp.ConstantTemperature
	case "Fixed_thermal_age":
		w.TempMode = TempThermalAge
		w.TopTemp = wp.TemperatureTop
		w.MantleTemp = wp.TemperatureMantle
		w.ThermalAge = wp.ThermalAge
		if w.ThermalAge <= 0 {
			return nil, fmt.Errorf("bc: fixed thermal age inflow requires a positive thermal age")
		}
	default:
		return nil, fmt.Errorf("bc: unknown inflow temperature mode %q", wp.TemperatureInflow)
	}

	if len(wp.Phases) > 0 {
		if len(wp.PhaseIntervals) != len(wp.Phases)+1 {
			return nil, fmt.Errorf("bc: %d inflow phases require %d interval bounds, got %d",
				len(wp.Phases), len(wp.Phases)+1, len(wp.PhaseIntervals))
		}
		w.Phases = wp.Phases
		w.PhaseBounds = wp.PhaseIntervals
	}
	return w, nil
}

func plumeFromConfig(pp *config.PlumeParams) (*Plume, error) {
	var (
		ptype PlumeType
		shape PlumeShape
		dim   int
	)
	switch pp.Type {
	case "Inflow_Type":
		ptype = PlumeInflow
	case "Permeable_Type":
		ptype = PlumePermeable
	default:
		return nil, fmt.Errorf("bc: choose either Inflow_Type or Permeable_Type as plume type, not %q", pp.Type)
	}
	switch pp.VelocityType {
	case "Poiseuille":
		shape = Poiseuille
	case "", "Gaussian":
		shape = Gaussian
	default:
		return nil, fmt.Errorf("bc: choose either Poiseuille or Gaussian as plume velocity type, not %q", pp.VelocityType)
	}
	switch pp.Dimension {
	case "2D":
		dim = 1
	case "3D":
		dim = 2
	default:
		return nil, fmt.Errorf("bc: choose either 2D or 3D as plume dimension, not %q", pp.Dimension)
	}
	var center [2]float64
	if len(pp.Center) < dim {
		return nil, fmt.Errorf("bc: plume center needs %d coordinates, got %d", dim, len(pp.Center))
	}
	copy(center[:], pp.Center)
	return NewPlume(ptype, shape, dim, center, pp.Radius,
		pp.Temperature, pp.Phase, pp.InflowVelocity, pp.AreaFrac)
}

// SetPhaseFractions hands the engine the per-cell volume fraction of the
// phase-lock material for the current step. The slice is indexed by the
// rank's flat owned-cell index.
func (b *BC) SetPhaseFractions(frac []float64) error {
	if len(frac) != b.g.NumCells() {
		return fmt.Errorf("bc: phase fraction count %d does not match %d owned cells",
			len(frac), b.g.NumCells())
	}
	b.phaseFrac = frac
	return nil
}

// Grid returns the rank's grid.
func (b *BC) Grid() *grid.Grid { return b.g }

// SPC returns the constraint lists built by the last Apply.
func (b *BC) SPC() *SPCSet { return &b.spc }

// Apply rebuilds the whole constraint state for the step starting at
// time t with length dt. Rules run in a fixed order; a later rule may
// overwrite DOFs written by an earlier one, so reordering changes
// results and is not permitted. After the velocity rules the ghost
// layers are synchronized collectively, the two-point (no-slip)
// constraints are written into ghost slots, and the SPC lists are
// extracted from the owned slots.
func (b *BC) Apply(t, dt float64, initGuess bool) error {
	var (
		ctx = stepCtx{t: t, dt: dt, initGuess: initGuess}
	)
	for _, f := range []*Field{b.Vx, b.Vy, b.Vz, b.P, b.T} {
		f.Reset()
	}

	pipeline := []rule{
		{"temperature", b.applyTemp},
		{"pressure", b.applyPres}, // must precede velocity-default
		{"velocity-default", b.applyVelDefault},
		{"kinematic-block", b.applyBlocks},
		{"boundary-window", b.applyBoundVel},
		{"velocity-box", b.applyVelBoxes},
		{"velocity-cylinder", b.applyVelCylinders},
		{"phase-lock", b.applyPhaseLock},
		{"cell-lock", b.applyCellLock},
		{"plume-inflow", b.applyPlumeInflow},
	}
	for _, r := range pipeline {
		if err := r.apply(&ctx); err != nil {
			return fmt.Errorf("bc: %s rule: %w", r.name, err)
		}
	}

	// propagate owned boundary values into neighbor ghost layers before
	// the ghost-only no-slip writes and the owned-only SPC scan
	for _, f := range []*Field{b.Vx, b.Vy, b.Vz} {
		if err := b.ex.LocalToLocal(f); err != nil {
			return fmt.Errorf("bc: ghost synchronization of %s: %w", f.Stag, err)
		}
	}

	b.applyVelTPC()
	b.listSPC()
	return nil
}

// StrainRates evaluates the background strain-rate tensor components at
// time t. The vertical normal component closes incompressibility,
// Ezz = -(Exx+Eyy); shear components are doubled so that the second
// invariant reproduces the configured value.
func (b *BC) StrainRates(t float64) (exx, eyy, ezz, exy, eyz, exz float64) {
	exx = b.exx.Value(t)
	eyy = b.eyy.Value(t)
	ezz = -(exx + eyy)
	exy = b.exy.Value(t) * 2.0
	exz = b.exz.Value(t) * 2.0
	eyz = b.eyz.Value(t) * 2.0
	return
}

// BottomTemp evaluates the (possibly scheduled) bottom temperature; ok
// is false when no bottom temperature constraint is configured.
func (b *BC) BottomTemp(t float64) (tbot float64, ok bool) {
	if b.tbot == nil {
		return 0, false
	}
	return b.tbot.Value(t), true
}

// StretchGrid deforms the rank's grid with the current background strain
// rate about the reference point, accumulating eps = E*dt per axis.
func (b *BC) StretchGrid(t, dt float64) {
	exx, eyy, ezz, _, _, _ := b.StrainRates(t)
	if exx != 0 {
		b.g.X.Stretch(exx*dt, b.refPoint[0])
	}
	if eyy != 0 {
		b.g.Y.Stretch(eyy*dt, b.refPoint[1])
	}
	if ezz != 0 {
		b.g.Z.Stretch(ezz*dt, b.refPoint[2])
	}
}
