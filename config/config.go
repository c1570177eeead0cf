// Package config declares the YAML input file of the solver and its
// boundary-condition sections.
package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
)

// StrainSchedule is one background strain-rate component over time:
// piecewise-constant rates with the interval delimiters between them.
// One rate and no delimiters means a constant component.
type StrainSchedule struct {
	Rates      []float64 `json:"rates,omitempty"`
	TimeDelims []float64 `json:"time_delims,omitempty"`
}

// PathPoint is one sampled pose of a kinematic block path.
type PathPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta,omitempty"`
	Time  float64 `json:"time"`
}

// Vertex is one corner of a block footprint polygon.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BlockParams configures one rigid kinematic block.
type BlockParams struct {
	Path []PathPoint `json:"path"`
	Poly []Vertex    `json:"poly"`
	Bot  float64     `json:"bot"`
	Top  float64     `json:"top"`
}

// VelBoxParams configures one internal velocity box. Velocity
// components left out of the file stay unconstrained.
type VelBoxParams struct {
	Center [3]float64 `json:"center"`
	Width  [3]float64 `json:"width"`
	Vx     *float64   `json:"vx,omitempty"`
	Vy     *float64   `json:"vy,omitempty"`
	Vz     *float64   `json:"vz,omitempty"`
	Advect bool       `json:"advect,omitempty"`
}

// VelCylinderParams configures one internal velocity cylinder. Either
// per-axis components or a magnitude along the axis must be given, not
// both.
type VelCylinderParams struct {
	Base   [3]float64 `json:"base"`
	Cap    [3]float64 `json:"cap"`
	Radius float64    `json:"radius"`
	Vx     *float64   `json:"vx,omitempty"`
	Vy     *float64   `json:"vy,omitempty"`
	Vz     *float64   `json:"vz,omitempty"`
	Vmag   *float64   `json:"vmag,omitempty"`
	Type   string     `json:"type,omitempty"` // uniform | parabolic
	Advect bool       `json:"advect,omitempty"`
}

// WindowParams configures the lateral inflow/outflow window.
type WindowParams struct {
	Face            string    `json:"face"` // Left | Right | Front | Back | CompensatingInflow
	FaceOut         int       `json:"face_out,omitempty"`
	Bot             float64   `json:"bot"`
	Top             float64   `json:"top"`
	VelIn           []float64 `json:"velin"`
	VelInTimeDelims []float64 `json:"velin_time_delims,omitempty"`
	VelOut          *float64  `json:"velout,omitempty"`
	RelaxDist       float64   `json:"relax_dist,omitempty"`

	// compensating mode only
	VelBot float64 `json:"velbot,omitempty"`
	VelTop float64 `json:"veltop,omitempty"`

	// inflow material rules
	TemperatureInflow   string    `json:"temperature_inflow,omitempty"` // Constant_T_inflow | Fixed_thermal_age
	ConstantTemperature float64   `json:"constant_temperature,omitempty"`
	TemperatureTop      float64   `json:"temperature_top,omitempty"`
	TemperatureMantle   float64   `json:"temperature_mantle,omitempty"`
	ThermalAge          float64   `json:"thermal_age,omitempty"`
	Phases              []int     `json:"phases,omitempty"`
	PhaseIntervals      []float64 `json:"phase_intervals,omitempty"`
}

// PlumeParams configures the bottom plume boundary.
type PlumeParams struct {
	Type           string    `json:"type"`                    // Inflow_Type | Permeable_Type
	VelocityType   string    `json:"velocity_type,omitempty"` // Poiseuille | Gaussian
	Dimension      string    `json:"dimension"`               // 2D | 3D
	Center         []float64 `json:"center"`
	Radius         float64   `json:"radius"`
	Temperature    float64   `json:"temperature"`
	Phase          int       `json:"phase"`
	MantlePhase    *int      `json:"mantle_phase,omitempty"`
	InflowVelocity float64   `json:"inflow_velocity,omitempty"`
	AreaFrac       float64   `json:"area_frac,omitempty"`
}

// GridParams is the global grid extent and resolution.
type GridParams struct {
	Min   [3]float64 `json:"min"`
	Max   [3]float64 `json:"max"`
	Cells [3]int     `json:"cells"`
}

// TimeParams is the stepping control.
type TimeParams struct {
	Dt    float64 `json:"dt"`
	Steps int     `json:"steps"`
}

// Parameters is the full input file.
type Parameters struct {
	Title string     `json:"Title,omitempty"`
	Grid  GridParams `json:"Grid"`
	Time  TimeParams `json:"Time"`

	// background strain rates about the reference point
	Exx        StrainSchedule `json:"exx,omitempty"`
	Eyy        StrainSchedule `json:"eyy,omitempty"`
	Exy        StrainSchedule `json:"exy,omitempty"`
	Exz        StrainSchedule `json:"exz,omitempty"`
	Eyz        StrainSchedule `json:"eyz,omitempty"`
	BGRefPoint [3]float64     `json:"bg_ref_point,omitempty"`

	// internal velocity regions
	Blocks       []BlockParams       `json:"blocks,omitempty"`
	VelBoxes     []VelBoxParams      `json:"vel_boxes,omitempty"`
	VelCylinders []VelCylinderParams `json:"vel_cylinders,omitempty"`

	// boundary surfaces
	NoSlip               [6]int        `json:"noslip,omitempty"` // left,right,front,back,bottom,top
	OpenTopBound         bool          `json:"open_top_bound,omitempty"`
	OpenBotBound         bool          `json:"open_bot_bound,omitempty"`
	PermeablePhaseInflow *int          `json:"permeable_phase_inflow,omitempty"`
	InflowWindow         *WindowParams `json:"inflow_window,omitempty"`
	Plume                *PlumeParams  `json:"plume,omitempty"`

	// temperature and pressure boundary values; absent means zero-flux
	TempBot           []float64 `json:"temp_bot,omitempty"`
	TempBotTimeDelims []float64 `json:"temp_bot_time_delims,omitempty"`
	TempTop           *float64  `json:"temp_top,omitempty"`
	PresBot           *float64  `json:"pres_bot,omitempty"`
	PresTop           *float64  `json:"pres_top,omitempty"`
	InitTemp          bool      `json:"init_temp,omitempty"`
	InitPres          bool      `json:"init_pres,omitempty"`

	AdiabaticGradient float64 `json:"adiabatic_gradient,omitempty"`
	ThermalKappa      float64 `json:"thermal_kappa,omitempty"`

	// cell locking
	FixPhase    *int   `json:"fix_phase,omitempty"`
	FixCell     bool   `json:"fix_cell,omitempty"`
	FixCellFile string `json:"fix_cell_file,omitempty"`
}

// Parse fills the parameters from YAML text.
func (p *Parameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, p); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads and parses a parameter file.
func Load(path string) (*Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	p := &Parameters{}
	if err := p.Parse(data); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return p, nil
}

// Print dumps the effective parameters.
func (p *Parameters) Print() {
	fmt.Printf("Title: %s\n", p.Title)
	fmt.Printf("Grid: %v cells over [%v, %v]\n", p.Grid.Cells, p.Grid.Min, p.Grid.Max)
	fmt.Printf("Time: dt = %v over %d steps\n", p.Time.Dt, p.Time.Steps)
	fmt.Printf("Regions: %d blocks, %d boxes, %d cylinders\n",
		len(p.Blocks), len(p.VelBoxes), len(p.VelCylinders))
	if p.InflowWindow != nil {
		fmt.Printf("Inflow window: face %s, z in [%v, %v]\n",
			p.InflowWindow.Face, p.InflowWindow.Bot, p.InflowWindow.Top)
	}
	if p.Plume != nil {
		fmt.Printf("Plume: %s %s, radius %v\n", p.Plume.Type, p.Plume.Dimension, p.Plume.Radius)
	}
	fmt.Printf("Open boundaries: top %v, bottom %v\n", p.OpenTopBound, p.OpenBotBound)
	fmt.Printf("Initialize: temperature %v, pressure %v\n", p.InitTemp, p.InitPres)
}
