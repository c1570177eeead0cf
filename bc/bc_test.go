package bc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagbc/config"
	"stagbc/grid"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func newTestBC(t *testing.T, p *config.Parameters) *BC {
	t.Helper()
	if p.Grid.Cells == [3]int{} {
		p.Grid = config.GridParams{
			Min:   [3]float64{0, 0, 0},
			Max:   [3]float64{1, 1, 1},
			Cells: [3]int{4, 4, 4},
		}
	}
	g := grid.NewUniform(p.Grid.Min, p.Grid.Max,
		p.Grid.Cells[0], p.Grid.Cells[1], p.Grid.Cells[2])
	dof := grid.DOFIndex{Mode: grid.Coupled, Lnv: g.NumVelDOF(), Lnp: g.NumCells()}
	b, err := New(g, SingleRank{}, dof, p)
	require.NoError(t, err)
	return b
}

func TestDefaultStrainVelocities(t *testing.T) {
	var (
		b = newTestBC(t, &config.Parameters{
			Exx: config.StrainSchedule{Rates: []float64{1.0}},
		})
		g = b.Grid()
	)
	require.NoError(t, b.Apply(0, 0.1, false))

	// vx = Exx*(x - ref) on the x faces
	v, ok := b.Vx.At(0, 1, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
	v, ok = b.Vx.At(g.X.Nodes-1, 1, 1)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	// Ezz closes incompressibility: vz = -(Exx+Eyy)*(z - ref)
	v, ok = b.Vz.At(1, 1, g.Z.Nodes-1)
	require.True(t, ok)
	assert.Equal(t, -1.0, v)
	v, ok = b.Vz.At(1, 1, 0)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	// interior stays free
	assert.False(t, b.Vx.IsSet(2, 1, 1))
	assert.False(t, b.Vz.IsSet(1, 1, 2))

	// every boundary normal velocity is a single-point constraint:
	// two faces of 4x4 slots per component
	nvel, npres := b.SPC().NumSPC()
	assert.Equal(t, 96, nvel)
	assert.Equal(t, 0, npres)
}

func TestStrainRateTensor(t *testing.T) {
	b := newTestBC(t, &config.Parameters{
		Exx: config.StrainSchedule{Rates: []float64{0.5, 2.0}, TimeDelims: []float64{1.0}},
		Eyy: config.StrainSchedule{Rates: []float64{0.25}},
		Exz: config.StrainSchedule{Rates: []float64{0.5}},
	})

	exx, eyy, ezz, exy, eyz, exz := b.StrainRates(0)
	assert.Equal(t, 0.5, exx)
	assert.Equal(t, 0.25, eyy)
	assert.Equal(t, -0.75, ezz)
	assert.Equal(t, 0.0, exy)
	assert.Equal(t, 0.0, eyz)
	assert.Equal(t, 1.0, exz) // engineering shear, doubled

	exx, _, ezz, _, _, _ = b.StrainRates(5.0)
	assert.Equal(t, 2.0, exx)
	assert.Equal(t, -2.25, ezz)
}

func TestOpenTopSkipsNormalVelocity(t *testing.T) {
	var (
		b = newTestBC(t, &config.Parameters{
			Exx:                  config.StrainSchedule{Rates: []float64{1.0}},
			OpenTopBound:         true,
			OpenBotBound:         false,
			PermeablePhaseInflow: ip(0),
		})
		g = b.Grid()
	)
	require.NoError(t, b.Apply(0, 0.1, false))

	assert.False(t, b.Vz.IsSet(1, 1, g.Z.Nodes-1))
	assert.True(t, b.Vz.IsSet(1, 1, 0))
}

func TestPressureConstraintFreesNormalVelocity(t *testing.T) {
	var (
		b = newTestBC(t, &config.Parameters{
			Exx:     config.StrainSchedule{Rates: []float64{1.0}},
			PresBot: fp(3.5),
		})
		g = b.Grid()
	)
	require.NoError(t, b.Apply(0, 0.1, false))

	p, ok := b.P.At(1, 1, -1)
	require.True(t, ok)
	assert.Equal(t, 3.5, p)

	// the constrained-pressure face keeps its normal velocity free
	assert.False(t, b.Vz.IsSet(1, 1, 0))
	assert.True(t, b.Vz.IsSet(1, 1, g.Z.Nodes-1))
}

func TestTemperatureSchedule(t *testing.T) {
	b := newTestBC(t, &config.Parameters{
		TempBot:           []float64{100, 200},
		TempBotTimeDelims: []float64{10},
		TempTop:           fp(0),
	})

	require.NoError(t, b.Apply(0, 0.1, false))
	v, ok := b.T.At(1, 1, -1)
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
	v, ok = b.T.At(1, 1, b.Grid().Z.Cells)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	require.NoError(t, b.Apply(20, 0.1, false))
	v, _ = b.T.At(1, 1, -1)
	assert.Equal(t, 200.0, v)

	// zero-flux sides carry nothing
	assert.False(t, b.T.IsSet(-1, 1, 1))
}

func TestVelBoxOverridesDefaults(t *testing.T) {
	b := newTestBC(t, &config.Parameters{
		Exx: config.StrainSchedule{Rates: []float64{1.0}},
		VelBoxes: []config.VelBoxParams{{
			Center: [3]float64{0.5, 0.5, 0.5},
			Width:  [3]float64{2, 2, 2}, // swallows the whole domain
			Vx:     fp(5.0),
		}},
	})
	require.NoError(t, b.Apply(0, 0.1, false))

	// the box wins over the strain-rate default on the boundary
	v, ok := b.Vx.At(0, 1, 1)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
	// and constrains the interior
	v, ok = b.Vx.At(2, 1, 1)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
	// vy and vz untouched by the box
	assert.False(t, b.Vy.IsSet(1, 2, 1))
}

func TestVelBoxOverridesKinematicBlock(t *testing.T) {
	b := newTestBC(t, &config.Parameters{
		Blocks: []config.BlockParams{{
			Path: []config.PathPoint{
				{X: 0.5, Y: 0.5, Time: 0},
				{X: 1.5, Y: 0.5, Time: 2},
			},
			Poly: []config.Vertex{
				{X: 0.3, Y: 0.3}, {X: 0.7, Y: 0.3}, {X: 0.7, Y: 0.7}, {X: 0.3, Y: 0.7},
			},
			Bot: 0, Top: 1,
		}},
		VelBoxes: []config.VelBoxParams{{
			Center: [3]float64{0.5, 0.5, 0.5},
			Width:  [3]float64{0.3, 0.3, 0.3},
			Vx:     fp(9.0),
		}},
	})
	require.NoError(t, b.Apply(0, 0.1, false))

	// the vx node at (0.5, 0.375, 0.375) sits inside both the block
	// footprint and the box; the box runs later and wins
	v, ok := b.Vx.At(2, 1, 1)
	require.True(t, ok)
	assert.Equal(t, 9.0, v)

	// block-only territory keeps the block velocity
	v, ok = b.Vx.At(2, 1, 3) // z = 0.875, above the box
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-12)
}

func TestVelBoxSkippedForInitialGuess(t *testing.T) {
	b := newTestBC(t, &config.Parameters{
		VelBoxes: []config.VelBoxParams{{
			Center: [3]float64{0.5, 0.5, 0.5},
			Width:  [3]float64{2, 2, 2},
			Vx:     fp(5.0),
		}},
	})
	require.NoError(t, b.Apply(0, 0.1, true))
	assert.False(t, b.Vx.IsSet(2, 1, 1))

	require.NoError(t, b.Apply(0, 0.1, false))
	assert.True(t, b.Vx.IsSet(2, 1, 1))
}

func TestKinematicBlockVelocity(t *testing.T) {
	// block translating +x at 0.5/time unit, footprint around the
	// domain center, full depth
	b := newTestBC(t, &config.Parameters{
		Blocks: []config.BlockParams{{
			Path: []config.PathPoint{
				{X: 0.5, Y: 0.5, Time: 0},
				{X: 1.5, Y: 0.5, Time: 2},
			},
			Poly: []config.Vertex{
				{X: 0.3, Y: 0.3}, {X: 0.7, Y: 0.3}, {X: 0.7, Y: 0.7}, {X: 0.3, Y: 0.7},
			},
			Bot: 0, Top: 1,
		}},
	})
	require.NoError(t, b.Apply(0, 0.1, false))

	// vx node at x=0.5 sits inside the footprint
	v, ok := b.Vx.At(2, 1, 1)
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-12)
	// pure translation: vy constrained to zero inside the footprint
	v, ok = b.Vy.At(1, 2, 1)
	require.True(t, ok)
	assert.InDelta(t, 0.0, v, 1e-12)
	// outside the footprint the interior stays free
	assert.False(t, b.Vx.IsSet(1, 0, 1))
}

func TestKinematicBlockOutsidePathWindow(t *testing.T) {
	b := newTestBC(t, &config.Parameters{
		Blocks: []config.BlockParams{{
			Path: []config.PathPoint{
				{X: 0.5, Y: 0.5, Time: 0},
				{X: 1.5, Y: 0.5, Time: 2},
			},
			Poly: []config.Vertex{
				{X: 0.3, Y: 0.3}, {X: 0.7, Y: 0.3}, {X: 0.7, Y: 0.7}, {X: 0.3, Y: 0.7},
			},
			Bot: 0, Top: 1,
		}},
	})
	// t+dt beyond the last path sample: the block is inactive
	require.NoError(t, b.Apply(1.95, 0.1, false))
	assert.False(t, b.Vx.IsSet(2, 1, 1))
}

func TestNoSlipGhostConstraints(t *testing.T) {
	var (
		b = newTestBC(t, &config.Parameters{
			NoSlip: [6]int{0, 0, 0, 0, 0, 1}, // top face
		})
		g = b.Grid()
	)
	require.NoError(t, b.Apply(0, 0.1, false))

	// tangential velocities mirrored through the top ghost layer
	v, ok := b.Vx.At(1, 1, g.Z.Cells)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
	v, ok = b.Vy.At(1, 1, g.Z.Cells)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)

	// ghost writes are two-point constraints: the SPC list only holds
	// the 96 boundary normal velocities from the default rule
	nvel, _ := b.SPC().NumSPC()
	assert.Equal(t, 96, nvel)
}

func TestNoSlipOpenTopRejected(t *testing.T) {
	g := grid.NewUniform([3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 4, 4, 4)
	_, err := New(g, SingleRank{}, grid.DOFIndex{}, &config.Parameters{
		NoSlip:               [6]int{0, 0, 0, 0, 0, 1},
		OpenTopBound:         true,
		PermeablePhaseInflow: ip(0),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-slip")
}

func TestOpenBottomRequiresInflowPhase(t *testing.T) {
	g := grid.NewUniform([3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 4, 4, 4)
	_, err := New(g, SingleRank{}, grid.DOFIndex{}, &config.Parameters{
		OpenBotBound: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inflow phase")
}

func TestZeroInitialGradientRejected(t *testing.T) {
	g := grid.NewUniform([3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 4, 4, 4)
	_, err := New(g, SingleRank{}, grid.DOFIndex{}, &config.Parameters{
		InitTemp: true,
		TempBot:  []float64{100},
		TempTop:  fp(100),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gradient")
}

func TestTooManyRegionsRejected(t *testing.T) {
	g := grid.NewUniform([3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 4, 4, 4)
	boxes := make([]config.VelBoxParams, maxRegions+1)
	for i := range boxes {
		boxes[i] = config.VelBoxParams{Width: [3]float64{1, 1, 1}, Vx: fp(1)}
	}
	_, err := New(g, SingleRank{}, grid.DOFIndex{}, &config.Parameters{VelBoxes: boxes})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many velocity boxes")
}

func TestApplyResetsPreviousState(t *testing.T) {
	b := newTestBC(t, &config.Parameters{
		Exx: config.StrainSchedule{Rates: []float64{1.0, 0.0}, TimeDelims: []float64{1.0}},
	})

	require.NoError(t, b.Apply(0, 0.1, false))
	nvel, _ := b.SPC().NumSPC()
	assert.Equal(t, 96, nvel)

	// second period: zero strain still constrains the boundaries, to 0
	require.NoError(t, b.Apply(5, 0.1, false))
	v, ok := b.Vx.At(b.Grid().X.Nodes-1, 1, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestGridStretching(t *testing.T) {
	b := newTestBC(t, &config.Parameters{
		Exx: config.StrainSchedule{Rates: []float64{1.0}},
	})

	b.StretchGrid(0, 0.5)
	_, _, _, ex, _, ez := b.Grid().GlobalBox()
	assert.InDelta(t, 1.5, ex, 1e-12) // x += eps*(x-ref), eps = 0.5
	assert.InDelta(t, 0.5, ez, 1e-12) // ezz = -exx shrinks z
	bx, _, _, _, _, _ := b.Grid().GlobalBox()
	assert.InDelta(t, 0.0, bx, 1e-12) // reference point stays put
}
