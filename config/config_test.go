package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleInput = `
Title: subduction test
Grid:
  min: [0, 0, -1000]
  max: [1000, 100, 0]
  cells: [64, 8, 32]
Time:
  dt: 0.05
  steps: 20
exx:
  rates: [1.0e-15, 0]
  time_delims: [5.0]
bg_ref_point: [500, 50, -500]
blocks:
  - path:
      - {x: 100, y: 50, time: 0}
      - {x: 300, y: 50, time: 10}
    poly:
      - {x: 50, y: 0}
      - {x: 150, y: 0}
      - {x: 150, y: 100}
      - {x: 50, y: 100}
    bot: -400
    top: -100
vel_boxes:
  - center: [500, 50, -200]
    width: [100, 100, 50]
    vx: 0.5
inflow_window:
  face: Left
  bot: -300
  top: -100
  velin: [1.0]
  temperature_inflow: Fixed_thermal_age
  temperature_top: 0
  temperature_mantle: 1300
  thermal_age: 30
plume:
  type: Inflow_Type
  velocity_type: Poiseuille
  dimension: 2D
  center: [500]
  radius: 50
  temperature: 1600
  phase: 3
  inflow_velocity: 2.0
temp_bot: [1300, 1400]
temp_bot_time_delims: [8.0]
temp_top: 0
open_top_bound: true
noslip: [0, 0, 0, 0, 1, 0]
fix_cell: true
fix_cell_file: ./markers/fixed
`

func TestParseFullInput(t *testing.T) {
	p := &Parameters{}
	require.NoError(t, p.Parse([]byte(sampleInput)))

	assert.Equal(t, "subduction test", p.Title)
	assert.Equal(t, [3]int{64, 8, 32}, p.Grid.Cells)
	assert.Equal(t, 0.05, p.Time.Dt)

	require.Len(t, p.Exx.Rates, 2)
	assert.Equal(t, 1.0e-15, p.Exx.Rates[0])
	assert.Equal(t, [3]float64{500, 50, -500}, p.BGRefPoint)

	require.Len(t, p.Blocks, 1)
	assert.Len(t, p.Blocks[0].Path, 2)
	assert.Len(t, p.Blocks[0].Poly, 4)
	assert.Equal(t, -400.0, p.Blocks[0].Bot)

	require.Len(t, p.VelBoxes, 1)
	require.NotNil(t, p.VelBoxes[0].Vx)
	assert.Equal(t, 0.5, *p.VelBoxes[0].Vx)
	assert.Nil(t, p.VelBoxes[0].Vy)

	require.NotNil(t, p.InflowWindow)
	assert.Equal(t, "Left", p.InflowWindow.Face)
	assert.Equal(t, "Fixed_thermal_age", p.InflowWindow.TemperatureInflow)
	assert.Equal(t, 30.0, p.InflowWindow.ThermalAge)
	assert.Nil(t, p.InflowWindow.VelOut)

	require.NotNil(t, p.Plume)
	assert.Equal(t, "Inflow_Type", p.Plume.Type)
	assert.Equal(t, []float64{500}, p.Plume.Center)

	assert.Equal(t, []float64{1300, 1400}, p.TempBot)
	require.NotNil(t, p.TempTop)
	assert.Equal(t, 0.0, *p.TempTop)
	assert.Nil(t, p.PresBot)

	assert.True(t, p.OpenTopBound)
	assert.Equal(t, [6]int{0, 0, 0, 0, 1, 0}, p.NoSlip)
	assert.True(t, p.FixCell)
	assert.Equal(t, "./markers/fixed", p.FixCellFile)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	p := &Parameters{}
	require.Error(t, p.Parse([]byte("Grid: [not, a, mapping")))
}
