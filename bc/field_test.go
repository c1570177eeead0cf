package bc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagbc/grid"
)

func TestFieldSetBitCarriesZeroValues(t *testing.T) {
	var (
		g = grid.NewUniform([3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 4, 4, 4)
		f = NewField(g, grid.VX)
	)

	// a prescribed zero is a constraint, not an unset slot
	f.Set(1, 1, 1, 0.0)
	v, ok := f.At(1, 1, 1)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.True(t, f.IsSet(1, 1, 1))

	_, ok = f.At(2, 1, 1)
	assert.False(t, ok)
	assert.Equal(t, 1, f.NumSet())

	f.Reset()
	assert.False(t, f.IsSet(1, 1, 1))
	assert.Equal(t, 0, f.NumSet())
}

func TestFieldGhostSlots(t *testing.T) {
	var (
		g = grid.NewUniform([3]float64{0, 0, 0}, [3]float64{1, 1, 1}, 4, 4, 4)
		f = NewField(g, grid.Center)
	)
	nx, ny, nz := f.Dims()
	require.Equal(t, 4, nx)
	require.Equal(t, 4, ny)
	require.Equal(t, 4, nz)

	f.Set(-1, 0, 0, 1.5)
	f.Set(nx, ny-1, nz-1, 2.5)
	v, ok := f.At(-1, 0, 0)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	v, ok = f.At(nx, ny-1, nz-1)
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
	assert.False(t, f.IsSet(0, 0, 0))
}
