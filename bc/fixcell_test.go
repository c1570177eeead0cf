package bc

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagbc/config"
)

func writeFlagFile(t *testing.T, base string, flags []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(base+".00000000.dat", flags, 0o644))
}

func TestFixedCellsLockVelocities(t *testing.T) {
	var (
		b = newTestBC(t, &config.Parameters{FixCell: true})
		g = b.Grid()
	)
	flags := make([]byte, g.NumCells())
	flags[(1*g.Y.Cells+1)*g.X.Cells+1] = 1 // cell (1,1,1)

	base := filepath.Join(t.TempDir(), "fix")
	writeFlagFile(t, base, flags)
	require.NoError(t, b.LoadFixedCells(base))
	require.NoError(t, b.Apply(0, 0.1, false))

	for _, v := range []struct {
		f       *Field
		i, j, k int
	}{
		{b.Vx, 1, 1, 1}, {b.Vx, 2, 1, 1},
		{b.Vy, 1, 1, 1}, {b.Vy, 1, 2, 1},
		{b.Vz, 1, 1, 1}, {b.Vz, 1, 1, 2},
	} {
		val, ok := v.f.At(v.i, v.j, v.k)
		require.True(t, ok)
		assert.Equal(t, 0.0, val)
	}
	assert.False(t, b.Vx.IsSet(3, 2, 2))
}

func TestFixedCellFileSizeMismatch(t *testing.T) {
	b := newTestBC(t, &config.Parameters{FixCell: true})

	base := filepath.Join(t.TempDir(), "fix")
	writeFlagFile(t, base, make([]byte, b.Grid().NumCells()-1))
	err := b.LoadFixedCells(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flags")
}

func TestFixedCellRestartRoundTrip(t *testing.T) {
	var (
		b     = newTestBC(t, &config.Parameters{FixCell: true})
		flags = make([]byte, b.Grid().NumCells())
	)
	flags[7] = 1
	flags[42] = 1

	base := filepath.Join(t.TempDir(), "fix")
	writeFlagFile(t, base, flags)
	require.NoError(t, b.LoadFixedCells(base))

	var buf bytes.Buffer
	require.NoError(t, b.WriteRestart(&buf))

	b2 := newTestBC(t, &config.Parameters{FixCell: true})
	require.NoError(t, b2.ReadRestart(&buf))
	assert.Equal(t, flags, b2.fixCellFlag)
}

func TestPhaseLockFullCellsOnly(t *testing.T) {
	b := newTestBC(t, &config.Parameters{FixPhase: ip(3)})
	g := b.Grid()

	frac := make([]float64, g.NumCells())
	frac[(2*g.Y.Cells+2)*g.X.Cells+2] = 1.0 // cell (2,2,2) fully locked
	frac[(1*g.Y.Cells+1)*g.X.Cells+1] = 0.5 // partial: untouched
	require.NoError(t, b.SetPhaseFractions(frac))
	require.NoError(t, b.Apply(0, 0.1, false))

	v, ok := b.Vx.At(2, 2, 2)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.False(t, b.Vx.IsSet(1, 1, 1))
}
