package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/grid"
)

func TestGrid(t *testing.T) {
	t.Run("node id and coords round trip", func(t *testing.T) {
		g, err := grid.New(64, 32)
		require.NoError(t, err)

		assert.Equal(t, int32(64*32), g.NumNodes())
		for _, c := range [][2]int32{{0, 0}, {63, 0}, {0, 31}, {63, 31}, {10, 20}} {
			id := g.NodeID(c[0], c[1])
			x, y := g.Coords(id)
			assert.Equal(t, c[0], x)
			assert.Equal(t, c[1], y)
		}
	})

	t.Run("rejects invalid dimensions", func(t *testing.T) {
		_, err := grid.New(0, 10)
		assert.ErrorIs(t, err, grid.ErrInvalidSize)
		_, err = grid.New(10, -1)
		assert.ErrorIs(t, err, grid.ErrInvalidSize)
		_, err = grid.New(grid.MaxWidth+1, 10)
		assert.ErrorIs(t, err, grid.ErrInvalidSize)
	})

	t.Run("dynamic cost write is bounds checked", func(t *testing.T) {
		g, err := grid.New(8, 8)
		require.NoError(t, err)

		require.NoError(t, g.SetDynamicCost(10, 100, 50))
		assert.Equal(t, uint8(100), g.TrafficCost(10))
		assert.Equal(t, uint8(50), g.TerrainCost(10))
		assert.Equal(t, uint32(150), g.DynamicCost(10))

		assert.ErrorIs(t, g.SetDynamicCost(64, 1, 1), grid.ErrOutOfRange)
		assert.ErrorIs(t, g.SetDynamicCost(-1, 1, 1), grid.ErrOutOfRange)
	})

	t.Run("area traffic cost clips to the grid", func(t *testing.T) {
		g, err := grid.New(10, 10)
		require.NoError(t, err)

		updated := g.SetAreaTrafficCost(8, 8, 4, 4, 200)
		assert.Equal(t, int32(4), updated) // only the 2x2 corner is inside

		assert.Equal(t, uint8(200), g.TrafficCost(g.NodeID(8, 8)))
		assert.Equal(t, uint8(200), g.TrafficCost(g.NodeID(9, 9)))
		assert.Equal(t, uint8(0), g.TrafficCost(g.NodeID(7, 8)))
	})

	t.Run("overlay writes bump the generation", func(t *testing.T) {
		g, err := grid.New(8, 8)
		require.NoError(t, err)

		gen := g.Generation()
		require.NoError(t, g.SetDynamicCost(0, 1, 0))
		assert.Greater(t, g.Generation(), gen)

		gen = g.Generation()
		g.SetAreaTrafficCost(0, 0, 2, 2, 9)
		assert.Greater(t, g.Generation(), gen)

		// a fully clipped area write updates nothing
		gen = g.Generation()
		assert.Equal(t, int32(0), g.SetAreaTrafficCost(50, 50, 2, 2, 9))
		assert.Equal(t, gen, g.Generation())
	})

	t.Run("blocked cells", func(t *testing.T) {
		g, err := grid.New(8, 8)
		require.NoError(t, err)

		require.NoError(t, g.SetBlocked(12))
		assert.True(t, g.IsBlocked(12))
		assert.False(t, g.IsBlocked(13))
		assert.Equal(t, []int32{12}, g.BlockedIDs())

		assert.ErrorIs(t, g.SetBlocked(100), grid.ErrOutOfRange)
	})
}
