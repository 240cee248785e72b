package kv

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/grid"
)

func openTestStore(t *testing.T) *GridStore {
	t.Helper()
	db, err := pebble.Open(t.TempDir(), &pebble.Options{})
	require.NoError(t, err)
	store := NewGridStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGridStore(t *testing.T) {
	t.Run("save and load round trip", func(t *testing.T) {
		store := openTestStore(t)

		g, err := grid.New(32, 16)
		require.NoError(t, err)
		require.NoError(t, g.SetBlocked(g.NodeID(3, 3)))
		require.NoError(t, g.SetBlocked(g.NodeID(31, 15)))
		require.NoError(t, g.SetDynamicCost(g.NodeID(5, 2), 0, 120))
		require.NoError(t, g.SetDynamicCost(g.NodeID(0, 15), 0, 7))

		require.NoError(t, store.SaveGrid(g))

		loaded, err := store.LoadGrid()
		require.NoError(t, err)

		assert.Equal(t, g.Width(), loaded.Width())
		assert.Equal(t, g.Height(), loaded.Height())
		assert.True(t, loaded.IsBlocked(loaded.NodeID(3, 3)))
		assert.True(t, loaded.IsBlocked(loaded.NodeID(31, 15)))
		assert.False(t, loaded.IsBlocked(loaded.NodeID(0, 0)))
		assert.Equal(t, uint8(120), loaded.TerrainCost(loaded.NodeID(5, 2)))
		assert.Equal(t, uint8(7), loaded.TerrainCost(loaded.NodeID(0, 15)))
		// traffic overlays are runtime state and never persisted
		assert.Equal(t, uint8(0), loaded.TrafficCost(loaded.NodeID(5, 2)))
	})

	t.Run("load on an empty store reports not found", func(t *testing.T) {
		store := openTestStore(t)
		_, err := store.LoadGrid()
		assert.ErrorIs(t, err, pebble.ErrNotFound)
	})

	t.Run("meta codec round trip", func(t *testing.T) {
		meta := GridMeta{Width: 10, Height: 20, Blocked: []int32{1, 5, 199}}
		encoded, err := EncodeMeta(meta)
		require.NoError(t, err)
		compressed, err := Compress(encoded)
		require.NoError(t, err)
		decompressed, err := Decompress(compressed)
		require.NoError(t, err)
		decoded, err := DecodeMeta(decompressed)
		require.NoError(t, err)
		assert.Equal(t, meta, decoded)
	})
}
