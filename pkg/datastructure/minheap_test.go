package datastructure

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkHeapInvariant every non-root slot's parent cost <= the slot's cost,
// and the pos back-pointers agree with the slots.
func checkHeapInvariant(t *testing.T, h *MinHeap) {
	t.Helper()
	for i := 1; i < len(h.heap); i++ {
		parent := (i - 1) / 2
		assert.LessOrEqual(t, h.heap[parent].Cost, h.heap[i].Cost,
			"slot %d violates the min-heap property", i)
	}
	for i, item := range h.heap {
		assert.Equal(t, int32(i), h.pos[item.ID])
	}
}

func TestMinHeap(t *testing.T) {
	t.Run("extract order is non-decreasing", func(t *testing.T) {
		h := NewMinHeap(64, 64)
		rng := rand.New(rand.NewSource(1))
		for id := int32(0); id < 64; id++ {
			require.NoError(t, h.Insert(HeapItem{ID: id, Cost: uint32(rng.Intn(1000))}))
		}
		checkHeapInvariant(t, h)

		prev := uint32(0)
		for h.Size() > 0 {
			item, err := h.ExtractMin()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, item.Cost, prev)
			prev = item.Cost
			checkHeapInvariant(t, h)
		}
	})

	t.Run("invariant holds under random insert/extract/decrease", func(t *testing.T) {
		const maxID = 256
		h := NewMinHeap(maxID, maxID)
		rng := rand.New(rand.NewSource(42))
		cost := map[int32]uint32{}

		for step := 0; step < 2000; step++ {
			id := int32(rng.Intn(maxID))
			switch rng.Intn(3) {
			case 0:
				if !h.Contains(id) && h.Size() < maxID {
					c := uint32(rng.Intn(10000)) + 1
					require.NoError(t, h.Insert(HeapItem{ID: id, Cost: c}))
					cost[id] = c
				}
			case 1:
				if h.Contains(id) && cost[id] > 0 {
					c := cost[id] - uint32(rng.Intn(int(cost[id])))
					require.NoError(t, h.DecreaseKey(HeapItem{ID: id, Cost: c}))
					cost[id] = c
				}
			case 2:
				if h.Size() > 0 {
					item, err := h.ExtractMin()
					require.NoError(t, err)
					delete(cost, item.ID)
					assert.False(t, h.Contains(item.ID))
				}
			}
			checkHeapInvariant(t, h)
		}
	})

	t.Run("decrease key moves item toward the root", func(t *testing.T) {
		h := NewMinHeap(8, 8)
		for id := int32(0); id < 8; id++ {
			require.NoError(t, h.Insert(HeapItem{ID: id, Cost: uint32(100 + id)}))
		}
		require.NoError(t, h.DecreaseKey(HeapItem{ID: 7, Cost: 1}))
		checkHeapInvariant(t, h)

		min, err := h.GetMin()
		require.NoError(t, err)
		assert.Equal(t, int32(7), min.ID)
	})

	t.Run("decrease key rejects items not in the heap", func(t *testing.T) {
		h := NewMinHeap(4, 4)
		require.NoError(t, h.Insert(HeapItem{ID: 0, Cost: 10}))
		assert.ErrorIs(t, h.DecreaseKey(HeapItem{ID: 3, Cost: 1}), ErrNotInHeap)
	})

	t.Run("insert fails closed at capacity", func(t *testing.T) {
		h := NewMinHeap(2, 8)
		require.NoError(t, h.Insert(HeapItem{ID: 0, Cost: 3}))
		require.NoError(t, h.Insert(HeapItem{ID: 1, Cost: 2}))

		err := h.Insert(HeapItem{ID: 2, Cost: 1})
		assert.ErrorIs(t, err, ErrHeapFull)
		assert.Equal(t, 2, h.Size())
		checkHeapInvariant(t, h)

		// the failed insert left the heap usable
		min, err := h.ExtractMin()
		require.NoError(t, err)
		assert.Equal(t, int32(1), min.ID)
	})

	t.Run("extract on empty heap", func(t *testing.T) {
		h := NewMinHeap(4, 4)
		_, err := h.ExtractMin()
		assert.ErrorIs(t, err, ErrHeapEmpty)
	})

	t.Run("reset clears membership of leftover items", func(t *testing.T) {
		h := NewMinHeap(8, 8)
		for id := int32(0); id < 5; id++ {
			require.NoError(t, h.Insert(HeapItem{ID: id, Cost: uint32(id)}))
		}
		h.Reset()
		assert.Equal(t, 0, h.Size())
		for id := int32(0); id < 8; id++ {
			assert.False(t, h.Contains(id))
		}
	})
}

func TestBitSet(t *testing.T) {
	t.Run("set and test single bits", func(t *testing.T) {
		b := NewBitSet(100)
		assert.False(t, b.Has(0))
		b.Set(0)
		b.Set(7)
		b.Set(8)
		b.Set(99)
		assert.True(t, b.Has(0))
		assert.True(t, b.Has(7))
		assert.True(t, b.Has(8))
		assert.True(t, b.Has(99))
		assert.False(t, b.Has(1))
		assert.False(t, b.Has(98))
	})

	t.Run("set is idempotent", func(t *testing.T) {
		b := NewBitSet(16)
		b.Set(5)
		b.Set(5)
		assert.True(t, b.Has(5))
		assert.False(t, b.Has(4))
		assert.False(t, b.Has(6))
	})

	t.Run("reset clears every bit", func(t *testing.T) {
		b := NewBitSet(64)
		for i := int32(0); i < 64; i++ {
			b.Set(i)
		}
		b.Reset()
		for i := int32(0); i < 64; i++ {
			assert.False(t, b.Has(i))
		}
	})
}
