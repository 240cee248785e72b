// Package grid holds the navigation grid shared by every search context:
// node coordinates, static walkability and the dynamic per-node cost
// overlays written by the traffic subsystem between simulation ticks.
package grid

import (
	"errors"
	"sync/atomic"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/datastructure"
)

const (
	// CostMax is the upper bound of a single overlay byte.
	CostMax = 255

	// MaxWidth / MaxHeight keep node ids inside int32 and the node pool
	// inside the supported 1M-node bound.
	MaxWidth  = 1024
	MaxHeight = 1024
)

var (
	ErrOutOfRange  = errors.New("node id out of range")
	ErrInvalidSize = errors.New("invalid grid dimensions")
)

// Grid is read-mostly: everything except the overlay bytes is immutable
// after construction. Overlay writes follow a single-writer convention (the
// traffic subsystem mutates between ticks, never during an in-flight search)
// and are single-byte stores, so concurrent readers never observe a torn
// value.
type Grid struct {
	width   int32
	height  int32
	blocked *datastructure.BitSet
	traffic []uint8
	terrain []uint8

	// generation increments on every overlay write; path caches key on it
	// to drop entries computed against stale costs.
	generation atomic.Uint64
}

func New(width, height int32) (*Grid, error) {
	if width <= 0 || height <= 0 || width > MaxWidth || height > MaxHeight {
		return nil, ErrInvalidSize
	}
	n := width * height
	return &Grid{
		width:   width,
		height:  height,
		blocked: datastructure.NewBitSet(n),
		traffic: make([]uint8, n),
		terrain: make([]uint8, n),
	}, nil
}

func (g *Grid) Width() int32  { return g.width }
func (g *Grid) Height() int32 { return g.height }

func (g *Grid) NumNodes() int32 {
	return g.width * g.height
}

// NodeID converts 2D coordinates to a node id, row-major.
func (g *Grid) NodeID(x, y int32) int32 {
	return y*g.width + x
}

// Coords converts a node id back to 2D coordinates.
func (g *Grid) Coords(id int32) (x, y int32) {
	return id % g.width, id / g.width
}

func (g *Grid) InBounds(x, y int32) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) Contains(id int32) bool {
	return id >= 0 && id < g.NumNodes()
}

func (g *Grid) SetBlocked(id int32) error {
	if !g.Contains(id) {
		return ErrOutOfRange
	}
	g.blocked.Set(id)
	g.generation.Add(1)
	return nil
}

func (g *Grid) IsBlocked(id int32) bool {
	return g.blocked.Has(id)
}

// SetDynamicCost bounds-checked write of the overlay bytes of one node.
// No effect on a search already in flight; callers mutate between searches.
func (g *Grid) SetDynamicCost(id int32, trafficCost, terrainCost uint8) error {
	if !g.Contains(id) {
		return ErrOutOfRange
	}
	g.traffic[id] = trafficCost
	g.terrain[id] = terrainCost
	g.generation.Add(1)
	return nil
}

// SetAreaTrafficCost writes the traffic overlay of every node in the given
// rectangle, clipped to the grid. Returns the number of nodes updated.
func (g *Grid) SetAreaTrafficCost(x, y, width, height int32, trafficCost uint8) int32 {
	var updated int32
	for cy := y; cy < y+height; cy++ {
		for cx := x; cx < x+width; cx++ {
			if !g.InBounds(cx, cy) {
				continue
			}
			g.traffic[g.NodeID(cx, cy)] = trafficCost
			updated++
		}
	}
	if updated > 0 {
		g.generation.Add(1)
	}
	return updated
}

func (g *Grid) TrafficCost(id int32) uint8 { return g.traffic[id] }
func (g *Grid) TerrainCost(id int32) uint8 { return g.terrain[id] }

// DynamicCost is the summed overlay read by neighbor expansion in
// dynamic-cost mode.
func (g *Grid) DynamicCost(id int32) uint32 {
	return uint32(g.traffic[id]) + uint32(g.terrain[id])
}

func (g *Grid) Generation() uint64 {
	return g.generation.Load()
}

// TerrainSnapshot copies the terrain overlay, for persistence.
func (g *Grid) TerrainSnapshot() []uint8 {
	out := make([]uint8, len(g.terrain))
	copy(out, g.terrain)
	return out
}

// BlockedIDs lists every blocked node id, for persistence.
func (g *Grid) BlockedIDs() []int32 {
	out := []int32{}
	for id := int32(0); id < g.NumNodes(); id++ {
		if g.blocked.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
