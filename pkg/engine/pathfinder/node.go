package pathfinder

import (
	"math"
)

// infCost sentinel for an unreached node.
const infCost = math.MaxUint32

type nodeState uint8

const (
	stateUnvisited nodeState = iota
	stateOpen
	stateClosed
)

// nodeStore per-context search state of every node, structure-of-arrays so
// resetAll is four contiguous memory fills. Coordinates, walkability and the
// overlay bytes live on the shared grid, not here: this store holds only
// what a single search mutates. Allocated once, reset per search, never
// freed.
type nodeStore struct {
	gCost  []uint32
	hCost  []uint32
	fCost  []uint32
	parent []int32
	state  []nodeState
}

func newNodeStore(numNodes int32) *nodeStore {
	return &nodeStore{
		gCost:  make([]uint32, numNodes),
		hCost:  make([]uint32, numNodes),
		fCost:  make([]uint32, numNodes),
		parent: make([]int32, numNodes),
		state:  make([]nodeState, numNodes),
	}
}

// resetAll O(n) bulk reset: costs to the infinite sentinel, parents to none,
// states to unvisited. Plain range fills so the compiler can turn each loop
// into a memory fill.
func (s *nodeStore) resetAll() {
	for i := range s.gCost {
		s.gCost[i] = infCost
	}
	for i := range s.hCost {
		s.hCost[i] = infCost
	}
	for i := range s.fCost {
		s.fCost[i] = infCost
	}
	for i := range s.parent {
		s.parent[i] = -1
	}
	for i := range s.state {
		s.state[i] = stateUnvisited
	}
}
