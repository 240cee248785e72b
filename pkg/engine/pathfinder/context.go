// Package pathfinder implements the shortest-path search engine of the
// simulation: A* over the 8-connected navigation grid with fixed-point edge
// costs, preallocated per-context buffers and a hard iteration budget.
package pathfinder

import (
	"errors"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/datastructure"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/grid"
)

var (
	// ErrInvalidParam caller programming error: start or goal outside the
	// graph. Reported distinctly from the NoPath / IterationLimitExceeded
	// search outcomes, never silently clamped.
	ErrInvalidParam = errors.New("start or goal node outside the graph")
	// ErrPathTooLong the reconstructed path does not fit the output buffer.
	ErrPathTooLong = errors.New("path exceeds the configured max path length")
)

// SearchContext owns all mutable state of one search: the node store, the
// open-set heap, the closed-set bitfield and the path output buffer. Every
// buffer is allocated once here and reused across searches; a search
// allocates nothing. One context runs one search at a time; concurrent
// callers go through a Pool of independent contexts sharing the read-mostly
// grid.
type SearchContext struct {
	grid *grid.Grid
	cfg  Config
	heur *heuristic

	store  *nodeStore
	open   *datastructure.MinHeap
	closed *datastructure.BitSet

	path    []int32
	pathLen int32

	goalX, goalY int32
	iterations   uint64
	totalCost    uint32

	stats *Statistics
}

// NewSearchContext allocates every pool the context will ever use. Fails
// without allocating when the grid or the config is outside the supported
// bounds.
func NewSearchContext(g *grid.Grid, cfg Config, stats *Statistics) (*SearchContext, error) {
	if err := cfg.validate(g.NumNodes()); err != nil {
		return nil, err
	}
	if stats == nil {
		stats = NewStatistics()
	}
	n := g.NumNodes()
	return &SearchContext{
		grid:   g,
		cfg:    cfg,
		heur:   newHeuristic(cfg.HeuristicScale, cfg.AllowDiagonal),
		store:  newNodeStore(n),
		open:   datastructure.NewMinHeap(n, n),
		closed: datastructure.NewBitSet(n),
		path:   make([]int32, cfg.MaxPathLength),
		stats:  stats,
	}, nil
}

// PathLength number of nodes in the most recently found path, start
// excluded. 0 for the trivial start == goal search.
func (sc *SearchContext) PathLength() int32 {
	return sc.pathLen
}

// PathNodes the most recently found path, start excluded, read start->goal.
// The slice aliases the context's buffer: valid only until the next FindPath
// on this context.
func (sc *SearchContext) PathNodes() []int32 {
	return sc.path[:sc.pathLen]
}

// TotalCost accumulated edge cost of the most recently found path.
func (sc *SearchContext) TotalCost() uint32 {
	return sc.totalCost
}

// Iterations expand-loop iterations of the most recent search.
func (sc *SearchContext) Iterations() uint64 {
	return sc.iterations
}

// Grid the shared navigation grid this context searches.
func (sc *SearchContext) Grid() *grid.Grid {
	return sc.grid
}

// Statistics the counters this context publishes to.
func (sc *SearchContext) Statistics() *Statistics {
	return sc.stats
}
