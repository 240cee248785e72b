package pathfinder

import (
	"time"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/datastructure"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/util"
)

// Status outcome of a completed search. NoPath and IterationLimitExceeded
// are expected, first-class results the caller must branch on (fall back to
// a direct route, retry next tick, mark the agent stuck); they are not
// errors.
type Status int

const (
	StatusPathFound Status = iota
	StatusNoPath
	StatusIterationLimitExceeded
)

func (s Status) String() string {
	switch s {
	case StatusPathFound:
		return "path_found"
	case StatusNoPath:
		return "no_path"
	case StatusIterationLimitExceeded:
		return "iteration_limit_exceeded"
	default:
		return "unknown"
	}
}

// neighbor offsets of the 8-connected grid, straight moves first.
var neighborOffsets = [8]struct {
	dx, dy   int32
	diagonal bool
}{
	{1, 0, false}, {-1, 0, false}, {0, 1, false}, {0, -1, false},
	{1, 1, true}, {1, -1, true}, {-1, 1, true}, {-1, -1, true},
}

// FindPath runs one synchronous A* search from startID to goalID. When
// useDynamicCost is set, the grid's traffic/terrain overlay bytes are summed
// into every edge cost. On StatusPathFound the path is available through
// PathLength / PathNodes until the next call on this context.
//
// Ties in f-cost break by heap insertion order; the min-heap property is the
// only ordering guarantee.
func (sc *SearchContext) FindPath(startID, goalID int32, useDynamicCost bool) (Status, error) {
	sc.pathLen = 0
	sc.totalCost = 0
	sc.iterations = 0

	if !sc.grid.Contains(startID) || !sc.grid.Contains(goalID) {
		return StatusNoPath, ErrInvalidParam
	}

	started := time.Now()

	// Trivial search: no reset, no expansion.
	if startID == goalID {
		sc.stats.observeSearch(time.Since(started), 0, true)
		return StatusPathFound, nil
	}

	sc.store.resetAll()
	sc.open.Reset()
	sc.closed.Reset()
	sc.goalX, sc.goalY = sc.grid.Coords(goalID)

	startX, startY := sc.grid.Coords(startID)
	h := sc.heur.estimate(startX, startY, sc.goalX, sc.goalY)
	sc.store.gCost[startID] = 0
	sc.store.hCost[startID] = h
	sc.store.fCost[startID] = h
	sc.store.state[startID] = stateOpen
	if err := sc.open.Insert(datastructure.HeapItem{ID: startID, Cost: h}); err != nil {
		return StatusNoPath, err
	}

	status := StatusNoPath
	for {
		if sc.open.Size() == 0 {
			status = StatusNoPath
			break
		}
		sc.iterations++
		if sc.iterations > sc.cfg.IterationLimit {
			status = StatusIterationLimitExceeded
			break
		}

		item, err := sc.open.ExtractMin()
		if err != nil {
			status = StatusNoPath
			break
		}
		current := item.ID

		if current == goalID {
			if err := sc.reconstruct(goalID); err != nil {
				sc.stats.observeSearch(time.Since(started), sc.iterations, false)
				return StatusNoPath, err
			}
			sc.totalCost = sc.store.gCost[goalID]
			status = StatusPathFound
			break
		}

		sc.store.state[current] = stateClosed
		sc.closed.Set(current)

		if err := sc.expand(current, goalID, useDynamicCost); err != nil {
			sc.stats.observeSearch(time.Since(started), sc.iterations, false)
			return StatusNoPath, err
		}
	}

	sc.stats.observeSearch(time.Since(started), sc.iterations, status == StatusPathFound)
	return status, nil
}

// expand relax the neighbors of current: skip out-of-bounds, closed and
// blocked nodes, then insert or decrease-key whichever neighbors improved.
func (sc *SearchContext) expand(current, goalID int32, useDynamicCost bool) error {
	cx, cy := sc.grid.Coords(current)
	currentG := sc.store.gCost[current]

	for _, off := range neighborOffsets {
		if off.diagonal && !sc.cfg.AllowDiagonal {
			continue
		}
		nx, ny := cx+off.dx, cy+off.dy
		if !sc.grid.InBounds(nx, ny) {
			continue
		}
		neighbor := sc.grid.NodeID(nx, ny)
		if sc.closed.Has(neighbor) || sc.grid.IsBlocked(neighbor) {
			continue
		}

		edgeCost := uint32(StraightCost)
		if off.diagonal {
			edgeCost = DiagonalCost
		}
		if useDynamicCost {
			edgeCost += sc.grid.DynamicCost(neighbor)
		}

		tentativeG := currentG + edgeCost
		if tentativeG >= sc.store.gCost[neighbor] {
			continue
		}

		if sc.store.hCost[neighbor] == infCost {
			sc.store.hCost[neighbor] = sc.heur.estimate(nx, ny, sc.goalX, sc.goalY)
		}
		sc.store.gCost[neighbor] = tentativeG
		sc.store.fCost[neighbor] = tentativeG + sc.store.hCost[neighbor]
		sc.store.parent[neighbor] = current

		item := datastructure.HeapItem{ID: neighbor, Cost: sc.store.fCost[neighbor]}
		if sc.open.Contains(neighbor) {
			if err := sc.open.DecreaseKey(item); err != nil {
				return err
			}
		} else {
			if err := sc.open.Insert(item); err != nil {
				return err
			}
			sc.store.state[neighbor] = stateOpen
		}
	}
	return nil
}

// reconstruct walk parent links goal->start into the path buffer, then
// reverse in place so the result reads start->goal. The start node itself is
// not part of the buffer, so a direct neighbor hop has length 1.
func (sc *SearchContext) reconstruct(goalID int32) error {
	n := int32(0)
	current := goalID
	for sc.store.parent[current] != -1 {
		if n == sc.cfg.MaxPathLength {
			sc.pathLen = 0
			return ErrPathTooLong
		}
		sc.path[n] = current
		n++
		current = sc.store.parent[current]
	}
	util.ReverseG(sc.path[:n])
	sc.pathLen = n
	return nil
}

// FindPathCoords coordinate-addressed convenience over FindPath.
func (sc *SearchContext) FindPathCoords(startX, startY, goalX, goalY int32, useDynamicCost bool) (Status, error) {
	if !sc.grid.InBounds(startX, startY) || !sc.grid.InBounds(goalX, goalY) {
		return StatusNoPath, ErrInvalidParam
	}
	return sc.FindPath(sc.grid.NodeID(startX, startY), sc.grid.NodeID(goalX, goalY), useDynamicCost)
}

// PathCoords convert the most recently found path into 2D coordinates,
// appended to dst. Like PathNodes, valid only until the next FindPath.
func (sc *SearchContext) PathCoords(dst [][2]int32) [][2]int32 {
	for _, id := range sc.PathNodes() {
		x, y := sc.grid.Coords(id)
		dst = append(dst, [2]int32{x, y})
	}
	return dst
}
