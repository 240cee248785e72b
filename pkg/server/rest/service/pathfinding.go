package service

import (
	"context"
	"sync"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/engine/pathfinder"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/grid"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/server"
)

// SearchPool what the service needs from the engine's context pool.
type SearchPool interface {
	Search(req pathfinder.PathRequest) pathfinder.PathResult
	BatchSearch(requests []pathfinder.PathRequest) []pathfinder.PathResult
	Statistics() *pathfinder.Statistics
}

type PathfindingService struct {
	grid  *grid.Grid
	pool  SearchPool
	cache *pathCache
}

func NewPathfindingService(g *grid.Grid, pool SearchPool) *PathfindingService {
	return &PathfindingService{
		grid:  g,
		pool:  pool,
		cache: newPathCache(defaultCacheCapacity),
	}
}

// ShortestPath one query between two grid coordinates. NoPath and
// IterationLimitExceeded come back as results, not errors; only invalid
// coordinates are an error.
func (uc *PathfindingService) ShortestPath(ctx context.Context, startX, startY, goalX, goalY int32, useDynamicCost bool) (pathfinder.PathResult, error) {
	if !uc.grid.InBounds(startX, startY) || !uc.grid.InBounds(goalX, goalY) {
		return pathfinder.PathResult{}, server.WrapErrorf(pathfinder.ErrInvalidParam, server.ErrBadParamInput,
			"coordinates outside the %dx%d navigation grid", uc.grid.Width(), uc.grid.Height())
	}

	req := pathfinder.PathRequest{
		StartID:        uc.grid.NodeID(startX, startY),
		GoalID:         uc.grid.NodeID(goalX, goalY),
		UseDynamicCost: useDynamicCost,
	}

	stats := uc.pool.Statistics()
	generation := uc.grid.Generation()
	if res, ok := uc.cache.get(req, generation); ok {
		stats.RecordCacheHit()
		return res, nil
	}
	stats.RecordCacheMiss()

	res := uc.pool.Search(req)
	if res.Err != nil {
		return pathfinder.PathResult{}, server.WrapErrorf(res.Err, server.ErrInternalServerError, "pathfinding failed")
	}
	if res.Status != pathfinder.StatusIterationLimitExceeded {
		uc.cache.put(req, generation, res)
	}
	return res, nil
}

// BatchShortestPath many queries fanned across the context pool. Requests
// with out-of-range ids come back individually failed, the batch itself
// never errors.
func (uc *PathfindingService) BatchShortestPath(ctx context.Context, requests []pathfinder.PathRequest) []pathfinder.PathResult {
	valid := make([]pathfinder.PathRequest, 0, len(requests))
	invalid := make(map[int]struct{})
	for i, req := range requests {
		if !uc.grid.Contains(req.StartID) || !uc.grid.Contains(req.GoalID) {
			invalid[i] = struct{}{}
			continue
		}
		valid = append(valid, req)
	}

	searched := uc.pool.BatchSearch(valid)

	results := make([]pathfinder.PathResult, len(requests))
	next := 0
	for i := range requests {
		if _, bad := invalid[i]; bad {
			results[i] = pathfinder.PathResult{Status: pathfinder.StatusNoPath, Err: pathfinder.ErrInvalidParam}
			continue
		}
		results[i] = searched[next]
		next++
	}
	return results
}

// SetDynamicCost overlay write for one node, between searches.
func (uc *PathfindingService) SetDynamicCost(ctx context.Context, nodeID int32, trafficCost, terrainCost uint8) error {
	if err := uc.grid.SetDynamicCost(nodeID, trafficCost, terrainCost); err != nil {
		return server.WrapErrorf(err, server.ErrBadParamInput, "node id %d outside the navigation grid", nodeID)
	}
	return nil
}

// SetAreaTrafficCost overlay write for a rectangle of nodes; returns the
// number of nodes updated (clipped to the grid).
func (uc *PathfindingService) SetAreaTrafficCost(ctx context.Context, x, y, width, height int32, trafficCost uint8) (int32, error) {
	if width <= 0 || height <= 0 {
		return 0, server.WrapErrorf(nil, server.ErrBadParamInput, "area dimensions must be positive")
	}
	return uc.grid.SetAreaTrafficCost(x, y, width, height, trafficCost), nil
}

func (uc *PathfindingService) Statistics(ctx context.Context) pathfinder.StatisticsSnapshot {
	return uc.pool.Statistics().Snapshot()
}

func (uc *PathfindingService) Coords(id int32) (int32, int32) {
	return uc.grid.Coords(id)
}

const defaultCacheCapacity = 256

// pathCache fixed-capacity result cache keyed by (start, goal, dynamic
// flag). Entries carry the overlay generation they were computed against, so
// any overlay write invalidates them implicitly.
type pathCache struct {
	mu       sync.Mutex
	entries  map[pathfinder.PathRequest]cacheEntry
	capacity int
}

type cacheEntry struct {
	generation uint64
	res        pathfinder.PathResult
}

func newPathCache(capacity int) *pathCache {
	return &pathCache{
		entries:  make(map[pathfinder.PathRequest]cacheEntry, capacity),
		capacity: capacity,
	}
}

func (c *pathCache) get(key pathfinder.PathRequest, generation uint64) (pathfinder.PathResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || entry.generation != generation {
		return pathfinder.PathResult{}, false
	}
	return entry.res, true
}

func (c *pathCache) put(key pathfinder.PathRequest, generation uint64, res pathfinder.PathResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.capacity {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = cacheEntry{generation: generation, res: res}
}
