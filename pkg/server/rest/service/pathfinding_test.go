package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/engine/pathfinder"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/grid"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/server"
)

func newTestService(t *testing.T, w, h int32) (*PathfindingService, *grid.Grid) {
	t.Helper()
	g, err := grid.New(w, h)
	require.NoError(t, err)
	pool, err := pathfinder.NewPool(g, pathfinder.DefaultConfig(), 2)
	require.NoError(t, err)
	return NewPathfindingService(g, pool), g
}

func TestShortestPath(t *testing.T) {
	t.Run("returns the path result", func(t *testing.T) {
		svc, _ := newTestService(t, 32, 32)

		res, err := svc.ShortestPath(context.Background(), 0, 0, 10, 0, false)
		require.NoError(t, err)
		assert.Equal(t, pathfinder.StatusPathFound, res.Status)
		assert.Equal(t, uint32(100), res.TotalCost)
		assert.Len(t, res.Nodes, 10)
	})

	t.Run("out of range coordinates map to a bad param error", func(t *testing.T) {
		svc, _ := newTestService(t, 8, 8)

		_, err := svc.ShortestPath(context.Background(), 0, 0, 8, 0, false)
		require.Error(t, err)
		var serr *server.Error
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, server.ErrBadParamInput, serr.Code())
		assert.ErrorIs(t, err, pathfinder.ErrInvalidParam)
	})

	t.Run("repeat query hits the cache", func(t *testing.T) {
		svc, _ := newTestService(t, 32, 32)

		_, err := svc.ShortestPath(context.Background(), 0, 0, 5, 5, false)
		require.NoError(t, err)
		res, err := svc.ShortestPath(context.Background(), 0, 0, 5, 5, false)
		require.NoError(t, err)
		assert.Equal(t, pathfinder.StatusPathFound, res.Status)

		snap := svc.Statistics(context.Background())
		assert.Equal(t, uint64(1), snap.CacheHits)
		assert.Equal(t, uint64(1), snap.CacheMisses)
		assert.Equal(t, uint64(1), snap.TotalSearches)
	})

	t.Run("overlay writes invalidate cached results", func(t *testing.T) {
		svc, g := newTestService(t, 32, 32)

		res, err := svc.ShortestPath(context.Background(), 0, 0, 10, 0, true)
		require.NoError(t, err)
		staticCost := res.TotalCost

		require.NoError(t, svc.SetDynamicCost(context.Background(), g.NodeID(5, 0), 255, 0))

		res, err = svc.ShortestPath(context.Background(), 0, 0, 10, 0, true)
		require.NoError(t, err)
		assert.Greater(t, res.TotalCost, staticCost, "stale cached result served after an overlay write")

		snap := svc.Statistics(context.Background())
		assert.Equal(t, uint64(0), snap.CacheHits)
		assert.Equal(t, uint64(2), snap.CacheMisses)
	})
}

func TestBatchShortestPath(t *testing.T) {
	t.Run("invalid requests fail individually", func(t *testing.T) {
		svc, g := newTestService(t, 16, 16)

		requests := []pathfinder.PathRequest{
			{StartID: g.NodeID(0, 0), GoalID: g.NodeID(5, 0)},
			{StartID: -1, GoalID: g.NodeID(5, 0)},
			{StartID: g.NodeID(1, 1), GoalID: g.NumNodes()},
			{StartID: g.NodeID(0, 0), GoalID: g.NodeID(0, 5)},
		}

		results := svc.BatchShortestPath(context.Background(), requests)
		require.Len(t, results, 4)

		assert.Equal(t, pathfinder.StatusPathFound, results[0].Status)
		assert.Equal(t, uint32(50), results[0].TotalCost)
		assert.ErrorIs(t, results[1].Err, pathfinder.ErrInvalidParam)
		assert.ErrorIs(t, results[2].Err, pathfinder.ErrInvalidParam)
		assert.Equal(t, pathfinder.StatusPathFound, results[3].Status)
		assert.Equal(t, uint32(50), results[3].TotalCost)
	})
}

func TestCostWrites(t *testing.T) {
	t.Run("node overlay write", func(t *testing.T) {
		svc, g := newTestService(t, 8, 8)

		require.NoError(t, svc.SetDynamicCost(context.Background(), 10, 40, 20))
		assert.Equal(t, uint32(60), g.DynamicCost(10))

		err := svc.SetDynamicCost(context.Background(), 64, 1, 1)
		var serr *server.Error
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, server.ErrBadParamInput, serr.Code())
	})

	t.Run("area overlay write rejects empty rectangles", func(t *testing.T) {
		svc, g := newTestService(t, 8, 8)

		updated, err := svc.SetAreaTrafficCost(context.Background(), 1, 1, 2, 2, 30)
		require.NoError(t, err)
		assert.Equal(t, int32(4), updated)
		assert.Equal(t, uint8(30), g.TrafficCost(g.NodeID(2, 2)))

		_, err = svc.SetAreaTrafficCost(context.Background(), 1, 1, 0, 2, 30)
		var serr *server.Error
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, server.ErrBadParamInput, serr.Code())
	})
}
