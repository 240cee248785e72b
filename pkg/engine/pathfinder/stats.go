package pathfinder

import (
	"sync/atomic"
	"time"
)

// Statistics monotonically increasing performance counters, shared by every
// context of a pool. All fields are atomics so concurrent searches can
// publish without a lock; readers only ever see a point-in-time snapshot.
type Statistics struct {
	totalSearches      atomic.Uint64
	successfulSearches atomic.Uint64
	totalSearchNanos   atomic.Uint64
	maxIterations      atomic.Uint64
	cacheHits          atomic.Uint64
	cacheMisses        atomic.Uint64
}

// StatisticsSnapshot read-only view handed to callers.
type StatisticsSnapshot struct {
	TotalSearches      uint64 `json:"total_searches"`
	SuccessfulSearches uint64 `json:"successful_searches"`
	TotalCycles        uint64 `json:"total_cycles"`
	MaxIterations      uint64 `json:"max_iterations"`
	CacheHits          uint64 `json:"cache_hits"`
	CacheMisses        uint64 `json:"cache_misses"`
}

func NewStatistics() *Statistics {
	return &Statistics{}
}

func (s *Statistics) observeSearch(elapsed time.Duration, iterations uint64, found bool) {
	s.totalSearches.Add(1)
	if found {
		s.successfulSearches.Add(1)
	}
	s.totalSearchNanos.Add(uint64(elapsed.Nanoseconds()))

	for {
		cur := s.maxIterations.Load()
		if iterations <= cur || s.maxIterations.CompareAndSwap(cur, iterations) {
			break
		}
	}
}

// RecordCacheHit / RecordCacheMiss are fed by the service-level path cache.
func (s *Statistics) RecordCacheHit()  { s.cacheHits.Add(1) }
func (s *Statistics) RecordCacheMiss() { s.cacheMisses.Add(1) }

func (s *Statistics) Snapshot() StatisticsSnapshot {
	return StatisticsSnapshot{
		TotalSearches:      s.totalSearches.Load(),
		SuccessfulSearches: s.successfulSearches.Load(),
		TotalCycles:        s.totalSearchNanos.Load(),
		MaxIterations:      s.maxIterations.Load(),
		CacheHits:          s.cacheHits.Load(),
		CacheMisses:        s.cacheMisses.Load(),
	}
}
