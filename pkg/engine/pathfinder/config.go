package pathfinder

import (
	"errors"
)

const (
	// MaxSupportedNodes upper bound on the node pool (1M nodes).
	MaxSupportedNodes = 1 << 20
	// MaxSupportedPathLength upper bound on the path output buffer.
	MaxSupportedPathLength = 8192

	// StraightCost / DiagonalCost fixed-point edge costs of the
	// 8-connected grid, 14 ~= 10*sqrt(2).
	StraightCost = 10
	DiagonalCost = 14

	DefaultIterationLimit = 10000
	DefaultMaxPathLength  = 1024
	DefaultHeuristicScale = StraightCost
)

var (
	ErrTooManyNodes      = errors.New("grid exceeds the supported node count")
	ErrBadPathLength     = errors.New("max path length outside supported bounds")
	ErrBadIterationLimit = errors.New("iteration limit must be positive")
	ErrBadHeuristicScale = errors.New("heuristic scale must be in 1..StraightCost")
)

// Config sizes the preallocated buffers of a SearchContext and bounds the
// main loop. All values are fixed at construction: nothing here is mutated
// by a running search.
type Config struct {
	// MaxPathLength capacity of the path output buffer.
	MaxPathLength int32
	// IterationLimit hard bound on expand-loop iterations per search,
	// the worst-case latency cap of a real-time tick.
	IterationLimit uint64
	// HeuristicScale per-step multiplier of the heuristic. Values above
	// StraightCost are rejected: an inflated heuristic overestimates the
	// remaining cost and breaks the optimality guarantee.
	HeuristicScale uint32
	// AllowDiagonal enables the 4 diagonal neighbors (8-connected grid).
	AllowDiagonal bool
}

func DefaultConfig() Config {
	return Config{
		MaxPathLength:  DefaultMaxPathLength,
		IterationLimit: DefaultIterationLimit,
		HeuristicScale: DefaultHeuristicScale,
		AllowDiagonal:  true,
	}
}

func (c Config) validate(numNodes int32) error {
	if numNodes <= 0 || numNodes > MaxSupportedNodes {
		return ErrTooManyNodes
	}
	if c.MaxPathLength <= 0 || c.MaxPathLength > MaxSupportedPathLength {
		return ErrBadPathLength
	}
	if c.IterationLimit == 0 {
		return ErrBadIterationLimit
	}
	if c.HeuristicScale == 0 || c.HeuristicScale > StraightCost {
		return ErrBadHeuristicScale
	}
	return nil
}
