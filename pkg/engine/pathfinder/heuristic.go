package pathfinder

// heuristic integer-only octile distance estimate against the cached goal.
//
// For 8-connected movement the active estimate is
//
//	h = scale*(max-min) + diagScale*min   over |dx|, |dy|
//
// with diagScale = scale*DiagonalCost/StraightCost (14 at the default scale),
// which never overestimates the true remaining cost under 10/14 edge costs.
// Scaled Manhattan (scale*(|dx|+|dy|)) overestimates diagonal shortcuts and
// would void the optimality guarantee, so it is only used when diagonal
// movement is off, where it is exact-or-under for 4-connected moves.
//
// The per-axis products for deltas < 256 come out of two small precomputed
// tables, keeping the hot path free of multiplies for the common case.
type heuristic struct {
	scale     uint32
	diagScale uint32
	diagonal  bool

	straightTab [256]uint32
	diagTab     [256]uint32
}

func newHeuristic(scale uint32, diagonal bool) *heuristic {
	h := &heuristic{
		scale:     scale,
		diagScale: scale * DiagonalCost / StraightCost,
		diagonal:  diagonal,
	}
	for i := uint32(0); i < 256; i++ {
		h.straightTab[i] = i * h.scale
		h.diagTab[i] = i * h.diagScale
	}
	return h
}

func absDelta(a, b int32) uint32 {
	if a > b {
		return uint32(a - b)
	}
	return uint32(b - a)
}

// estimate admissible distance from (x, y) to (goalX, goalY).
func (h *heuristic) estimate(x, y, goalX, goalY int32) uint32 {
	dx := absDelta(x, goalX)
	dy := absDelta(y, goalY)

	if !h.diagonal {
		return h.straight(dx + dy)
	}

	min, max := dx, dy
	if min > max {
		min, max = max, min
	}
	return h.straight(max-min) + h.diag(min)
}

func (h *heuristic) straight(d uint32) uint32 {
	if d < 256 {
		return h.straightTab[d]
	}
	return d * h.scale
}

func (h *heuristic) diag(d uint32) uint32 {
	if d < 256 {
		return h.diagTab[d]
	}
	return d * h.diagScale
}
