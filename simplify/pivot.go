package simplify

import "github.com/zkarkit/circuitkit/algebra"

// heuristicSwitchLow and heuristicSwitchHigh bound the cluster-size band in
// which the occurrence-minimizing heuristic is used; outside the band (or
// when Options.ForceOldHeuristic is set), the old largest-id heuristic is used
// instead. The band matches the teacher pack's own size-based fallbacks:
// the occurrence heuristic is more expensive per pick (it has to consult
// live occurrence counts) and isn't worth it on tiny clusters, while on
// enormous clusters the old heuristic, which keeps no occurrence counts,
// avoids a pathological slowdown.
const (
	heuristicSwitchLow  = 350
	heuristicSwitchHigh = 1_000_000
)

// useOccurrenceHeuristic decides, for a cluster of size n, whether the
// occurrence-minimizing heuristic applies.
func useOccurrenceHeuristic(n int, forceOld bool) bool {
	if forceOld {
		return false
	}
	return n >= heuristicSwitchLow && n < heuristicSwitchHigh
}

// pivotPicker chooses which signal to eliminate next from a linear form,
// given the set of signals that may never be eliminated (forbidden: public
// inputs/outputs and any signal the caller has pinned).
type pivotPicker interface {
	pick(lf algebra.LinearForm, forbidden map[algebra.SignalID]bool) (algebra.SignalID, bool)
	// noteConsumed/noteProduced update any heuristic-private bookkeeping
	// when a constraint is removed from, or added to, the active worklist.
	noteConsumed(lf algebra.LinearForm)
	noteProduced(lf algebra.LinearForm)
}

// oldHeuristic picks the largest-id eligible signal, the simplest possible
// deterministic rule and the one the original engine used before the
// occurrence-minimizing heuristic was introduced.
type oldHeuristic struct{}

func (oldHeuristic) pick(lf algebra.LinearForm, forbidden map[algebra.SignalID]bool) (algebra.SignalID, bool) {
	var best algebra.SignalID
	found := false
	for s, c := range lf.Terms {
		if c.IsZero() || forbidden[s] {
			continue
		}
		if !found || s > best {
			best = s
			found = true
		}
	}
	return best, found
}

func (oldHeuristic) noteConsumed(algebra.LinearForm) {}
func (oldHeuristic) noteProduced(algebra.LinearForm) {}

// occurrenceHeuristic picks the eligible signal that currently occurs in
// the fewest live constraints in its cluster, breaking ties by largest id.
// A signal occurring in exactly one live constraint is, by construction,
// always the unique minimum, so no separate "appears exactly once" pass is
// needed: the tie-break rule subsumes it.
type occurrenceHeuristic struct {
	occ map[algebra.SignalID]int
}

func newOccurrenceHeuristic(initial []algebra.LinearForm) *occurrenceHeuristic {
	h := &occurrenceHeuristic{occ: map[algebra.SignalID]int{}}
	for _, lf := range initial {
		h.noteProduced(lf)
	}
	return h
}

func (h *occurrenceHeuristic) pick(lf algebra.LinearForm, forbidden map[algebra.SignalID]bool) (algebra.SignalID, bool) {
	var best algebra.SignalID
	bestCount := 0
	found := false
	for s, c := range lf.Terms {
		if c.IsZero() || forbidden[s] {
			continue
		}
		count := h.occ[s]
		if !found || count < bestCount || (count == bestCount && s > best) {
			best, bestCount, found = s, count, true
		}
	}
	return best, found
}

func (h *occurrenceHeuristic) noteConsumed(lf algebra.LinearForm) {
	for s, c := range lf.Terms {
		if c.IsZero() {
			continue
		}
		h.occ[s]--
	}
}

func (h *occurrenceHeuristic) noteProduced(lf algebra.LinearForm) {
	for s, c := range lf.Terms {
		if c.IsZero() {
			continue
		}
		h.occ[s]++
	}
}
