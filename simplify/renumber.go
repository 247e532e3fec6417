package simplify

import (
	"sort"

	"github.com/zkarkit/circuitkit/algebra"
)

// SignalMap renumbers surviving signals to a dense range starting at 1
// (0 stays reserved for algebra.ConstSignal). Pinned signals (see
// NewSignalMap) come first; the rest keep the relative order of their
// original ids, so that e.g. public inputs, which are conventionally
// assigned the smallest ids, keep the smallest ids after renumbering too.
type SignalMap struct {
	oldToNew map[algebra.SignalID]algebra.SignalID
	newToOld map[algebra.SignalID]algebra.SignalID
}

// NewSignalMap builds a dense renumbering over the given set of surviving
// signal ids. pinned signals (if non-nil) are assigned the lowest new ids,
// in their given order, before the remaining signals are numbered in
// ascending original-id order; this lets a caller keep public input/output
// ordering stable across a simplification pass.
func NewSignalMap(surviving map[algebra.SignalID]bool, pinned []algebra.SignalID) *SignalMap {
	m := &SignalMap{oldToNew: map[algebra.SignalID]algebra.SignalID{}, newToOld: map[algebra.SignalID]algebra.SignalID{}}
	next := algebra.SignalID(1)
	seen := map[algebra.SignalID]bool{}

	assign := func(old algebra.SignalID) {
		if old == algebra.ConstSignal || seen[old] {
			return
		}
		seen[old] = true
		m.oldToNew[old] = next
		m.newToOld[next] = old
		next++
	}

	for _, p := range pinned {
		if surviving[p] {
			assign(p)
		}
	}

	rest := make([]algebra.SignalID, 0, len(surviving))
	for s, ok := range surviving {
		if ok {
			rest = append(rest, s)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, s := range rest {
		assign(s)
	}

	return m
}

// Map returns the new id for old, or (0, false) if old was not part of the
// surviving set the map was built from.
func (m *SignalMap) Map(old algebra.SignalID) (algebra.SignalID, bool) {
	if old == algebra.ConstSignal {
		return algebra.ConstSignal, true
	}
	n, ok := m.oldToNew[old]
	return n, ok
}

// Len returns how many non-constant signals the map renumbers.
func (m *SignalMap) Len() int { return len(m.oldToNew) }

// ApplyToLinear renumbers every signal key in l, dropping any signal not
// present in the map (the caller is expected to have already eliminated
// every non-surviving signal via substitution before renumbering).
func (m *SignalMap) ApplyToLinear(l algebra.LinearForm) algebra.LinearForm {
	out := algebra.NewLinearForm(l.Constant, nil)
	for s, c := range l.Terms {
		if c.IsZero() {
			continue
		}
		ns, ok := m.Map(s)
		if !ok {
			continue
		}
		out.Terms[ns] = c
	}
	return out
}

// ApplyToConstraint renumbers every part of c.
func ApplyToConstraint(m *SignalMap, c algebra.Constraint) algebra.Constraint {
	return algebra.Constraint{A: m.ApplyToLinear(c.A), B: m.ApplyToLinear(c.B), C: m.ApplyToLinear(c.C)}
}
