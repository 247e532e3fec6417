package algebra

import (
	"math/big"

	"github.com/zkarkit/circuitkit/bounds"
	"github.com/zkarkit/circuitkit/field"
)

// NormalizeConstraint picks the divisor from a linear constraint's C part
// that minimizes the width of the residual interval once that signal is
// cleared, breaking ties by the smaller absolute modular lift of the
// coefficient. This keeps the modular reductions the SMT emitter has to
// reason about as tight as possible (spec.md section 4.2 / 4.8).
//
// signalBounds supplies the known interval for signals that appear in c.
// Every signal with a nonzero coefficient is a divisor candidate, whether
// or not it has an entry; a signal with no entry adds nothing to the
// residual width estimate (see residualWidth).
func NormalizeConstraint(c Constraint, signalBounds map[SignalID]bounds.Interval) (Substitution, bool) {
	if !c.IsLinear() {
		return Substitution{}, false
	}
	candidates := c.C.SortedSignals()
	if len(candidates) == 0 {
		return Substitution{}, false
	}

	type scored struct {
		sig   SignalID
		width *big.Int
		lift  *big.Int
	}
	var best *scored
	for _, s := range candidates {
		coef := c.C.Terms[s]
		if coef.IsZero() {
			continue
		}
		_, rest, err := ClearSignalUnnormalized(c, s)
		if err != nil {
			continue
		}
		width := residualWidth(rest, signalBounds)
		lift := absLift(coef)
		cand := scored{sig: s, width: width, lift: lift}
		if best == nil || width.Cmp(best.width) < 0 ||
			(width.Cmp(best.width) == 0 && lift.Cmp(best.lift) < 0) {
			c2 := cand
			best = &c2
		}
	}
	if best == nil {
		return Substitution{}, false
	}
	sub, err := ClearSignal(c, best.sig)
	if err != nil {
		return Substitution{}, false
	}
	return sub, true
}

// residualWidth estimates the width of the interval of rest once its
// signals' known bounds are composed; signals with no known bound
// contribute a zero-width (best-effort - a full bound deduction pass is
// the safety package's job, this is only a tie-breaking heuristic).
func residualWidth(rest LinearForm, signalBounds map[SignalID]bounds.Interval) *big.Int {
	acc := bounds.Single(rest.Constant.ToSigned())
	for s, coef := range rest.Terms {
		iv, ok := signalBounds[s]
		if !ok {
			continue
		}
		term := bounds.Scale(iv, coef.ToSigned())
		acc = bounds.Add(acc, term)
	}
	return acc.Width()
}

// absLift returns the absolute value of coef's signed representative, the
// tie-breaker for "smaller absolute modular lift".
func absLift(coef field.Elem) *big.Int {
	s := coef.ToSigned()
	return new(big.Int).Abs(s)
}
