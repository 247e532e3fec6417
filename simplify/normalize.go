package simplify

import (
	"sort"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/field"
)

// normalizeSubs divides every pivot's Rest by its NegCoef in a single
// batched modular inverse (field.MultiInv), instead of one inverse per
// pivot. This is the deferred-normalization step: elimination never divides
// while it runs, only once at the very end across the whole cluster set.
func normalizeSubs(subs []unnormSub) ([]algebra.Substitution, error) {
	if len(subs) == 0 {
		return nil, nil
	}
	coefs := make([]field.Elem, len(subs))
	for i, s := range subs {
		coefs[i] = s.NegCoef
	}
	invs := field.MultiInv(coefs)

	out := make([]algebra.Substitution, 0, len(subs))
	for i, s := range subs {
		to := algebra.ScaleLinear(s.Rest, invs[i])
		sub, err := algebra.NewSubstitution(s.From, to)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

// deoverlap re-orders and folds a substitution set so that no
// substitution's right-hand side still mentions another substitution's
// left-hand signal. Substitutions are processed in ascending signal-id
// order (the canonical order decided for the occurrence heuristic's tie
// break applies here too), repeatedly folding any already-resolved target
// into later substitutions' right-hand sides.
func deoverlap(subs []algebra.Substitution) ([]algebra.Substitution, error) {
	if len(subs) == 0 {
		return nil, nil
	}
	ordered := make([]algebra.Substitution, len(subs))
	copy(ordered, subs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].From < ordered[j].From })

	resolved := map[algebra.SignalID]algebra.LinearForm{}
	out := make([]algebra.Substitution, 0, len(ordered))
	for _, s := range ordered {
		to := s.To.Clone()
		// Fold in any previously resolved signal the naive RHS still
		// mentions, repeating until no further folding is possible. The
		// elimination order guarantees this terminates: a substitution can
		// only reference signals eliminated in earlier clusters or earlier
		// in this same pass, never itself (NewSubstitution already rejects
		// direct self-reference), so each fold strictly shrinks the set of
		// outstanding referenced signals.
		changed := true
		for changed {
			changed = false
			for from, target := range resolved {
				coef, ok := to.Terms[from]
				if !ok || coef.IsZero() {
					continue
				}
				delete(to.Terms, from)
				scaled := algebra.ScaleLinear(target, coef)
				to.Constant = field.Add(to.Constant, scaled.Constant)
				for sig, c := range scaled.Terms {
					to.Terms[sig] = field.Add(to.Terms[sig], c)
				}
				changed = true
			}
		}
		to.Trim()

		final, err := algebra.NewSubstitution(s.From, to)
		if err != nil {
			return nil, err
		}
		resolved[s.From] = to
		out = append(out, final)
	}
	return out, nil
}
