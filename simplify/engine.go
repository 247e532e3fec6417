package simplify

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/field"
)

// maxPlonkRHSTerms is the most non-constant terms a PLONK gate can place on
// a substitution's right-hand side (spec.md section 4.4's only_plonk mode).
const maxPlonkRHSTerms = 2

// unnormSub records an eliminated signal before the batched modular
// inverse: the original relation is -NegCoef*From + Rest = 0, i.e.
// From = Rest / NegCoef once divided.
type unnormSub struct {
	From    algebra.SignalID
	NegCoef field.Elem
	Rest    algebra.LinearForm
}

// Options configures a Simplify run.
type Options struct {
	// Forbidden signals are never chosen as a pivot (public inputs and
	// outputs, or anything else the caller has pinned).
	Forbidden map[algebra.SignalID]bool
	// ForceOldHeuristic disables the occurrence-minimizing heuristic
	// regardless of cluster size.
	ForceOldHeuristic bool
	// OnlyPlonk restricts eligible pivots to those valid for PLONK: a
	// signal may only be eliminated if doing so leaves at most two
	// non-constant terms on the substitution's right-hand side. A
	// constraint with no PLONK-eligible pivot is kept as surviving rather
	// than reduced, per spec.md section 4.4 step 3.
	OnlyPlonk bool
}

// Result is the outcome of simplifying one batch of linear constraints.
type Result struct {
	// Surviving holds constraints that could not be reduced to a
	// substitution (every signal forbidden, or too wide under OnlyPlonk).
	// Constraints that are constant after trimming are dropped, not kept.
	Surviving []algebra.LinearForm
	// Substitutions is the final, normalized, de-overlapped elimination
	// set, safe to apply to the rest of the circuit in any order.
	Substitutions []algebra.Substitution
}

// Simplify runs the full linear-simplification pipeline over cs: clustering,
// per-cluster elimination (in parallel across clusters), batched
// normalization of every pivot inverse, and de-overlap of the resulting
// substitution chain.
func Simplify(cs []algebra.LinearForm, opts Options) (Result, error) {
	if opts.Forbidden == nil {
		opts.Forbidden = map[algebra.SignalID]bool{}
	}
	clusters := clusterIndex(cs)

	perCluster := make([][]algebra.LinearForm, len(clusters))
	perSurvive := make([][]algebra.LinearForm, len(clusters))
	perSubs := make([][]unnormSub, len(clusters))

	g, _ := errgroup.WithContext(context.Background())
	for ci, idxs := range clusters {
		ci, idxs := ci, idxs
		members := make([]algebra.LinearForm, len(idxs))
		for k, idx := range idxs {
			members[k] = cs[idx]
		}
		perCluster[ci] = members
		g.Go(func() error {
			surviving, subs := eliminateCluster(members, opts.Forbidden, opts.ForceOldHeuristic, opts.OnlyPlonk)
			perSurvive[ci] = surviving
			perSubs[ci] = subs
			return nil
		})
	}
	_ = g.Wait() // eliminateCluster never returns an error

	var surviving []algebra.LinearForm
	var allSubs []unnormSub
	for ci := range clusters {
		surviving = append(surviving, perSurvive[ci]...)
		allSubs = append(allSubs, perSubs[ci]...)
	}

	normalized, err := normalizeSubs(allSubs)
	if err != nil {
		return Result{}, err
	}

	deoverlapped, err := deoverlap(normalized)
	if err != nil {
		return Result{}, err
	}

	return Result{Surviving: surviving, Substitutions: deoverlapped}, nil
}

// eliminateCluster runs Gaussian elimination with deferred pivots over one
// cluster's constraints. When two constraints would eliminate the same
// signal, they are combined (the pivot cancels) into a new constraint that
// re-enters the worklist to have a different signal eliminated from it,
// matching the spec's description of resolving duplicate pivots.
func eliminateCluster(cs []algebra.LinearForm, forbidden map[algebra.SignalID]bool, forceOld, onlyPlonk bool) ([]algebra.LinearForm, []unnormSub) {
	var picker pivotPicker
	if useOccurrenceHeuristic(len(cs), forceOld) {
		picker = newOccurrenceHeuristic(cs)
	} else {
		picker = oldHeuristic{}
	}

	subs := map[algebra.SignalID]unnormSub{}
	worklist := make([]algebra.LinearForm, len(cs))
	copy(worklist, cs)

	var surviving []algebra.LinearForm

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		cur = cur.Clone().Trim()
		if cur.IsConstant() {
			// Either identically zero (a tautology, drop silently) or a
			// nonzero pure constant (an unsatisfiable circuit); either way
			// there is no signal left to eliminate, so it doesn't affect
			// simplification and is dropped the same as the teacher's own
			// dead-constraint pruning would.
			continue
		}

		if onlyPlonk && len(cur.Terms) > maxPlonkRHSTerms+1 {
			// Eliminating any one term here would still leave more than two
			// non-constant terms on the substitution's right-hand side,
			// which PLONK's gate shape can't represent; keep the constraint
			// as surviving rather than producing an ineligible substitution.
			surviving = append(surviving, cur)
			continue
		}

		pivot, ok := picker.pick(cur, forbidden)
		if !ok {
			surviving = append(surviving, cur)
			continue
		}

		negCoef := field.PrefixSub(cur.Terms[pivot])
		rest := cur.Clone()
		delete(rest.Terms, pivot)
		rest.Trim()

		if existing, has := subs[pivot]; has {
			picker.noteConsumed(cur)
			// existing: -existing.NegCoef*pivot + existing.Rest = 0
			// cur:     -negCoef*pivot + rest = 0 i.e. negCoef*pivot = rest... use
			// the raw coefficients directly: coef1*pivot + rest1 = 0 and
			// coef2*pivot + rest2 = 0 combine to coef2*rest1 - coef1*rest2 = 0.
			coef1 := field.PrefixSub(existing.NegCoef)
			coef2 := field.PrefixSub(negCoef)
			combined := algebra.SubLinear(
				algebra.ScaleLinear(existing.Rest, coef2),
				algebra.ScaleLinear(rest, coef1),
			)
			picker.noteProduced(combined)
			worklist = append([]algebra.LinearForm{combined}, worklist...)
			continue
		}

		subs[pivot] = unnormSub{From: pivot, NegCoef: negCoef, Rest: rest}
		picker.noteConsumed(cur)
	}

	out := make([]unnormSub, 0, len(subs))
	for _, s := range subs {
		out = append(out, s)
	}
	return surviving, out
}
