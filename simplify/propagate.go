package simplify

import (
	"fmt"
	"sort"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
)

// maxPropagationRounds bounds the re-queueing loop below: each round can
// only turn a previously non-linear constraint linear by substitution, and
// a constraint can be re-canonicalized to linear at most once, so in
// practice the loop converges in far fewer rounds than this; the cap exists
// purely as a defensive backstop against a malformed substitution set that
// would otherwise loop forever.
const maxPropagationRounds = 1000

// Run drives one full pass of the simplification pipeline against a
// constraint store: it extracts every already-linear constraint, simplifies
// them, applies the resulting substitutions back across the remaining
// non-linear constraints, and repeats as long as doing so turns any
// constraint linear, up to maxPropagationRounds rounds.
//
// It returns the accumulated substitution chain (already de-overlapped
// across every round) and the final SignalMap over whatever signals still
// appear in the store once the loop settles.
func Run(store *conststore.Store, opts Options) ([]algebra.Substitution, *SignalMap, error) {
	var allSubs []algebra.Substitution

	for round := 0; round < maxPropagationRounds; round++ {
		linearConstraints := store.ExtractWith(func(_ conststore.ConstraintID, c algebra.Constraint) bool {
			return c.IsLinear()
		})
		if len(linearConstraints) == 0 {
			break
		}

		linears := make([]algebra.LinearForm, len(linearConstraints))
		for i, c := range linearConstraints {
			linears[i] = c.C
		}

		result, err := Simplify(linears, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("simplify: round %d: %w", round, err)
		}

		// Surviving linear constraints go back into the store unchanged;
		// they didn't yield a pivot (every signal was forbidden, or the
		// constraint was too wide under OnlyPlonk) so there is nothing
		// further to propagate from them this round.
		for _, lf := range result.Surviving {
			store.Add(algebra.Constraint{A: algebra.ZeroLinear(), B: algebra.ZeroLinear(), C: lf})
		}

		if len(result.Substitutions) == 0 {
			break
		}

		for _, sub := range result.Substitutions {
			applyAcrossStore(store, sub)
		}
		allSubs = append(allSubs, result.Substitutions...)
	}

	surviving := map[algebra.SignalID]bool{}
	for _, id := range store.GetIDs() {
		c, _ := store.Read(id)
		for _, l := range []algebra.LinearForm{c.A, c.B, c.C} {
			for s, coef := range l.Terms {
				if !coef.IsZero() {
					surviving[s] = true
				}
			}
		}
	}

	// Forbidden signals (outputs, pinned public inputs) must survive the
	// renumbering even when every constraint mentioning them was linear and
	// fully eliminated into a substitution chain, so they never appear in a
	// store constraint by the time we get here (spec.md section 8 scenario
	// 1: forbidden output z survives as z -> 1 even though the store ends
	// up empty).
	pinned := make([]algebra.SignalID, 0, len(opts.Forbidden))
	for s, ok := range opts.Forbidden {
		if ok {
			surviving[s] = true
			pinned = append(pinned, s)
		}
	}
	sort.Slice(pinned, func(i, j int) bool { return pinned[i] < pinned[j] })

	return allSubs, NewSignalMap(surviving, pinned), nil
}

// applyAcrossStore rewrites every live constraint in store under sub,
// re-canonicalizing (FixConstraint folds a constant-A product back into C,
// which can turn a quadratic constraint linear).
func applyAcrossStore(store *conststore.Store, sub algebra.Substitution) {
	for _, id := range store.GetIDs() {
		c, ok := store.Read(id)
		if !ok {
			continue
		}
		updated := algebra.ApplySubstitutionToConstraint(c, sub)
		store.Replace(id, updated)
	}
}
