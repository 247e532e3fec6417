package fingerprint

import (
	"math/rand"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/field"
)

// Shuffle produces a semantically equivalent circuit by (i) scaling each
// constraint's A and C parts by the same random nonzero constant (which
// preserves A*B-C=0 since k*A*B - k*C = k*(A*B-C)), (ii) permuting the
// constraint list, (iii) permuting signal ids within their role class
// (outputs/inputs/internal), and (iv) swapping the A/B parts of individual
// constraints at random. The fingerprint engine is expected to produce
// identical class-size multisets for the shuffled circuit and the
// original; this is the primary integration test for the engine (spec.md
// section 4.6, "randomized shuffling for testing").
func Shuffle(store *conststore.Store, inputs, outputs map[algebra.SignalID]bool, rng *rand.Rand) (*conststore.Store, map[algebra.SignalID]algebra.SignalID) {
	renaming := buildClassPermutation(store, inputs, outputs, rng)

	ids := store.GetIDs()
	order := rng.Perm(len(ids))

	out := conststore.NewStore()
	for _, idx := range order {
		c, ok := store.Read(ids[idx])
		if !ok {
			continue
		}

		k := randomNonzero(rng)
		a := algebra.ScaleLinear(renameLinear(c.A, renaming), k)
		b := renameLinear(c.B, renaming)
		cc := algebra.ScaleLinear(renameLinear(c.C, renaming), k)

		if rng.Intn(2) == 0 {
			a, b = b, a
		}
		out.Add(algebra.FixConstraint(algebra.Constraint{A: a, B: b, C: cc}))
	}

	return out, renaming
}

func randomNonzero(rng *rand.Rand) field.Elem {
	for {
		v := field.FromUint64(rng.Uint64())
		if !v.IsZero() {
			return v
		}
	}
}

func renameLinear(l algebra.LinearForm, renaming map[algebra.SignalID]algebra.SignalID) algebra.LinearForm {
	out := algebra.NewLinearForm(l.Constant, nil)
	for s, c := range l.Terms {
		if c.IsZero() {
			continue
		}
		if ns, ok := renaming[s]; ok {
			out.Terms[ns] = c
		} else {
			out.Terms[s] = c
		}
	}
	return out
}

// buildClassPermutation assigns each non-constant signal touched by store a
// (possibly identical) new id, permuted within its role class so that
// outputs only ever rename to other outputs, inputs to other inputs, and
// everything else ("internal") amongst itself.
func buildClassPermutation(store *conststore.Store, inputs, outputs map[algebra.SignalID]bool, rng *rand.Rand) map[algebra.SignalID]algebra.SignalID {
	var outs, ins, internal []algebra.SignalID
	seen := map[algebra.SignalID]bool{}
	for _, id := range store.GetIDs() {
		c, _ := store.Read(id)
		for _, l := range []algebra.LinearForm{c.A, c.B, c.C} {
			for s, coef := range l.Terms {
				if coef.IsZero() || s == algebra.ConstSignal || seen[s] {
					continue
				}
				seen[s] = true
				switch {
				case outputs[s]:
					outs = append(outs, s)
				case inputs[s]:
					ins = append(ins, s)
				default:
					internal = append(internal, s)
				}
			}
		}
	}

	renaming := map[algebra.SignalID]algebra.SignalID{}
	permuteClass := func(class []algebra.SignalID) {
		perm := rng.Perm(len(class))
		for i, s := range class {
			renaming[s] = class[perm[i]]
		}
	}
	permuteClass(outs)
	permuteClass(ins)
	permuteClass(internal)
	return renaming
}
