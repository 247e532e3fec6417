package safety

import (
	"math/big"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/bounds"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/field"
)

// DeduceBounds runs the integrity-domain and bound-propagation rules
// (spec.md section 4.8) to a fixpoint over the given constraints, returning
// an interval per signal. Signal 0 (the constant) is initialized to
// [1,1]; every other signal starts at the full unsigned residue range
// [0,p-1] and is tightened as rules fire.
func DeduceBounds(store *conststore.Store, ids []conststore.ConstraintID) map[algebra.SignalID]bounds.Interval {
	p := field.Modulus()
	pMinus1 := new(big.Int).Sub(p, big.NewInt(1))
	full := bounds.Interval{Min: big.NewInt(0), Max: pMinus1}

	iv := map[algebra.SignalID]bounds.Interval{algebra.ConstSignal: bounds.Of(1, 1)}
	touch := func(s algebra.SignalID) {
		if _, ok := iv[s]; !ok {
			iv[s] = full
		}
	}
	for _, id := range ids {
		c, ok := store.Read(id)
		if !ok {
			continue
		}
		for _, l := range []algebra.LinearForm{c.A, c.B, c.C} {
			for s := range l.Terms {
				touch(s)
			}
		}
	}

	resolved := map[conststore.ConstraintID]bool{}

	changed := true
	for changed {
		changed = false
		for _, id := range ids {
			if resolved[id] {
				continue
			}
			c, ok := store.Read(id)
			if !ok {
				continue
			}
			if applyIntegrityDomain(c, iv) {
				resolved[id] = true
				changed = true
				continue
			}
			if applyBoundPropagation(c, iv, p) {
				changed = true
			}
		}
	}

	return iv
}

// applyIntegrityDomain matches (x-a)(x-b)=0 with |a-b|=1 and tightens x's
// bound to [min(a,b),max(a,b)], reporting whether the constraint is now
// fully resolved (and can be dropped from further consideration).
func applyIntegrityDomain(c algebra.Constraint, iv map[algebra.SignalID]bounds.Interval) bool {
	if c.IsLinear() || !c.C.IsConstant() || !c.C.Constant.IsZero() {
		return false
	}
	sA, aConst, ok := singleSignalLinear(c.A)
	if !ok {
		return false
	}
	sB, bConst, ok := singleSignalLinear(c.B)
	if !ok || sA != sB {
		return false
	}
	a := aConst.ToSigned()
	b := bConst.ToSigned()
	diff := new(big.Int).Sub(a, b)
	diff.Abs(diff)
	if diff.Cmp(big.NewInt(1)) != 0 {
		return false
	}
	lo, hi := a, b
	if lo.Cmp(hi) > 0 {
		lo, hi = hi, lo
	}
	iv[sA] = bounds.Interval{Min: lo, Max: hi}
	return true
}

// singleSignalLinear reports whether l is exactly coef*s + constant with
// coef == 1, returning (s, -constant, true) so the caller reads "x - a"
// as (s, a, true).
func singleSignalLinear(l algebra.LinearForm) (algebra.SignalID, field.Elem, bool) {
	var sig algebra.SignalID
	count := 0
	for s, c := range l.Terms {
		if c.IsZero() {
			continue
		}
		if !c.Equal(field.One()) {
			return 0, field.Elem{}, false
		}
		sig = s
		count++
	}
	if count != 1 {
		return 0, field.Elem{}, false
	}
	return sig, field.PrefixSub(l.Constant), true
}

// applyBoundPropagation implements the A*B=C rule: compute bounds for A, B,
// C, and for every +-1-coefficient signal in C, solve for its bound,
// accepting the result only if it lands in a single residue class mod p.
func applyBoundPropagation(c algebra.Constraint, iv map[algebra.SignalID]bounds.Interval, p *big.Int) bool {
	ivA := linearBound(c.A, iv)
	ivB := linearBound(c.B, iv)
	ivAB := bounds.Mul(ivA, ivB)

	changed := false
	for s, coef := range c.C.Terms {
		if coef.IsZero() || s == algebra.ConstSignal {
			continue
		}
		if !coef.Equal(field.One()) && !coef.Equal(field.PrefixSub(field.One())) {
			continue
		}
		rest := c.C.Clone()
		delete(rest.Terms, s)
		rest.Trim()
		ivRest := linearBound(rest, iv)

		diff := bounds.Sub(ivAB, ivRest)
		if coef.Equal(field.PrefixSub(field.One())) {
			diff = bounds.Neg(diff)
		}
		if !bounds.SameResidueClass(diff, p) {
			continue
		}
		lifted := bounds.LiftToField(diff, p)
		signed := toSignedRange(lifted, p)
		narrowed := intersect(iv[s], signed)
		if narrowed.Min.Cmp(iv[s].Min) != 0 || narrowed.Max.Cmp(iv[s].Max) != 0 {
			iv[s] = narrowed
			changed = true
		}
	}
	return changed
}

// linearBound computes the sound interval bound of a linear combination
// given per-signal bounds.
func linearBound(l algebra.LinearForm, iv map[algebra.SignalID]bounds.Interval) bounds.Interval {
	acc := bounds.Single(l.Constant.ToSigned())
	for s, coef := range l.Terms {
		if coef.IsZero() {
			continue
		}
		sBound, ok := iv[s]
		if !ok {
			sBound = bounds.Of(0, 0)
		}
		acc = bounds.Add(acc, bounds.Scale(sBound, coef.ToSigned()))
	}
	return acc
}

// toSignedRange converts an interval known to lie in [0,p) into the signed
// representative range when the whole interval falls on one side of p/2;
// an interval straddling p/2 can't be tightened this way (to_signed is not
// monotonic across that boundary) so it is returned unchanged.
func toSignedRange(iv bounds.Interval, p *big.Int) bounds.Interval {
	half := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)
	if iv.Max.Cmp(half) <= 0 {
		return iv
	}
	if iv.Min.Cmp(half) > 0 {
		return bounds.Interval{Min: new(big.Int).Sub(iv.Min, p), Max: new(big.Int).Sub(iv.Max, p)}
	}
	return iv
}

func intersect(a, b bounds.Interval) bounds.Interval {
	lo := a.Min
	if b.Min.Cmp(lo) > 0 {
		lo = b.Min
	}
	hi := a.Max
	if b.Max.Cmp(hi) < 0 {
		hi = b.Max
	}
	if lo.Cmp(hi) > 0 {
		return a
	}
	return bounds.Interval{Min: lo, Max: hi}
}
