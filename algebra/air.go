package algebra

import (
	"errors"
	"sort"

	"github.com/zkarkit/circuitkit/field"
)

// MulKey is a canonically-ordered pair of signals (S <= T) naming a
// bilinear term in an AIR constraint.
type MulKey struct {
	S, T SignalID
}

// NewMulKey canonicalizes (a,b) so that S <= T, per spec.md section 3.
func NewMulKey(a, b SignalID) MulKey {
	if a <= b {
		return MulKey{S: a, T: b}
	}
	return MulKey{S: b, T: a}
}

// AIRConstraint represents Sum(Muls[{s,t}]*s*t) + Linear = 0.
type AIRConstraint struct {
	Muls   map[MulKey]field.Elem
	Linear LinearForm
}

// SortedMulKeys returns the constraint's bilinear keys in a deterministic
// order (by S then T), used by fingerprinting and normalization.
func (c AIRConstraint) SortedMulKeys() []MulKey {
	out := make([]MulKey, 0, len(c.Muls))
	for k := range c.Muls {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].S != out[j].S {
			return out[i].S < out[j].S
		}
		return out[i].T < out[j].T
	})
	return out
}

// IsLinear reports whether c has no nonzero bilinear terms.
func (c AIRConstraint) IsLinear() bool {
	for _, v := range c.Muls {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// FixAIRConstraint re-canonicalizes c: zero terms are removed from both
// maps, multiplications by the constant signal are folded into Linear
// (s*0 is already excluded since signal 0 never appears as a real
// multiplicand; a mul key naming signal 0 denotes scaling and folds
// directly), and any mul key degenerating through substitution back to a
// constant*constant product collapses into Linear's constant.
func FixAIRConstraint(c AIRConstraint) AIRConstraint {
	out := AIRConstraint{Muls: make(map[MulKey]field.Elem, len(c.Muls)), Linear: c.Linear.Clone().Trim()}
	for k, v := range c.Muls {
		if v.IsZero() {
			continue
		}
		switch {
		case k.S == ConstSignal && k.T == ConstSignal:
			out.Linear.Constant = field.Add(out.Linear.Constant, v)
		case k.S == ConstSignal:
			out.Linear.Terms[k.T] = field.Add(out.Linear.Terms[k.T], v)
		case k.T == ConstSignal:
			out.Linear.Terms[k.S] = field.Add(out.Linear.Terms[k.S], v)
		default:
			out.Muls[k] = v
		}
	}
	out.Linear.Trim()
	return out
}

// AIRSubstitution asserts from = Sum(ToMuls[k]*k.S*k.T) + Sum(ToLinear.Terms[s]*s) + ToLinear.Constant.
// Neither ToLinear nor ToMuls may reference from.
type AIRSubstitution struct {
	From     SignalID
	ToLinear LinearForm
	ToMuls   map[MulKey]field.Elem
}

// NewAIRSubstitution validates non-circularity across both the linear and
// bilinear parts of the replacement.
func NewAIRSubstitution(from SignalID, toLinear LinearForm, toMuls map[MulKey]field.Elem) (AIRSubstitution, error) {
	if c, ok := toLinear.Terms[from]; ok && !c.IsZero() {
		return AIRSubstitution{}, ErrCircularSubstitution
	}
	for k, v := range toMuls {
		if v.IsZero() {
			continue
		}
		if k.S == from || k.T == from {
			return AIRSubstitution{}, ErrCircularSubstitution
		}
	}
	cp := make(map[MulKey]field.Elem, len(toMuls))
	for k, v := range toMuls {
		cp[k] = v
	}
	return AIRSubstitution{From: from, ToLinear: toLinear.Clone(), ToMuls: cp}, nil
}

// ErrQuadraticFromInTarget is returned by ApplyAIRSubstitution when sub's
// From signal appears quadratically (as a bilinear factor) in the target
// constraint and sub itself carries bilinear terms, so that expanding it
// would exceed degree 2. A purely linear sub is expanded across the
// bilinear term instead.
var ErrQuadraticFromInTarget = errors.New("algebra: substitution target already appears quadratically")

// ApplyAIRSubstitution applies sub to c. A linear occurrence of sub.From
// expands normally; a bilinear occurrence where sub.From is one of the two
// factors expands the product across sub's RHS, which can turn a linear
// substitution into new bilinear terms (spec.md section 4.2) or, if sub
// itself carries bilinear terms, into degree-3 terms - the latter is
// rejected with ErrQuadraticFromInTarget since AIR stays degree <= 2.
func ApplyAIRSubstitution(c AIRConstraint, sub AIRSubstitution) (AIRConstraint, error) {
	out := AIRConstraint{Muls: map[MulKey]field.Elem{}, Linear: c.Linear.Clone()}

	// Linear part: straightforward substitution.
	if coef, ok := c.Linear.Terms[sub.From]; ok && !coef.IsZero() {
		delete(out.Linear.Terms, sub.From)
		scaled := ScaleLinear(sub.ToLinear, coef)
		out.Linear.Constant = field.Add(out.Linear.Constant, scaled.Constant)
		for s, v := range scaled.Terms {
			out.Linear.Terms[s] = field.Add(out.Linear.Terms[s], v)
		}
		for k, v := range sub.ToMuls {
			out.Muls[k] = field.Add(out.Muls[k], field.Mul(v, coef))
		}
	}

	// Bilinear part.
	for k, coef := range c.Muls {
		if coef.IsZero() {
			continue
		}
		sHit, tHit := k.S == sub.From, k.T == sub.From
		if !sHit && !tHit {
			out.Muls[k] = field.Add(out.Muls[k], coef)
			continue
		}
		if sHit && tHit {
			// s*s with s substituted on both sides: if sub carries any
			// bilinear term, expanding would produce degree > 2.
			if len(nonzeroMuls(sub.ToMuls)) > 0 {
				return AIRConstraint{}, ErrQuadraticFromInTarget
			}
			expandSquareInto(&out, sub.ToLinear, coef)
			continue
		}
		other := k.T
		if sHit {
			other = k.T
		} else {
			other = k.S
		}
		if len(nonzeroMuls(sub.ToMuls)) > 0 {
			return AIRConstraint{}, ErrQuadraticFromInTarget
		}
		// other * sub.ToLinear, scaled by coef.
		for s, v := range sub.ToLinear.Terms {
			mk := NewMulKey(other, s)
			out.Muls[mk] = field.Add(out.Muls[mk], field.Mul(coef, v))
		}
		out.Linear.Terms[other] = field.Add(out.Linear.Terms[other], field.Mul(coef, sub.ToLinear.Constant))
	}

	return FixAIRConstraint(out), nil
}

func nonzeroMuls(m map[MulKey]field.Elem) map[MulKey]field.Elem {
	out := map[MulKey]field.Elem{}
	for k, v := range m {
		if !v.IsZero() {
			out[k] = v
		}
	}
	return out
}

// expandSquareInto expands coef*(ToLinear)^2 into out's bilinear and
// linear parts, given ToLinear has no bilinear component (checked by the
// caller).
func expandSquareInto(out *AIRConstraint, l LinearForm, coef field.Elem) {
	signals := l.SortedSignals()
	for i, si := range signals {
		ci := l.Terms[si]
		for j := i; j < len(signals); j++ {
			sj := signals[j]
			cj := l.Terms[sj]
			term := field.Mul(field.Mul(ci, cj), coef)
			if i != j {
				term = field.Add(term, term) // cross term counted once in i<j loop, doubled for symmetry
			}
			mk := NewMulKey(si, sj)
			out.Muls[mk] = field.Add(out.Muls[mk], term)
		}
		// 2*constant*ci*si
		crossConst := field.Mul(field.Mul(ci, l.Constant), coef)
		crossConst = field.Add(crossConst, crossConst)
		out.Linear.Terms[si] = field.Add(out.Linear.Terms[si], crossConst)
	}
	out.Linear.Constant = field.Add(out.Linear.Constant, field.Mul(field.Mul(l.Constant, l.Constant), coef))
}
