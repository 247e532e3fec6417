package algebra

import (
	"sort"

	"github.com/zkarkit/circuitkit/field"
)

// SignalID identifies a signal. 0 is reserved and never denotes a real
// signal.
type SignalID = uint64

// ConstSignal is the reserved id carrying an expression's additive
// constant when a coefficient mapping needs to name "the constant slot"
// explicitly (e.g. when decoding from the wire formats in circuitio, which
// use the signal-0-as-constant convention from spec.md section 3).
const ConstSignal SignalID = 0

// LinearForm represents Sum(Terms[s]*s) + Constant. Terms never contains a
// zero-valued entry after a call to Trim; intermediate states (e.g. mid
// substitution) may transiently hold zero entries.
type LinearForm struct {
	Constant field.Elem
	Terms    map[SignalID]field.Elem
}

// NewLinearForm builds a LinearForm from a constant and a term map. The
// term map is copied defensively.
func NewLinearForm(constant field.Elem, terms map[SignalID]field.Elem) LinearForm {
	cp := make(map[SignalID]field.Elem, len(terms))
	for s, c := range terms {
		cp[s] = c
	}
	return LinearForm{Constant: constant, Terms: cp}
}

// ZeroLinear returns the empty linear form (the additive identity).
func ZeroLinear() LinearForm {
	return LinearForm{Constant: field.Zero(), Terms: map[SignalID]field.Elem{}}
}

// SignalOnly returns the linear form 1*s.
func SignalOnly(s SignalID) LinearForm {
	return LinearForm{Constant: field.Zero(), Terms: map[SignalID]field.Elem{s: field.One()}}
}

// Clone makes a deep-enough copy (the term map is copied; field.Elem is a
// value type).
func (l LinearForm) Clone() LinearForm {
	return NewLinearForm(l.Constant, l.Terms)
}

// Trim removes zero-valued entries from Terms in place and returns the
// receiver for chaining.
func (l LinearForm) Trim() LinearForm {
	for s, c := range l.Terms {
		if c.IsZero() {
			delete(l.Terms, s)
		}
	}
	return l
}

// IsConstant reports whether l has no signal terms, i.e. whether it
// degenerates to a pure constant.
func (l LinearForm) IsConstant() bool {
	for _, c := range l.Terms {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// SortedSignals returns l's signal keys in ascending order, for
// deterministic iteration (fingerprinting, normalization, encoding).
func (l LinearForm) SortedSignals() []SignalID {
	out := make([]SignalID, 0, len(l.Terms))
	for s := range l.Terms {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddLinear returns a+b.
func AddLinear(a, b LinearForm) LinearForm {
	out := a.Clone()
	out.Constant = field.Add(a.Constant, b.Constant)
	for s, c := range b.Terms {
		out.Terms[s] = field.Add(out.Terms[s], c)
	}
	return out.Trim()
}

// SubLinear returns a-b.
func SubLinear(a, b LinearForm) LinearForm {
	return AddLinear(a, ScaleLinear(b, field.PrefixSub(field.One())))
}

// ScaleLinear returns k*a.
func ScaleLinear(a LinearForm, k field.Elem) LinearForm {
	out := LinearForm{Constant: field.Mul(a.Constant, k), Terms: make(map[SignalID]field.Elem, len(a.Terms))}
	for s, c := range a.Terms {
		out.Terms[s] = field.Mul(c, k)
	}
	return out.Trim()
}

// NegLinear returns -a.
func NegLinear(a LinearForm) LinearForm {
	return ScaleLinear(a, field.PrefixSub(field.One()))
}
