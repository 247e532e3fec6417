package algebra

import (
	"errors"

	"github.com/zkarkit/circuitkit/field"
)

// ErrCircularSubstitution is returned by NewSubstitution when from appears
// in the keys of to, which would make the substitution self-referential.
var ErrCircularSubstitution = errors.New("algebra: substitution would be circular")

// Substitution asserts from = Sum(To.Terms[s]*s) + To.Constant.
type Substitution struct {
	From SignalID
	To   LinearForm
}

// NewSubstitution validates the non-circularity invariant (from is not a
// key of to) before constructing the substitution.
func NewSubstitution(from SignalID, to LinearForm) (Substitution, error) {
	if _, ok := to.Terms[from]; ok && !to.Terms[from].IsZero() {
		return Substitution{}, ErrCircularSubstitution
	}
	return Substitution{From: from, To: to.Clone()}, nil
}

// ApplySubstitution replaces every occurrence of sub.From in e's
// coefficient mappings with the linear combination sub.To, scaled by the
// original coefficient, and drops zero entries afterward. For Quadratic
// expressions the substitution is applied to A, B, and C independently.
func ApplySubstitution(e Expr, sub Substitution) Expr {
	switch e.Kind {
	case KindNumber, KindNonQuadratic:
		return e
	case KindSignal:
		if e.Signal == sub.From {
			return Lin(sub.To.Clone())
		}
		return e
	case KindLinear:
		return Lin(substituteLinear(e.Linear, sub))
	case KindQuadratic:
		return Quad(substituteLinear(e.A, sub), substituteLinear(e.B, sub), substituteLinear(e.C, sub))
	default:
		return e
	}
}

func substituteLinear(l LinearForm, sub Substitution) LinearForm {
	coef, ok := l.Terms[sub.From]
	if !ok || coef.IsZero() {
		return l.Clone().Trim()
	}
	out := l.Clone()
	delete(out.Terms, sub.From)
	scaled := ScaleLinear(sub.To, coef)
	out.Constant = field.Add(out.Constant, scaled.Constant)
	for s, c := range scaled.Terms {
		out.Terms[s] = field.Add(out.Terms[s], c)
	}
	return out.Trim()
}

// ApplySubstitutionToConstraint applies sub to every part of a constraint
// and re-canonicalizes the result with FixConstraint.
func ApplySubstitutionToConstraint(c Constraint, sub Substitution) Constraint {
	return FixConstraint(Constraint{
		A: substituteLinear(c.A, sub),
		B: substituteLinear(c.B, sub),
		C: substituteLinear(c.C, sub),
	})
}

// ClearSignal extracts signal s from a linear constraint's C part as a
// normalized substitution s -> rest/(-coef). Returns an error if c is not
// linear or s does not occur in c.
func ClearSignal(c Constraint, s SignalID) (Substitution, error) {
	if !c.IsLinear() {
		return Substitution{}, errors.New("algebra: ClearSignal on non-linear constraint")
	}
	coef, rest, err := ClearSignalUnnormalized(c, s)
	if err != nil {
		return Substitution{}, err
	}
	inv, err := field.Inverse(coef)
	if err != nil {
		return Substitution{}, err
	}
	return NewSubstitution(s, ScaleLinear(rest, inv))
}

// ClearSignalUnnormalized returns (-coef, rest) without dividing, where
// coef is c.C's coefficient on s and rest is c.C with s removed. The
// caller combines these as s = rest/(-coef); this variant exists so a
// batch of pivots can be inverted together via field.MultiInv.
func ClearSignalUnnormalized(c Constraint, s SignalID) (negCoef field.Elem, rest LinearForm, err error) {
	coef, ok := c.C.Terms[s]
	if !ok || coef.IsZero() {
		return field.Elem{}, LinearForm{}, errors.New("algebra: signal not present in constraint")
	}
	rest = c.C.Clone()
	delete(rest.Terms, s)
	rest.Trim()
	return field.PrefixSub(coef), rest, nil
}
