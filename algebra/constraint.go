package algebra

import "github.com/zkarkit/circuitkit/field"

// Constraint is an R1CS equation A*B - C = 0. If A or B is empty (no
// signal terms and zero constant... more precisely "empty" per spec.md
// means the mapping carries no nonzero terms at all, i.e. is the zero
// linear form) then both must be, and the constraint is linear in C alone.
type Constraint struct {
	A, B, C LinearForm
}

// IsLinear reports whether the constraint is in linear form (both A and B
// are the zero linear form).
func (c Constraint) IsLinear() bool {
	return isZeroLinear(c.A) && isZeroLinear(c.B)
}

func isZeroLinear(l LinearForm) bool {
	if !l.Constant.IsZero() {
		return false
	}
	for _, v := range l.Terms {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// IsLinearEquality reports whether the constraint is linear and its C part
// is exactly two nonzero signal terms that are negatives of each other
// (spec.md section 3's definition of "linear equality").
func (c Constraint) IsLinearEquality() bool {
	if !c.IsLinear() {
		return false
	}
	if !c.C.Constant.IsZero() {
		return false
	}
	nonzero := c.C.SortedSignals()
	var present []SignalID
	for _, s := range nonzero {
		if !c.C.Terms[s].IsZero() {
			present = append(present, s)
		}
	}
	if len(present) != 2 {
		return false
	}
	a, b := c.C.Terms[present[0]], c.C.Terms[present[1]]
	return a.Equal(field.PrefixSub(b))
}

// FixConstraint re-canonicalizes c in place: zero terms are removed, and if
// either A or B degenerates to a pure constant, it is folded into C (the
// other side scaled by that constant and subtracted into C, after which A
// and B are both cleared, leaving a linear constraint), per spec.md
// section 3. Whenever A or B is structurally empty after trimming, both
// are force-cleared regardless, so the "A = B = ∅ or both nonempty"
// invariant from section 8 always holds on return.
func FixConstraint(c Constraint) Constraint {
	c.A = c.A.Clone().Trim()
	c.B = c.B.Clone().Trim()
	c.C = c.C.Clone().Trim()

	switch {
	case !c.IsLinear() && c.A.IsConstant():
		scaled := ScaleLinear(c.B, c.A.Constant)
		c.C = SubLinear(c.C, scaled).Trim()
		c.A = ZeroLinear()
		c.B = ZeroLinear()
	case !c.IsLinear() && c.B.IsConstant():
		scaled := ScaleLinear(c.A, c.B.Constant)
		c.C = SubLinear(c.C, scaled).Trim()
		c.A = ZeroLinear()
		c.B = ZeroLinear()
	}

	if isZeroLinear(c.A) || isZeroLinear(c.B) {
		c.A = ZeroLinear()
		c.B = ZeroLinear()
	}
	return c
}

// ToConstraintForm converts an expression into R1CS constraint form with
// the sign flip C := -C, so that "expr = 0" (A*B + C_old = 0) is
// represented as the constraint A*B - C = 0 with C = -C_old. Returns false
// if expr is NonQuadratic.
func ToConstraintForm(e Expr) (Constraint, bool) {
	switch e.Kind {
	case KindNonQuadratic:
		return Constraint{}, false
	case KindQuadratic:
		return FixConstraint(Constraint{A: e.A, B: e.B, C: NegLinear(e.C)}), true
	default:
		lf, _ := asLinear(e)
		return FixConstraint(Constraint{A: ZeroLinear(), B: ZeroLinear(), C: NegLinear(lf)}), true
	}
}

// ToExpr recovers the expression A*B - C from a constraint (the inverse
// direction of ToConstraintForm's sign convention: expr = A*B + (-C)).
func (c Constraint) ToExpr() Expr {
	if c.IsLinear() {
		return Lin(NegLinear(c.C))
	}
	return Quad(c.A, c.B, NegLinear(c.C))
}
