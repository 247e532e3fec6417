package algebra

import "github.com/zkarkit/circuitkit/field"

// ToAIRConstraintForm converts an expression into AIR constraint form
// Sum(muls) + linear = 0, expanding a Quadratic's A*B product across every
// pair of signals (including the constant "signal" contributing pure
// linear/constant terms). Returns false for NonQuadratic.
func ToAIRConstraintForm(e Expr) (AIRConstraint, bool) {
	switch e.Kind {
	case KindNonQuadratic:
		return AIRConstraint{}, false
	case KindQuadratic:
		muls := map[MulKey]field.Elem{}
		linear := e.C.Clone()
		as, bs := e.A.SortedSignals(), e.B.SortedSignals()
		for _, si := range as {
			ai := e.A.Terms[si]
			for _, sj := range bs {
				bj := e.B.Terms[sj]
				mk := NewMulKey(si, sj)
				muls[mk] = field.Add(muls[mk], field.Mul(ai, bj))
			}
			// A's signal term crossed with B's constant goes straight into
			// the linear part; B's signal terms crossed with A's constant,
			// and the constant*constant product, are added below.
			cross := field.Mul(ai, e.B.Constant)
			linear.Terms[si] = field.Add(linear.Terms[si], cross)
		}
		for _, sj := range bs {
			bj := e.B.Terms[sj]
			cross := field.Mul(e.A.Constant, bj)
			linear.Terms[sj] = field.Add(linear.Terms[sj], cross)
		}
		linear.Constant = field.Add(linear.Constant, field.Mul(e.A.Constant, e.B.Constant))
		return FixAIRConstraint(AIRConstraint{Muls: muls, Linear: linear}), true
	default:
		lf, _ := asLinear(e)
		return FixAIRConstraint(AIRConstraint{Muls: map[MulKey]field.Elem{}, Linear: lf}), true
	}
}

// ToExpr recovers an expression from an AIR constraint's bilinear/linear
// parts. Reconstructing A and B is not generally possible (the mapping
// muls->A,B is many-to-one), so a constraint with no bilinear term becomes
// a Linear expression, one with a single bilinear term becomes the
// Quadratic coef*S * T + Linear, and one with more than one bilinear term
// returns NonQuadratic.
func (c AIRConstraint) ToExpr() Expr {
	if c.IsLinear() {
		return Lin(c.Linear)
	}
	keys := c.SortedMulKeys()
	if len(keys) == 1 {
		k := keys[0]
		coef := c.Muls[k]
		a := LinearForm{Constant: field.Zero(), Terms: map[SignalID]field.Elem{k.S: coef}}
		b := SignalOnly(k.T)
		return Quad(a, b, c.Linear)
	}
	return NonQuad()
}
