package equiv

import (
	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/fingerprint"
)

// SignalPair and ConstraintPair name a candidate pairing between circuit 0
// and circuit 1.
type SignalPair struct{ Left, Right algebra.SignalID }
type ConstraintPair struct{ Left, Right int } // indices into the NormalizedConstraint slices passed to Build

// Encoding is the result of Build: the CNF formula plus the variable
// tables needed to decode a satisfying assignment back into a bijection.
type Encoding struct {
	Formula   *Formula
	SignalVar map[SignalPair]Var
	ConstrVar map[ConstraintPair]Var
}

type role struct {
	signal algebra.SignalID
	coef   string
	part   string // "A", "B", "C", or "AB" for an unordered merged part
}

func roleTerms(nc fingerprint.NormalizedConstraint) []role {
	var out []role
	add := func(part string, ts []fingerprint.SignalTerm) {
		for _, t := range ts {
			out = append(out, role{signal: t.Signal, coef: t.Coef.String(), part: part})
		}
	}
	if nc.Ordered {
		add("A", nc.A)
		add("B", nc.B)
	} else {
		add("AB", nc.Combined)
	}
	add("C", nc.C)
	return out
}

// Build encodes the CNF+PB formula from a converged 2-circuit engine and
// the normalized constraint slices the engine was seeded from (index-
// aligned with CircuitView.Norms for each side).
func Build(e *fingerprint.Engine, leftNorms, rightNorms []fingerprint.NormalizedConstraint) *Encoding {
	f := &Formula{}
	enc := &Encoding{Formula: f, SignalVar: map[SignalPair]Var{}, ConstrVar: map[ConstraintPair]Var{}}

	leftSigByColor := groupSignals(e.SignalColor(0))
	rightSigByColor := groupSignals(e.SignalColor(1))

	for color, leftSignals := range leftSigByColor {
		rightSignals := rightSigByColor[color]
		if len(leftSignals) == 1 && len(rightSignals) == 1 {
			v := f.newVar()
			enc.SignalVar[SignalPair{leftSignals[0], rightSignals[0]}] = v
			f.assert(v)
			continue
		}
		rowVars := map[algebra.SignalID][]Var{}
		colVars := map[algebra.SignalID][]Var{}
		for _, ls := range leftSignals {
			for _, rs := range rightSignals {
				v := f.newVar()
				enc.SignalVar[SignalPair{ls, rs}] = v
				rowVars[ls] = append(rowVars[ls], v)
				colVars[rs] = append(colVars[rs], v)
			}
		}
		for _, vs := range rowVars {
			f.exactlyOne(vs)
		}
		for _, vs := range colVars {
			f.exactlyOne(vs)
		}
	}

	leftByColor := groupConstraints(e.ConstraintColor(0))
	rightByColor := groupConstraints(e.ConstraintColor(1))

	for color, leftIdxs := range leftByColor {
		rightIdxs := rightByColor[color]
		singleton := len(leftIdxs) == 1 && len(rightIdxs) == 1

		for _, li := range leftIdxs {
			var yVars []Var
			for _, ri := range rightIdxs {
				y := f.newVar()
				enc.ConstrVar[ConstraintPair{li, ri}] = y
				yVars = append(yVars, y)
				emitAllowedPartnerClauses(f, enc, leftNorms[li], rightNorms[ri], y, singleton)
			}
			if !singleton {
				f.addClause(varsToLits(yVars)...)
			}
		}
	}

	return enc
}

// emitAllowedPartnerClauses implements spec.md section 4.7's per-pair
// implication: for each signal occurrence (role) in the left constraint,
// either y_{c,c'} is false, or one of the matching-role/matching-coefficient
// signal pairings on the right is chosen. When singleton is true there is
// no gating variable to negate in the emitted clause form, but y still
// exists here (always asserted true by its class having size 1) so the
// same implication clause is reused unconditionally.
func emitAllowedPartnerClauses(f *Formula, enc *Encoding, left, right fingerprint.NormalizedConstraint, y Var, singleton bool) {
	rightRoles := roleTerms(right)
	for _, lr := range roleTerms(left) {
		var allowed []Var
		for _, rr := range rightRoles {
			if rr.part != lr.part || rr.coef != lr.coef {
				continue
			}
			if v, ok := enc.SignalVar[SignalPair{lr.signal, rr.signal}]; ok {
				allowed = append(allowed, v)
			}
		}
		if singleton {
			f.assert(y)
			f.addClause(varsToLits(allowed)...)
		} else {
			f.implies(y, allowed...)
		}
	}
}

func varsToLits(vs []Var) []Literal {
	out := make([]Literal, len(vs))
	for i, v := range vs {
		out[i] = Literal(v)
	}
	return out
}

func groupSignals(colors map[algebra.SignalID]fingerprint.Color) map[fingerprint.Color][]algebra.SignalID {
	out := map[fingerprint.Color][]algebra.SignalID{}
	for s, c := range colors {
		out[c] = append(out[c], s)
	}
	return out
}

func groupConstraints(colors []fingerprint.Color) map[fingerprint.Color][]int {
	out := map[fingerprint.Color][]int{}
	for i, c := range colors {
		out[c] = append(out[c], i)
	}
	return out
}
