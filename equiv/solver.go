package equiv

import (
	"context"

	"github.com/zkarkit/circuitkit/fingerprint"
)

// Outcome is a CDCL SAT solver's verdict.
type Outcome int

const (
	UNSAT Outcome = iota
	SAT
	UNKNOWN
)

func (o Outcome) String() string {
	switch o {
	case SAT:
		return "SAT"
	case UNSAT:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Solver is the pluggable CDCL SAT backend collaborator: the spec treats
// solver choice as external, specifying only the query it must answer.
type Solver interface {
	Solve(ctx context.Context, f *Formula) (Outcome, map[Var]bool, error)
}

// ComparisonData is the structured result the equivalence comparator hands
// back to its caller, per spec.md section 7's propagation policy for
// fingerprint/solver discrepancies.
type ComparisonData struct {
	Equivalent bool
	Reason     Reason
	Outcome    Outcome
}

// Compare runs PreCheck over e, and only on success builds the isomorphism
// formula (from leftNorms/rightNorms) and hands it to solver, translating
// the outcome into a ComparisonData the caller can report directly.
func Compare(ctx context.Context, e *fingerprint.Engine, leftNorms, rightNorms []fingerprint.NormalizedConstraint, solver Solver) (ComparisonData, error) {
	if reason := PreCheck(e); reason != ReasonNone {
		return ComparisonData{Equivalent: false, Reason: reason}, nil
	}

	enc := Build(e, leftNorms, rightNorms)
	outcome, _, err := solver.Solve(ctx, enc.Formula)
	if err != nil {
		return ComparisonData{}, err
	}

	switch outcome {
	case SAT:
		return ComparisonData{Equivalent: true, Outcome: outcome}, nil
	case UNSAT:
		return ComparisonData{Equivalent: false, Reason: ReasonNormHasNoValidPair, Outcome: outcome}, nil
	default:
		return ComparisonData{Equivalent: false, Outcome: outcome}, nil
	}
}
