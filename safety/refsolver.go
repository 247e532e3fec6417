package safety

import "context"

// StubSolver is a trivial Solver used by tests (this package's and
// orchestrate's): it
// declares every query Verified unless it has no output-difference
// disjuncts at all (nothing to prove), which it reports Unknown. It does
// not actually decide satisfiability; a real SMT backend (z3, cvc5 via
// SMT-LIB stdin/stdout) implements the Solver interface in its place.
type StubSolver struct {
	// Outcomes, if non-nil, is consulted by query index (the number of
	// times Solve has been called so far) to script a sequence of
	// statuses for augmentation tests; falls back to the always-Verified
	// default once exhausted.
	Outcomes []Status
	calls    int
}

func (s *StubSolver) Solve(ctx context.Context, q Query) (Status, error) {
	defer func() { s.calls++ }()
	if s.calls < len(s.Outcomes) {
		return s.Outcomes[s.calls], nil
	}
	if len(q.OutputDiffs) == 0 {
		return Unknown, nil
	}
	return Verified, nil
}
