package equiv

import "context"

// RefSolver is a small recursive DPLL solver: unit propagation plus
// chronological backtracking, with no clause learning or restarts. It
// exists for tests and small formulas only; production solving is an
// external collaborator per the Solver contract.
type RefSolver struct{}

func (RefSolver) Solve(ctx context.Context, f *Formula) (Outcome, map[Var]bool, error) {
	assign := make(map[Var]int8, f.NumVars) // 0 unset, 1 true, -1 false
	clauses := make([][]Literal, len(f.Clauses))
	copy(clauses, f.Clauses)

	ok, result := dpll(ctx, f.NumVars, clauses, assign)
	if err := ctx.Err(); err != nil {
		return UNKNOWN, nil, nil
	}
	if !ok {
		return UNSAT, nil, nil
	}
	out := make(map[Var]bool, f.NumVars)
	for v := 1; v <= f.NumVars; v++ {
		out[Var(v)] = result[Var(v)] == 1
	}
	return SAT, out, nil
}

func dpll(ctx context.Context, numVars int, clauses [][]Literal, assign map[Var]int8) (bool, map[Var]int8) {
	if ctx.Err() != nil {
		return false, nil
	}

	changed := true
	for changed {
		changed = false
		for _, c := range clauses {
			status, unit := evalClause(c, assign)
			if status == -1 {
				return false, nil
			}
			if status == 0 && unit != 0 {
				v := Var(unit)
				if v < 0 {
					v = -v
				}
				val := int8(1)
				if unit < 0 {
					val = -1
				}
				assign[v] = val
				changed = true
			}
		}
	}

	var next Var
	for v := 1; v <= numVars; v++ {
		if assign[Var(v)] == 0 {
			next = Var(v)
			break
		}
	}
	if next == 0 {
		return true, assign
	}

	for _, val := range []int8{1, -1} {
		trial := cloneAssign(assign)
		trial[next] = val
		if ok, result := dpll(ctx, numVars, clauses, trial); ok {
			return true, result
		}
	}
	return false, nil
}

// evalClause returns status=1 (satisfied), -1 (falsified/empty), or 0
// (undetermined); when status is 0 and the clause has exactly one unset
// literal with every other literal false, unit carries that literal.
func evalClause(c []Literal, assign map[Var]int8) (status int, unit Literal) {
	satisfied := false
	var lastUnset Literal
	unsetCount := 0
	for _, lit := range c {
		v := Var(lit)
		if v < 0 {
			v = -v
		}
		val := assign[v]
		if val == 0 {
			unsetCount++
			lastUnset = lit
			continue
		}
		litTrue := (lit > 0 && val == 1) || (lit < 0 && val == -1)
		if litTrue {
			satisfied = true
		}
	}
	if satisfied {
		return 1, 0
	}
	if unsetCount == 0 {
		return -1, 0
	}
	if unsetCount == 1 {
		return 0, lastUnset
	}
	return 0, 0
}

func cloneAssign(a map[Var]int8) map[Var]int8 {
	out := make(map[Var]int8, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
