package safety

import (
	"context"
	"time"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/graphbuild"
)

// Status is the outcome of a weak-safety check on a DAG node.
type Status int

const (
	Unknown Status = iota
	Verified
	Failed
)

func (s Status) String() string {
	switch s {
	case Verified:
		return "VERIFIED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Solver decides an SMT-LIB query. Implementations are expected to honor
// ctx cancellation and q.TimeoutMillis and return Unknown rather than
// block past either.
type Solver interface {
	Solve(ctx context.Context, q Query) (Status, error)
}

// Result is one node's safety verdict together with the number of
// predecessor-augmentation rounds it took to reach it.
type Result struct {
	NodeIndex int
	Status    Status
	Rounds    int
}

// CheckNode runs DeduceBounds and BuildQuery for a single node's own
// constraint set (no augmentation) and asks solver to decide it.
func CheckNode(ctx context.Context, store *conststore.Store, n *graphbuild.Node, timeoutMillis int, solver Solver) (Status, error) {
	iv := DeduceBounds(store, n.Constraints)
	q := BuildQuery(store, n.Constraints, n.Signals, n.Inputs, n.Outputs, iv, timeoutMillis)
	return solver.Solve(ctx, q)
}

// nodeConstraintSet returns the constraint IDs owned by the nodes at
// indices, deduplicated, in the order the indices are given.
func nodeConstraintSet(d *graphbuild.DAG, indices []int) []conststore.ConstraintID {
	seen := map[conststore.ConstraintID]bool{}
	var out []conststore.ConstraintID
	for _, idx := range indices {
		for _, id := range d.Nodes[idx].Constraints {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// unionSignals merges b into a fresh copy of a.
func unionSignals(a, b map[algebra.SignalID]bool) map[algebra.SignalID]bool {
	out := map[algebra.SignalID]bool{}
	for s := range a {
		out[s] = true
	}
	for s := range b {
		out[s] = true
	}
	return out
}

// TimeoutFor returns the millisecond budget for a single solver call left
// until a wall-clock deadline, never less than floor; kept here since it
// is purely an SMT-query concern.
func TimeoutFor(deadline time.Time, floor time.Duration) int {
	remaining := time.Until(deadline)
	if remaining < floor {
		remaining = floor
	}
	return int(remaining / time.Millisecond)
}
