package safety

import (
	"context"

	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/graphbuild"
)

// maxAugmentRounds bounds how many times predecessor augmentation grows a
// node's constraint set before giving up with Unknown (spec.md section 4.8,
// "per-node round cap").
const maxAugmentRounds = 8

// bfsPredecessorOrder returns node indices reachable from start by walking
// Preds (node2parent) breadth-first, start excluded, closest predecessors
// first.
func bfsPredecessorOrder(d *graphbuild.DAG, start int) []int {
	visited := map[int]bool{start: true}
	queue := []int{start}
	var order []int
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for p := range d.Nodes[cur].Preds {
			if visited[p] {
				continue
			}
			visited[p] = true
			order = append(order, p)
			queue = append(queue, p)
		}
	}
	return order
}

// AugmentAndVerify runs CheckNode for node idx; on Failed or Unknown it
// incrementally folds in predecessor constraints (BFS order over
// node2parent) and retries, stopping at Verified, at exhausting all
// predecessors, or at maxAugmentRounds.
func AugmentAndVerify(ctx context.Context, store *conststore.Store, d *graphbuild.DAG, idx int, timeoutMillis int, solver Solver) (Result, error) {
	n := d.Nodes[idx]
	status, err := CheckNode(ctx, store, n, timeoutMillis, solver)
	if err != nil {
		return Result{NodeIndex: idx, Status: Unknown}, err
	}
	if status == Verified {
		return Result{NodeIndex: idx, Status: Verified, Rounds: 0}, nil
	}

	preds := bfsPredecessorOrder(d, idx)
	constraints := append([]conststore.ConstraintID{}, n.Constraints...)
	signals := n.Signals
	inputs := n.Inputs
	outputs := n.Outputs

	rounds := 0
	for i := 0; i < len(preds) && rounds < maxAugmentRounds; i++ {
		rounds++
		p := d.Nodes[preds[i]]
		constraints = append(constraints, p.Constraints...)
		signals = unionSignals(signals, p.Signals)
		inputs = unionSignals(inputs, p.Inputs)
		outputs = unionSignals(outputs, p.Outputs)

		iv := DeduceBounds(store, constraints)
		q := BuildQuery(store, constraints, signals, inputs, outputs, iv, timeoutMillis)
		status, err = solver.Solve(ctx, q)
		if err != nil {
			return Result{NodeIndex: idx, Status: Unknown, Rounds: rounds}, err
		}
		if status == Verified {
			return Result{NodeIndex: idx, Status: Verified, Rounds: rounds}, nil
		}
	}
	return Result{NodeIndex: idx, Status: status, Rounds: rounds}, nil
}

// PropagateEquivalence takes the per-node verification results together
// with equivalence classes of nodes discovered to be structurally
// isomorphic (e.g. by package equiv), and marks every member of a class
// Verified as soon as any one member is: verification status is shared
// across an equivalence class (spec.md section 4.8).
func PropagateEquivalence(results map[int]Result, classes [][]int) {
	for _, class := range classes {
		anyVerified := false
		for _, idx := range class {
			if r, ok := results[idx]; ok && r.Status == Verified {
				anyVerified = true
				break
			}
		}
		if !anyVerified {
			continue
		}
		for _, idx := range class {
			r := results[idx]
			if r.Status != Verified {
				r.Status = Verified
				results[idx] = r
			}
		}
	}
}
