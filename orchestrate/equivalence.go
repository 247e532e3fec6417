package orchestrate

import (
	"context"
	"fmt"

	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/equiv"
	"github.com/zkarkit/circuitkit/fingerprint"
	"github.com/zkarkit/circuitkit/graphbuild"
)

// nodeView builds the fingerprint.CircuitView for one DAG node's own
// constraint set.
func nodeView(store *conststore.Store, n *graphbuild.Node) fingerprint.CircuitView {
	var norms []fingerprint.NormalizedConstraint
	for _, id := range n.Constraints {
		c, ok := store.Read(id)
		if !ok {
			continue
		}
		norms = append(norms, fingerprint.Normalize(id, c))
	}
	return fingerprint.CircuitView{
		Norms:   norms,
		Inputs:  n.Inputs,
		Outputs: n.Outputs,
		Signals: n.Signals,
	}
}

// localSignature reduces circuit ci's converged coloring in e to a
// hashable string: its constraint colors and signal colors, each with its
// class size. Every node is refined by the same engine, sharing one intern
// table, so two nodes with an identical signature are locally
// indistinguishable - candidates for the same equivalence class, subject
// to the structural refinement pass below (spec.md section 4.6's per-node
// node-equivalence use of the engine).
func localSignature(e *fingerprint.Engine, ci int) string {
	return fmt.Sprintf("c=%v;s=%v", e.ConstraintClassSizes(ci), e.SignalClassSizes(ci))
}

// LocalEquivalence runs one color-refinement pass over all DAG nodes (one
// circuit view per node) and groups nodes sharing an identical signature
// (spec.md section 4.9's "local" mode).
func LocalEquivalence(store *conststore.Store, d *graphbuild.DAG) [][]int {
	views := make([]fingerprint.CircuitView, len(d.Nodes))
	for i, n := range d.Nodes {
		views[i] = nodeView(store, n)
	}
	e := fingerprint.NewEngine(views)
	e.Run()

	bySig := map[string][]int{}
	order := make([]string, 0, len(d.Nodes))
	for i := range d.Nodes {
		sig := localSignature(e, i)
		if _, ok := bySig[sig]; !ok {
			order = append(order, sig)
		}
		bySig[sig] = append(bySig[sig], i)
	}
	classes := make([][]int, 0, len(order))
	for _, sig := range order {
		classes = append(classes, bySig[sig])
	}
	return classes
}

// StructuralEquivalence refines each local class by pairwise isomorphism
// checks (spec.md section 4.7): each node of a local class is compared,
// via the 2-circuit refinement engine and equiv.Compare, with the first
// member of every group formed so far in that class; it joins the first
// group judged equivalent, or starts a new group. solver defaults to equiv.RefSolver{} (the
// reference DPLL solver) when nil, since a production CDCL backend is an
// external collaborator per spec.md section 1.
func StructuralEquivalence(ctx context.Context, store *conststore.Store, d *graphbuild.DAG, localClasses [][]int, solver equiv.Solver) ([][]int, error) {
	if solver == nil {
		solver = equiv.RefSolver{}
	}

	var refined [][]int
	for _, class := range localClasses {
		if len(class) == 1 {
			refined = append(refined, class)
			continue
		}
		groups := [][]int{{class[0]}}
		for _, idx := range class[1:] {
			placed := false
			for gi, g := range groups {
				rep := g[0]
				eq, err := nodesEquivalent(ctx, store, d, rep, idx, solver)
				if err != nil {
					return nil, err
				}
				if eq {
					groups[gi] = append(groups[gi], idx)
					placed = true
					break
				}
			}
			if !placed {
				groups = append(groups, []int{idx})
			}
		}
		refined = append(refined, groups...)
	}
	return refined, nil
}

func nodesEquivalent(ctx context.Context, store *conststore.Store, d *graphbuild.DAG, left, right int, solver equiv.Solver) (bool, error) {
	leftView := nodeView(store, d.Nodes[left])
	rightView := nodeView(store, d.Nodes[right])
	e := fingerprint.NewEngine([]fingerprint.CircuitView{leftView, rightView})
	e.Run()

	result, err := equiv.Compare(ctx, e, leftView.Norms, rightView.Norms, solver)
	if err != nil {
		return false, fmt.Errorf("orchestrate: comparing nodes %d and %d: %w", left, right, err)
	}
	return result.Equivalent, nil
}

// classIndexByNode inverts a class partition into a node->class-index
// lookup, used to feed safety.PropagateEquivalence.
func classIndexByNode(classes [][]int) map[int]int {
	out := map[int]int{}
	for ci, class := range classes {
		for _, n := range class {
			out[n] = ci
		}
	}
	return out
}
