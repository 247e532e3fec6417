package graphbuild

import (
	"sort"

	"github.com/zkarkit/circuitkit/algebra"
)

// passthroughSignals returns the signals a node both receives and emits:
// it is constrained by nothing the node itself does, only routed through.
func passthroughSignals(n *Node) map[algebra.SignalID]bool {
	out := map[algebra.SignalID]bool{}
	for s := range n.Inputs {
		if n.Outputs[s] {
			out[s] = true
		}
	}
	return out
}

// captureCount counts how many of from's passthrough signals an adjacency
// with to would "capture": to already has s as an input or an output, so
// merging from into to absorbs s.
func captureCount(from, to *Node, passthrough map[algebra.SignalID]bool) int {
	n := 0
	for s := range passthrough {
		if to.Inputs[s] || to.Outputs[s] {
			n++
		}
	}
	return n
}

// MergePassthrough greedily collapses passthrough nodes into an adjacent
// node until none remain, per spec.md section 4.5's passthrough-merging
// rule. Each step merges a passthrough node with whichever adjacent node
// captures the most of its passthrough signals (ties broken by the
// smaller node index, for determinism); the spec's more general
// "all nodes on any path between the pair" merge set reduces to the
// adjacent pair itself here since merges always happen across an existing
// arc.
//
// Progress is tracked via a "first unmerged" pointer: if the same node is
// revisited as first-unmerged with no merge having happened anywhere in
// between, the graph is irreducible (ErrIrreducible), matching the fatal
// invariant violation the spec calls out.
func MergePassthrough(d *DAG, circuitInputs, circuitOutputs map[algebra.SignalID]bool) error {
	alive := make([]bool, len(d.Nodes))
	for i := range alive {
		alive[i] = true
	}

	firstUnmerged := -1

	for {
		candidates := make([]int, 0)
		for i, ok := range alive {
			if !ok {
				continue
			}
			if len(passthroughSignals(d.Nodes[i])) > 0 {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			compact(d, alive)
			return nil
		}
		sort.Ints(candidates)

		progressed := false
		for _, u := range candidates {
			if !alive[u] {
				continue
			}
			pt := passthroughSignals(d.Nodes[u])
			best, bestCapture := -1, -1
			neighbors := make([]int, 0, len(d.Nodes[u].Preds)+len(d.Nodes[u].Succs))
			for p := range d.Nodes[u].Preds {
				neighbors = append(neighbors, p)
			}
			for s := range d.Nodes[u].Succs {
				neighbors = append(neighbors, s)
			}
			sort.Ints(neighbors)
			for _, v := range neighbors {
				if !alive[v] {
					continue
				}
				c := captureCount(d.Nodes[u], d.Nodes[v], pt)
				if c > bestCapture {
					best, bestCapture = v, c
				}
			}
			if best == -1 {
				if u == firstUnmerged {
					return ErrIrreducible
				}
				firstUnmerged = u
				continue
			}
			mergeNodes(d, alive, u, best)
			recomputeIO(d, alive, circuitInputs, circuitOutputs)
			d.dropDegenerateArcs()
			progressed = true
			firstUnmerged = -1
			break
		}
		if !progressed {
			return ErrIrreducible
		}
	}
}

// compact drops dead nodes from d.Nodes and remaps every Preds/Succs
// reference to the new, dense index space.
func compact(d *DAG, alive []bool) {
	newIndex := make(map[int]int, len(d.Nodes))
	kept := make([]*Node, 0, len(d.Nodes))
	for i, ok := range alive {
		if !ok {
			continue
		}
		newIndex[i] = len(kept)
		kept = append(kept, d.Nodes[i])
	}
	for _, n := range kept {
		preds := map[int]bool{}
		for p := range n.Preds {
			preds[newIndex[p]] = true
		}
		succs := map[int]bool{}
		for s := range n.Succs {
			succs[newIndex[s]] = true
		}
		n.Preds, n.Succs = preds, succs
	}
	d.Nodes = kept
}

// mergeNodes folds v into u: constraint and signal sets union, predecessor
// and successor lists union (minus the arc between u and v, and minus
// self-loops), and v is marked dead. Every other alive node's Preds/Succs
// referencing v are repointed to u.
func mergeNodes(d *DAG, alive []bool, u, v int) {
	un, vn := d.Nodes[u], d.Nodes[v]

	un.Constraints = append(un.Constraints, vn.Constraints...)
	for s := range vn.Signals {
		un.Signals[s] = true
	}
	delete(un.Preds, v)
	delete(un.Succs, v)

	for p := range vn.Preds {
		if p == u {
			continue
		}
		un.Preds[p] = true
	}
	for s := range vn.Succs {
		if s == u {
			continue
		}
		un.Succs[s] = true
	}

	for i, n := range d.Nodes {
		if !alive[i] || i == u || i == v {
			continue
		}
		if n.Preds[v] {
			delete(n.Preds, v)
			n.Preds[u] = true
		}
		if n.Succs[v] {
			delete(n.Succs, v)
			n.Succs[u] = true
		}
	}

	alive[v] = false
	vn.Constraints, vn.Signals, vn.Preds, vn.Succs = nil, nil, nil, nil
}

// recomputeIO rebuilds every alive node's Inputs/Outputs as the subset of
// its touched signals that either cross the circuit boundary, or are
// shared with a (still alive) predecessor/successor.
func recomputeIO(d *DAG, alive []bool, circuitInputs, circuitOutputs map[algebra.SignalID]bool) {
	for i, n := range d.Nodes {
		if !alive[i] {
			continue
		}
		n.Inputs = map[algebra.SignalID]bool{}
		n.Outputs = map[algebra.SignalID]bool{}
		for s := range n.Signals {
			if circuitInputs[s] {
				n.Inputs[s] = true
			}
			if circuitOutputs[s] {
				n.Outputs[s] = true
			}
		}
		for p := range n.Preds {
			if !alive[p] {
				continue
			}
			for s := range sharedSignals(d.Nodes[p], n) {
				n.Inputs[s] = true
			}
		}
		for q := range n.Succs {
			if !alive[q] {
				continue
			}
			for s := range sharedSignals(n, d.Nodes[q]) {
				n.Outputs[s] = true
			}
		}
	}
}
