package graphbuild

import (
	"errors"
	"sort"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
)

// ErrIrreducible is returned when the passthrough merger cannot make
// progress: a node re-surfaces as "first unmerged" with no merge having
// happened since it was first marked, which spec.md section 4.5 calls a
// fatal invariant violation.
var ErrIrreducible = errors.New("graphbuild: passthrough merge made no progress, graph is irreducible")

// Node is one part of the lifted DAG: a group of constraints, the signals
// they touch, and the subset of those signals flowing in from / out to
// other parts (or the circuit boundary).
type Node struct {
	Constraints []conststore.ConstraintID
	Signals     map[algebra.SignalID]bool
	Inputs      map[algebra.SignalID]bool
	Outputs     map[algebra.SignalID]bool
	Preds       map[int]bool
	Succs       map[int]bool
}

func newNode() *Node {
	return &Node{
		Signals: map[algebra.SignalID]bool{},
		Inputs:  map[algebra.SignalID]bool{},
		Outputs: map[algebra.SignalID]bool{},
		Preds:   map[int]bool{},
		Succs:   map[int]bool{},
	}
}

// DAG is the lifted, acyclic graph of sub-circuits.
type DAG struct {
	Nodes []*Node
}

// sharedSignals returns the signals two nodes' touched-signal sets have in
// common.
func sharedSignals(a, b *Node) map[algebra.SignalID]bool {
	out := map[algebra.SignalID]bool{}
	for s := range a.Signals {
		if b.Signals[s] {
			out[s] = true
		}
	}
	return out
}

// LiftToDAG builds the initial per-part node set from a partition, then
// labels and merges parts by (distance-from-inputs, distance-to-outputs)
// until every adjacent pair of parts has a distinct label, orienting arcs
// by the resulting partial order (spec.md section 4.5, "DAG lift").
func LiftToDAG(store *conststore.Store, parts [][]conststore.ConstraintID, circuitInputs, circuitOutputs map[algebra.SignalID]bool) (*DAG, error) {
	nodes := make([]*Node, len(parts))
	for i, part := range parts {
		n := newNode()
		n.Constraints = append(n.Constraints, part...)
		for _, id := range part {
			c, ok := store.Read(id)
			if !ok {
				continue
			}
			for _, l := range []algebra.LinearForm{c.A, c.B, c.C} {
				for s, coef := range l.Terms {
					if coef.IsZero() || s == algebra.ConstSignal {
						continue
					}
					n.Signals[s] = true
				}
			}
		}
		nodes[i] = n
	}

	adj := buildPartAdjacency(nodes)

	for {
		inParts, outParts := boundaryParts(nodes, circuitInputs, circuitOutputs)
		dIn := bfsDistance(adj, inParts)
		dOut := bfsDistance(adj, outParts)

		uf := newUnionFind(len(nodes))
		merged := false
		for u := range adj {
			for v := range adj[u] {
				if v <= u {
					continue
				}
				if dIn[u] == dIn[v] && dOut[u] == dOut[v] {
					uf.union(u, v)
					merged = true
				}
			}
		}
		if !merged {
			break
		}
		nodes, adj = collapseByUnionFind(nodes, adj, uf)
	}

	inParts, outParts := boundaryParts(nodes, circuitInputs, circuitOutputs)
	dIn := bfsDistance(adj, inParts)
	dOut := bfsDistance(adj, outParts)

	for u := range adj {
		for v := range adj[u] {
			if v <= u {
				continue
			}
			p, q := u, v
			if !labelLess(dIn[u], dOut[u], dIn[v], dOut[v]) {
				p, q = v, u
			}
			shared := sharedSignals(nodes[p], nodes[q])
			for s := range shared {
				nodes[p].Outputs[s] = true
				nodes[q].Inputs[s] = true
			}
			nodes[p].Succs[q] = true
			nodes[q].Preds[p] = true
		}
	}

	for i, n := range nodes {
		for s := range n.Signals {
			if circuitInputs[s] {
				n.Inputs[s] = true
			}
			if circuitOutputs[s] {
				n.Outputs[s] = true
			}
		}
		_ = i
	}

	return &DAG{Nodes: nodes}, nil
}

// labelLess implements the partial order (x0,x1) < (y0,y1) iff x0<y0, or
// x0=y0 and x1>y1 (closer to inputs first, ties broken by farther from
// outputs).
func labelLess(x0, x1, y0, y1 int) bool {
	if x0 != y0 {
		return x0 < y0
	}
	return x1 > y1
}

func buildPartAdjacency(nodes []*Node) map[int]map[int]bool {
	adj := make(map[int]map[int]bool, len(nodes))
	for i := range nodes {
		adj[i] = map[int]bool{}
	}
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if len(sharedSignals(nodes[i], nodes[j])) > 0 {
				adj[i][j] = true
				adj[j][i] = true
			}
		}
	}
	return adj
}

func boundaryParts(nodes []*Node, inputs, outputs map[algebra.SignalID]bool) (in, out map[int]bool) {
	in, out = map[int]bool{}, map[int]bool{}
	for i, n := range nodes {
		for s := range n.Signals {
			if inputs[s] {
				in[i] = true
			}
			if outputs[s] {
				out[i] = true
			}
		}
	}
	return in, out
}

// bfsDistance computes, for every node, its shortest undirected distance
// (over adj) to the nearest node in sources. Unreachable nodes get the
// sentinel len(adj)+1, larger than any real distance, which still orders
// consistently since it's applied uniformly.
func bfsDistance(adj map[int]map[int]bool, sources map[int]bool) map[int]int {
	dist := make(map[int]int, len(adj))
	queue := make([]int, 0, len(sources))
	for s := range sources {
		dist[s] = 0
		queue = append(queue, s)
	}
	sort.Ints(queue)
	for i := 0; i < len(queue); i++ {
		u := queue[i]
		for v := range adj[u] {
			if _, seen := dist[v]; seen {
				continue
			}
			dist[v] = dist[u] + 1
			queue = append(queue, v)
		}
	}
	sentinel := len(adj) + 1
	for n := range adj {
		if _, ok := dist[n]; !ok {
			dist[n] = sentinel
		}
	}
	return dist
}

// collapseByUnionFind merges nodes sharing a union-find root into one node
// each, re-deriving the collapsed adjacency.
func collapseByUnionFind(nodes []*Node, adj map[int]map[int]bool, uf *unionFind) ([]*Node, map[int]map[int]bool) {
	rootOf := make([]int, len(nodes))
	groups := map[int][]int{}
	for i := range nodes {
		r := uf.find(i)
		rootOf[i] = r
		groups[r] = append(groups[r], i)
	}

	roots := make([]int, 0, len(groups))
	for r := range groups {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	newIndex := make(map[int]int, len(roots))
	newNodes := make([]*Node, len(roots))
	for ni, r := range roots {
		newIndex[r] = ni
		merged := newNode()
		for _, old := range groups[r] {
			merged.Constraints = append(merged.Constraints, nodes[old].Constraints...)
			for s := range nodes[old].Signals {
				merged.Signals[s] = true
			}
		}
		newNodes[ni] = merged
	}

	newAdj := make(map[int]map[int]bool, len(newNodes))
	for i := range newNodes {
		newAdj[i] = map[int]bool{}
	}
	for u := range adj {
		for v := range adj[u] {
			nu, nv := newIndex[rootOf[u]], newIndex[rootOf[v]]
			if nu == nv {
				continue
			}
			newAdj[nu][nv] = true
			newAdj[nv][nu] = true
		}
	}

	return newNodes, newAdj
}

// dropDegenerateArcs removes arcs whose shared-signal set turned out empty
// (e.g. after a merge elsewhere stripped away every signal an arc used to
// carry) and the corresponding Preds/Succs bookkeeping, the DAG-construction
// sanity pass original_source's dag_postprocessing.rs performs after every
// merge.
func (d *DAG) dropDegenerateArcs() {
	for p, pn := range d.Nodes {
		for q := range pn.Succs {
			qn := d.Nodes[q]
			if len(sharedSignals(pn, qn)) == 0 {
				delete(pn.Succs, q)
				delete(qn.Preds, p)
			}
		}
		_ = p
	}
}
