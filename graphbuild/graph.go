package graphbuild

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
)

// SignalGraph is the weighted, undirected constraint-sharing graph: one
// node per constraint, an edge (i,j) weighted by the number of signals
// constraints i and j have in common.
type SignalGraph struct {
	g        *simple.WeightedUndirectedGraph
	NodeByID map[conststore.ConstraintID]int64
	IDByNode map[int64]conststore.ConstraintID
}

// BuildSignalGraph inverts the constraint->signals relation into
// signal->constraints, then for every signal accumulates edge weight across
// every unordered pair of constraints that mention it, per spec.md section
// 4.5's construction recipe.
func BuildSignalGraph(store *conststore.Store) *SignalGraph {
	ids := store.GetIDs()
	sg := &SignalGraph{
		g:        simple.NewWeightedUndirectedGraph(0, 0),
		NodeByID: make(map[conststore.ConstraintID]int64, len(ids)),
		IDByNode: make(map[int64]conststore.ConstraintID, len(ids)),
	}

	for i, id := range ids {
		n := int64(i)
		sg.NodeByID[id] = n
		sg.IDByNode[n] = id
		sg.g.AddNode(simple.Node(n))
	}

	signalToConstraints := map[algebra.SignalID][]conststore.ConstraintID{}
	for _, id := range ids {
		c, _ := store.Read(id)
		seen := map[algebra.SignalID]bool{}
		for _, l := range []algebra.LinearForm{c.A, c.B, c.C} {
			for s, coef := range l.Terms {
				if coef.IsZero() || s == algebra.ConstSignal || seen[s] {
					continue
				}
				seen[s] = true
				signalToConstraints[s] = append(signalToConstraints[s], id)
			}
		}
	}

	weight := map[[2]int64]float64{}
	for _, members := range signalToConstraints {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := sg.NodeByID[members[i]], sg.NodeByID[members[j]]
				weight[[2]int64{a, b}]++
			}
		}
	}

	for pair, w := range weight {
		sg.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(pair[0]), T: simple.Node(pair[1]), W: w})
	}

	return sg
}

// Graph exposes the underlying gonum graph for a Partitioner to consume.
func (sg *SignalGraph) Graph() *simple.WeightedUndirectedGraph { return sg.g }

// NumEdges returns |E|, used to pick the partitioner's resolution.
func (sg *SignalGraph) NumEdges() int {
	return sg.g.Edges().Len()
}

// NumNodes returns the number of constraint-nodes in the graph.
func (sg *SignalGraph) NumNodes() int {
	return sg.g.Nodes().Len()
}
