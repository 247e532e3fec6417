package simplify

import (
	"sort"

	"github.com/zkarkit/circuitkit/algebra"
)

// unionFind is a standard disjoint-set structure over dense small integer
// indices (here, positions into a constraint slice).
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// clusterIndex groups constraint indices into clusters of transitive
// signal-sharing: two constraints land in the same cluster iff there is a
// chain of constraints, each sharing at least one signal with the next,
// connecting them. Clusters partition both the constraint indices and the
// signals they mention, which is what lets the elimination step below run
// each cluster independently and merge results without conflict. Clusters
// are returned in order of their smallest constraint index.
func clusterIndex(cs []algebra.LinearForm) [][]int {
	uf := newUnionFind(len(cs))
	lastSeenAt := map[algebra.SignalID]int{}
	for i, lf := range cs {
		for _, s := range lf.SortedSignals() {
			if lf.Terms[s].IsZero() {
				continue
			}
			if j, ok := lastSeenAt[s]; ok {
				uf.union(i, j)
			}
			lastSeenAt[s] = i
		}
	}

	groups := map[int][]int{}
	for i := range cs {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	out := make([][]int, 0, len(groups))
	for _, idxs := range groups {
		out = append(out, idxs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
