package circuitio

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/graphbuild"
)

// NodeInfoJSON is one entry of the Structure JSON's node array (spec.md
// section 6).
type NodeInfoJSON struct {
	NodeID        int      `json:"node_id"`
	Constraints   []uint64 `json:"constraints"`
	InputSignals  []uint64 `json:"input_signals"`
	OutputSignals []uint64 `json:"output_signals"`
	Signals       []uint64 `json:"signals"`
	Successors    []int    `json:"successors"`
}

// TimingEntryJSON is one (phase, duration) pair. Duration is recorded in
// milliseconds, ordered the way the phases actually ran (spec.md section
// 9's supplemented "ordered slice of (Phase, time.Duration) pairs" rather
// than an unordered map).
type TimingEntryJSON struct {
	Phase      string `json:"phase"`
	DurationMs int64  `json:"duration_ms"`
}

// StructureJSON is the decomposition-to-verification bridge document.
type StructureJSON struct {
	Nodes                 []NodeInfoJSON    `json:"nodes"`
	EquivalencyLocal      [][]int           `json:"equivalency_local,omitempty"`
	EquivalencyStructural  [][]int          `json:"equivalency_structural,omitempty"`
	Timings               []TimingEntryJSON `json:"timings,omitempty"`
	InitialComponentOf    map[string]int    `json:"initial_component_of,omitempty"`
}

func sortedUint64(m map[algebra.SignalID]bool) []uint64 {
	out := make([]uint64, 0, len(m))
	for s := range m {
		out = append(out, uint64(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BuildStructureJSON assembles a StructureJSON document from a lifted DAG,
// the two equivalence partitions (each a list of node-index classes; pass
// nil to omit a partition), and a phase timing table.
func BuildStructureJSON(d *graphbuild.DAG, equivLocal, equivStructural [][]int, timings []TimingEntryJSON) *StructureJSON {
	doc := &StructureJSON{
		EquivalencyLocal:      equivLocal,
		EquivalencyStructural: equivStructural,
		Timings:               timings,
	}
	for i, n := range d.Nodes {
		cids := make([]uint64, len(n.Constraints))
		for j, id := range n.Constraints {
			cids[j] = uint64(id)
		}
		succs := make([]int, 0, len(n.Succs))
		for s := range n.Succs {
			succs = append(succs, s)
		}
		sort.Ints(succs)
		doc.Nodes = append(doc.Nodes, NodeInfoJSON{
			NodeID:        i,
			Constraints:   cids,
			InputSignals:  sortedUint64(n.Inputs),
			OutputSignals: sortedUint64(n.Outputs),
			Signals:       sortedUint64(n.Signals),
			Successors:    succs,
		})
	}
	return doc
}

// WriteStructureJSON encodes doc.
func WriteStructureJSON(w io.Writer, doc *StructureJSON) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("circuitio: encode structure json: %w", err)
	}
	return nil
}

// ReadStructureJSON decodes a Structure JSON document.
func ReadStructureJSON(r io.Reader) (*StructureJSON, error) {
	var doc StructureJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("circuitio: decode structure json: %w", err)
	}
	return &doc, nil
}

// ToDAG reconstructs a graphbuild.DAG skeleton from a StructureJSON
// document - constraint sets, signal sets, and successor arcs only
// (predecessor sets are derived from the successor arcs, since the wire
// format only carries one direction).
func (doc *StructureJSON) ToDAG() *graphbuild.DAG {
	nodes := make([]*graphbuild.Node, len(doc.Nodes))
	for i, nj := range doc.Nodes {
		n := &graphbuild.Node{
			Signals: map[algebra.SignalID]bool{},
			Inputs:  map[algebra.SignalID]bool{},
			Outputs: map[algebra.SignalID]bool{},
			Preds:   map[int]bool{},
			Succs:   map[int]bool{},
		}
		for _, id := range nj.Constraints {
			n.Constraints = append(n.Constraints, conststore.ConstraintID(id))
		}
		for _, s := range nj.Signals {
			n.Signals[algebra.SignalID(s)] = true
		}
		for _, s := range nj.InputSignals {
			n.Inputs[algebra.SignalID(s)] = true
		}
		for _, s := range nj.OutputSignals {
			n.Outputs[algebra.SignalID(s)] = true
		}
		nodes[i] = n
	}
	for i, nj := range doc.Nodes {
		for _, succ := range nj.Successors {
			nodes[i].Succs[succ] = true
			nodes[succ].Preds[i] = true
		}
	}
	return &graphbuild.DAG{Nodes: nodes}
}
