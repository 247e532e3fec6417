package circuitio

import (
	"bytes"
	"testing"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/graphbuild"
)

func sampleDAG() *graphbuild.DAG {
	n0 := &graphbuild.Node{
		Constraints: nil,
		Signals:     map[algebra.SignalID]bool{1: true, 2: true},
		Inputs:      map[algebra.SignalID]bool{1: true},
		Outputs:     map[algebra.SignalID]bool{2: true},
		Preds:       map[int]bool{},
		Succs:       map[int]bool{1: true},
	}
	n1 := &graphbuild.Node{
		Constraints: nil,
		Signals:     map[algebra.SignalID]bool{2: true, 3: true},
		Inputs:      map[algebra.SignalID]bool{2: true},
		Outputs:     map[algebra.SignalID]bool{3: true},
		Preds:       map[int]bool{0: true},
		Succs:       map[int]bool{},
	}
	return &graphbuild.DAG{Nodes: []*graphbuild.Node{n0, n1}}
}

func TestBuildAndWriteStructureJSON(t *testing.T) {
	d := sampleDAG()
	doc := BuildStructureJSON(d, [][]int{{0}, {1}}, nil, []TimingEntryJSON{{Phase: "graph", DurationMs: 5}})

	if len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(doc.Nodes))
	}
	if doc.Nodes[0].Successors[0] != 1 {
		t.Errorf("expected node 0's successor to be 1, got %+v", doc.Nodes[0].Successors)
	}

	var buf bytes.Buffer
	if err := WriteStructureJSON(&buf, doc); err != nil {
		t.Fatalf("WriteStructureJSON: %v", err)
	}

	reread, err := ReadStructureJSON(&buf)
	if err != nil {
		t.Fatalf("ReadStructureJSON: %v", err)
	}
	if len(reread.Nodes) != 2 {
		t.Fatalf("round-trip lost a node")
	}
}

func TestStructureJSONToDAG(t *testing.T) {
	d := sampleDAG()
	doc := BuildStructureJSON(d, nil, nil, nil)
	rebuilt := doc.ToDAG()

	if len(rebuilt.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(rebuilt.Nodes))
	}
	if !rebuilt.Nodes[0].Succs[1] {
		t.Errorf("expected node 0 -> node 1 arc to survive the round trip")
	}
	if !rebuilt.Nodes[1].Preds[0] {
		t.Errorf("expected ToDAG to derive node 1's Preds from node 0's Successors")
	}
	if !rebuilt.Nodes[0].Inputs[1] || !rebuilt.Nodes[0].Outputs[2] {
		t.Errorf("expected node 0's input/output signal sets to survive the round trip")
	}
}
