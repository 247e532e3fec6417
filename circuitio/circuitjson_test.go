package circuitio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zkarkit/circuitkit/algebra"
)

const xyzCircuitJSON = `{
  "constraints": [
    {"linear": [{"witness": 2, "coeff": "-1"}], "mul": [{"witness1": 0, "witness2": 1, "coeff": "1"}], "constant": "0"}
  ],
  "inputs": [0, 1],
  "outputs": [2],
  "number_of_signals": 3
}`

func TestReadCircuitJSONSingleMulTerm(t *testing.T) {
	c, err := ReadCircuitJSON(strings.NewReader(xyzCircuitJSON))
	if err != nil {
		t.Fatalf("ReadCircuitJSON: %v", err)
	}
	if len(c.AIROverflow) != 0 {
		t.Fatalf("expected no AIR overflow for a single mul term, got %d", len(c.AIROverflow))
	}
	ids := c.Store.GetIDs()
	if len(ids) != 1 {
		t.Fatalf("expected 1 stored constraint, got %d", len(ids))
	}
	cc, _ := c.Store.Read(ids[0])
	if cc.IsLinear() {
		t.Fatalf("expected the single mul term to produce a quadratic constraint")
	}
	if !c.Inputs[algebra.SignalID(1)] || !c.Inputs[algebra.SignalID(2)] {
		t.Errorf("expected signals 1 and 2 to be inputs, got %+v", c.Inputs)
	}
	if !c.Outputs[algebra.SignalID(3)] {
		t.Errorf("expected signal 3 to be an output, got %+v", c.Outputs)
	}
}

func TestReadCircuitJSONMultiMulOverflow(t *testing.T) {
	const doc = `{
  "constraints": [
    {"linear": [], "mul": [
        {"witness1": 0, "witness2": 1, "coeff": "1"},
        {"witness1": 1, "witness2": 2, "coeff": "2"}
      ], "constant": "0"}
  ],
  "inputs": [], "outputs": [], "number_of_signals": 3
}`
	c, err := ReadCircuitJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadCircuitJSON: %v", err)
	}
	if len(c.Store.GetIDs()) != 0 {
		t.Fatalf("expected no single-triple constraint in the store, got %d", len(c.Store.GetIDs()))
	}
	if len(c.AIROverflow) != 1 {
		t.Fatalf("expected the multi-term constraint to land in AIROverflow, got %d", len(c.AIROverflow))
	}
	if len(c.AIROverflow[0].Muls) != 2 {
		t.Errorf("expected 2 distinct mul keys, got %d", len(c.AIROverflow[0].Muls))
	}
}

func TestWriteCircuitJSONRoundTrip(t *testing.T) {
	c, err := ReadCircuitJSON(strings.NewReader(xyzCircuitJSON))
	if err != nil {
		t.Fatalf("ReadCircuitJSON: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCircuitJSON(&buf, c); err != nil {
		t.Fatalf("WriteCircuitJSON: %v", err)
	}

	reread, err := ReadCircuitJSON(&buf)
	if err != nil {
		t.Fatalf("re-reading written circuit json: %v", err)
	}
	if len(reread.Store.GetIDs()) != 1 {
		t.Fatalf("round-trip lost the constraint, got %d", len(reread.Store.GetIDs()))
	}
	if len(reread.Inputs) != 2 || len(reread.Outputs) != 1 {
		t.Errorf("round-trip changed boundary signal counts: inputs=%d outputs=%d", len(reread.Inputs), len(reread.Outputs))
	}
}

func TestMaxSignal(t *testing.T) {
	c, err := ReadCircuitJSON(strings.NewReader(xyzCircuitJSON))
	if err != nil {
		t.Fatalf("ReadCircuitJSON: %v", err)
	}
	if got := c.MaxSignal(); got != 3 {
		t.Errorf("MaxSignal() = %d, want 3", got)
	}
}
