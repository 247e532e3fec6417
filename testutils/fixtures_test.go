package testutils

import "testing"

func TestClusterCircuitShape(t *testing.T) {
	store, inputs, outputs := ClusterCircuit()
	if len(store.GetIDs()) != 3 {
		t.Fatalf("expected 3 constraints, got %d", len(store.GetIDs()))
	}
	if len(inputs) != 4 {
		t.Errorf("expected 4 inputs, got %d", len(inputs))
	}
	if len(outputs) != 1 || !outputs[7] {
		t.Errorf("expected output {7}, got %+v", outputs)
	}
}

func TestXYZCircuitShape(t *testing.T) {
	store, inputs, outputs := XYZCircuit()
	if len(store.GetIDs()) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(store.GetIDs()))
	}
	c, ok := store.Read(store.GetIDs()[0])
	if !ok || c.IsLinear() {
		t.Fatalf("expected a single quadratic constraint")
	}
	if len(inputs) != 2 || len(outputs) != 1 {
		t.Errorf("expected 2 inputs and 1 output, got %d/%d", len(inputs), len(outputs))
	}
}
