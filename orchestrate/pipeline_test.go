package orchestrate

import (
	"context"
	"testing"
	"time"

	"github.com/zkarkit/circuitkit/graphbuild"
	"github.com/zkarkit/circuitkit/safety"
	"github.com/zkarkit/circuitkit/testutils"
)

// singletonPartitioner puts every constraint in its own part, mirroring
// graphbuild's own test helper, to keep DAG-lift shape independent of
// gonum's modularity optimizer's actual clustering choices.
type singletonPartitioner struct{}

func (singletonPartitioner) Partition(sg *graphbuild.SignalGraph, _ float64) ([][]int64, error) {
	out := make([][]int64, 0, sg.NumNodes())
	it := sg.Graph().Nodes()
	for it.Next() {
		out = append(out, []int64{it.Node().ID()})
	}
	return out, nil
}

func TestRunLocalModeEndToEnd(t *testing.T) {
	store, inputs, outputs := testutils.ClusterCircuit()

	res, err := Run(context.Background(), store, inputs, outputs, Options{
		Partitioner: singletonPartitioner{},
		Mode:        ModeLocal,
		Now:         fixedClock(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Substitutions) != 1 {
		t.Fatalf("expected the linear constraint z+c-w=0 to yield exactly one substitution, got %d", len(res.Substitutions))
	}
	if res.EquivalencyStructural != nil {
		t.Errorf("ModeLocal should not populate EquivalencyStructural, got %+v", res.EquivalencyStructural)
	}
	if len(res.EquivalencyLocal) == 0 {
		t.Errorf("expected a non-empty local equivalence partition")
	}

	wantPhases := []Phase{PhaseSimplify, PhaseGraph, PhasePartition, PhaseDAGLift, PhasePassthru, PhaseFingerprintLocal}
	if len(res.Timings) != len(wantPhases) {
		t.Fatalf("expected %d timing entries, got %d: %+v", len(wantPhases), len(res.Timings), res.Timings)
	}
	for i, p := range wantPhases {
		if res.Timings[i].Phase != p {
			t.Errorf("Timings[%d].Phase = %q, want %q", i, res.Timings[i].Phase, p)
		}
	}
}

func TestRunWithSafetySolver(t *testing.T) {
	store, inputs, outputs := testutils.ClusterCircuit()

	res, err := Run(context.Background(), store, inputs, outputs, Options{
		Partitioner:         singletonPartitioner{},
		Mode:                ModeLocal,
		SafetySolver:        &safety.StubSolver{},
		SafetyTimeoutMillis: 1000,
		Now:                 fixedClock(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.SafetyResults) != len(res.DAG.Nodes) {
		t.Fatalf("expected one safety result per DAG node, got %d for %d nodes", len(res.SafetyResults), len(res.DAG.Nodes))
	}
	foundVerify := false
	for _, te := range res.Timings {
		if te.Phase == PhaseVerify {
			foundVerify = true
		}
	}
	if !foundVerify {
		t.Errorf("expected a verify phase timing entry when SafetySolver is set")
	}
}

// fixedClock returns a deterministic, monotonically advancing clock so
// Timings entries have reproducible (non-zero) durations in tests.
func fixedClock() func() time.Time {
	tick := time.Unix(1700000000, 0)
	return func() time.Time {
		cur := tick
		tick = tick.Add(time.Millisecond)
		return cur
	}
}
