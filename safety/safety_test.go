package safety

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/bounds"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/field"
	"github.com/zkarkit/circuitkit/graphbuild"
)

func lin(constant field.Elem, terms map[algebra.SignalID]field.Elem) algebra.LinearForm {
	return algebra.NewLinearForm(constant, terms)
}

// buildXORStore builds the 1-bit XOR sub-circuit from section 5 of the
// specification: out = in1 + in2 - 2*in1*in2, with boolean integrity
// constraints on in1 and in2.
//
//	in1*(in1-1) = 0
//	in2*(in2-1) = 0
//	(2*in1)*in2 = in1+in2-out
func buildXORStore() (*conststore.Store, []conststore.ConstraintID) {
	const in1, in2, out algebra.SignalID = 1, 2, 3
	s := conststore.NewStore()

	negOne := field.PrefixSub(field.One())
	c0 := algebra.Constraint{
		A: lin(negOne, map[algebra.SignalID]field.Elem{in1: field.One()}),
		B: lin(field.Zero(), map[algebra.SignalID]field.Elem{in1: field.One()}),
		C: algebra.ZeroLinear(),
	}
	c1 := algebra.Constraint{
		A: lin(negOne, map[algebra.SignalID]field.Elem{in2: field.One()}),
		B: lin(field.Zero(), map[algebra.SignalID]field.Elem{in2: field.One()}),
		C: algebra.ZeroLinear(),
	}
	two := field.Add(field.One(), field.One())
	c2 := algebra.Constraint{
		A: lin(field.Zero(), map[algebra.SignalID]field.Elem{in1: two}),
		B: lin(field.Zero(), map[algebra.SignalID]field.Elem{in2: field.One()}),
		C: lin(field.Zero(), map[algebra.SignalID]field.Elem{in1: field.One(), in2: field.One(), out: negOne}),
	}

	var ids []conststore.ConstraintID
	for _, c := range []algebra.Constraint{c0, c1, c2} {
		ids = append(ids, s.Add(c))
	}
	return s, ids
}

func TestDeduceBoundsIntegrityDomainTightensBooleans(t *testing.T) {
	store, ids := buildXORStore()
	iv := DeduceBounds(store, ids)

	for _, s := range []algebra.SignalID{1, 2} {
		b, ok := iv[s]
		if !ok {
			t.Fatalf("signal %d has no deduced bound", s)
		}
		if b.Min.Int64() != 0 || b.Max.Int64() != 1 {
			t.Errorf("signal %d: expected [0,1], got [%s,%s]", s, b.Min, b.Max)
		}
	}
}

func TestDeduceBoundsIsSoundOnXOROutput(t *testing.T) {
	// Interval arithmetic overapproximates the A*B product and loses the
	// in1/in2 correlation, so the deduced bound on `out` may stay loose;
	// soundness (containing the true range {0,1}) is what must hold.
	store, ids := buildXORStore()
	iv := DeduceBounds(store, ids)

	out, ok := iv[3]
	if !ok {
		t.Fatalf("signal 3 (out) has no deduced bound")
	}
	if out.Min.Sign() > 0 || out.Max.Cmp(field.One().ToSigned()) < 0 {
		t.Errorf("deduced bound [%s,%s] does not contain the true range [0,1]", out.Min, out.Max)
	}
}

func TestApplyBoundPropagationTightensLinearOutput(t *testing.T) {
	// x*1 = y with x in [0,5]: A*B=C rewritten as a single-signal C term
	// should tighten y to [0,5].
	const x, y algebra.SignalID = 1, 2
	c := algebra.Constraint{
		A: lin(field.Zero(), map[algebra.SignalID]field.Elem{x: field.One()}),
		B: lin(field.One(), nil),
		C: lin(field.Zero(), map[algebra.SignalID]field.Elem{y: field.One()}),
	}
	p := field.Modulus()
	iv := map[algebra.SignalID]bounds.Interval{x: bounds.Of(0, 5), y: bounds.Interval{Min: big.NewInt(0), Max: new(big.Int).Sub(p, big.NewInt(1))}}

	if !applyBoundPropagation(c, iv, p) {
		t.Fatalf("expected applyBoundPropagation to report a change")
	}
	if iv[y].Min.Int64() != 0 || iv[y].Max.Int64() != 5 {
		t.Errorf("expected y tightened to [0,5], got [%s,%s]", iv[y].Min, iv[y].Max)
	}
}

func TestBuildQueryEmitsOneVarPairPerSignal(t *testing.T) {
	store, ids := buildXORStore()
	iv := DeduceBounds(store, ids)

	signals := map[algebra.SignalID]bool{1: true, 2: true, 3: true}
	inputs := map[algebra.SignalID]bool{1: true, 2: true}
	outputs := map[algebra.SignalID]bool{3: true}

	q := BuildQuery(store, ids, signals, inputs, outputs, iv, 1000)
	if len(q.DeclaredVars) < 2*len(signals) {
		t.Errorf("expected at least %d declared vars (2 per signal), got %d", 2*len(signals), len(q.DeclaredVars))
	}
	if len(q.InputEqs) != 2 {
		t.Errorf("expected 2 input-equality assertions, got %d", len(q.InputEqs))
	}
	if len(q.OutputDiffs) != 1 {
		t.Errorf("expected 1 output-difference disjunct, got %d", len(q.OutputDiffs))
	}
	if len(q.Homologues) != len(ids) {
		t.Errorf("expected %d homologue lemmas, got %d", len(ids), len(q.Homologues))
	}

	var buf bytes.Buffer
	if err := RenderSMT(&buf, q); err != nil {
		t.Fatalf("RenderSMT: %v", err)
	}
	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("check-sat")) {
		t.Errorf("expected rendered query to contain (check-sat), got:\n%s", out)
	}
}

func TestCheckNodeVerifiedOnXOR(t *testing.T) {
	store, ids := buildXORStore()
	n := &graphbuild.Node{
		Constraints: ids,
		Signals:     map[algebra.SignalID]bool{1: true, 2: true, 3: true},
		Inputs:      map[algebra.SignalID]bool{1: true, 2: true},
		Outputs:     map[algebra.SignalID]bool{3: true},
		Preds:       map[int]bool{},
		Succs:       map[int]bool{},
	}
	status, err := CheckNode(context.Background(), store, n, 1000, &StubSolver{})
	if err != nil {
		t.Fatalf("CheckNode: %v", err)
	}
	if status != Verified {
		t.Errorf("expected Verified, got %v", status)
	}
}

func TestAugmentAndVerifyStopsOnFirstVerified(t *testing.T) {
	store, ids := buildXORStore()
	d := &graphbuild.DAG{Nodes: []*graphbuild.Node{
		{
			Constraints: ids[:1],
			Signals:     map[algebra.SignalID]bool{1: true},
			Inputs:      map[algebra.SignalID]bool{1: true},
			Outputs:     map[algebra.SignalID]bool{},
			Preds:       map[int]bool{1: true},
			Succs:       map[int]bool{},
		},
		{
			Constraints: ids[1:],
			Signals:     map[algebra.SignalID]bool{2: true, 3: true},
			Inputs:      map[algebra.SignalID]bool{2: true},
			Outputs:     map[algebra.SignalID]bool{3: true},
			Preds:       map[int]bool{},
			Succs:       map[int]bool{0: true},
		},
	}}

	solver := &StubSolver{Outcomes: []Status{Failed, Verified}}
	res, err := AugmentAndVerify(context.Background(), store, d, 0, 1000, solver)
	if err != nil {
		t.Fatalf("AugmentAndVerify: %v", err)
	}
	if res.Status != Verified {
		t.Errorf("expected Verified after augmentation, got %v", res.Status)
	}
	if res.Rounds != 1 {
		t.Errorf("expected exactly 1 augmentation round, got %d", res.Rounds)
	}
}

func TestPropagateEquivalenceSpreadsVerified(t *testing.T) {
	results := map[int]Result{
		0: {NodeIndex: 0, Status: Verified},
		1: {NodeIndex: 1, Status: Unknown},
		2: {NodeIndex: 2, Status: Failed},
	}
	PropagateEquivalence(results, [][]int{{0, 1}})

	if results[1].Status != Verified {
		t.Errorf("expected node 1 to inherit Verified from its equivalence class, got %v", results[1].Status)
	}
	if results[2].Status != Failed {
		t.Errorf("node 2 is outside the class, expected its status untouched, got %v", results[2].Status)
	}
}
