package orchestrate

import (
	"context"
	"testing"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/equiv"
	"github.com/zkarkit/circuitkit/field"
	"github.com/zkarkit/circuitkit/graphbuild"
)

func lin(terms map[algebra.SignalID]field.Elem) algebra.LinearForm {
	return algebra.NewLinearForm(field.Zero(), terms)
}

// threeNodeStore builds a store with two isomorphic linear nodes (up to
// signal renaming) and one quadratic node that cannot be locally
// equivalent to either.
func threeNodeStore() (*conststore.Store, *graphbuild.DAG) {
	s := conststore.NewStore()
	idA := s.Add(algebra.Constraint{
		A: algebra.ZeroLinear(), B: algebra.ZeroLinear(),
		C: lin(map[algebra.SignalID]field.Elem{1: field.One(), 2: field.PrefixSub(field.One())}),
	})
	idB := s.Add(algebra.Constraint{
		A: algebra.ZeroLinear(), B: algebra.ZeroLinear(),
		C: lin(map[algebra.SignalID]field.Elem{3: field.One(), 4: field.PrefixSub(field.One())}),
	})
	idC := s.Add(algebra.Constraint{
		A: lin(map[algebra.SignalID]field.Elem{5: field.One()}),
		B: lin(map[algebra.SignalID]field.Elem{5: field.One()}),
		C: lin(map[algebra.SignalID]field.Elem{6: field.One()}),
	})

	nodeA := &graphbuild.Node{
		Constraints: []conststore.ConstraintID{idA},
		Signals:     map[algebra.SignalID]bool{1: true, 2: true},
		Inputs:      map[algebra.SignalID]bool{1: true},
		Outputs:     map[algebra.SignalID]bool{2: true},
		Preds:       map[int]bool{}, Succs: map[int]bool{},
	}
	nodeB := &graphbuild.Node{
		Constraints: []conststore.ConstraintID{idB},
		Signals:     map[algebra.SignalID]bool{3: true, 4: true},
		Inputs:      map[algebra.SignalID]bool{3: true},
		Outputs:     map[algebra.SignalID]bool{4: true},
		Preds:       map[int]bool{}, Succs: map[int]bool{},
	}
	nodeC := &graphbuild.Node{
		Constraints: []conststore.ConstraintID{idC},
		Signals:     map[algebra.SignalID]bool{5: true, 6: true},
		Inputs:      map[algebra.SignalID]bool{5: true},
		Outputs:     map[algebra.SignalID]bool{6: true},
		Preds:       map[int]bool{}, Succs: map[int]bool{},
	}
	return s, &graphbuild.DAG{Nodes: []*graphbuild.Node{nodeA, nodeB, nodeC}}
}

func TestLocalEquivalenceGroupsIsomorphicNodes(t *testing.T) {
	store, dag := threeNodeStore()
	classes := LocalEquivalence(store, dag)

	var gotAB, gotC bool
	for _, class := range classes {
		switch len(class) {
		case 2:
			if !((class[0] == 0 && class[1] == 1) || (class[0] == 1 && class[1] == 0)) {
				t.Errorf("expected the size-2 class to be {0,1}, got %+v", class)
			}
			gotAB = true
		case 1:
			if class[0] != 2 {
				t.Errorf("expected the singleton class to be node 2, got %+v", class)
			}
			gotC = true
		default:
			t.Errorf("unexpected class size %d: %+v", len(class), class)
		}
	}
	if !gotAB || !gotC {
		t.Fatalf("expected a {0,1} class and a {2} class, got %+v", classes)
	}
}

func TestStructuralEquivalenceRefinesWithSolver(t *testing.T) {
	store, dag := threeNodeStore()
	local := LocalEquivalence(store, dag)

	refined, err := StructuralEquivalence(context.Background(), store, dag, local, equiv.RefSolver{})
	if err != nil {
		t.Fatalf("StructuralEquivalence: %v", err)
	}
	total := 0
	for _, c := range refined {
		total += len(c)
	}
	if total != 3 {
		t.Fatalf("expected every node to appear exactly once across refined classes, got %d total", total)
	}
}

func TestStructuralEquivalenceDefaultsSolver(t *testing.T) {
	store, dag := threeNodeStore()
	local := LocalEquivalence(store, dag)
	if _, err := StructuralEquivalence(context.Background(), store, dag, local, nil); err != nil {
		t.Fatalf("StructuralEquivalence with nil solver: %v", err)
	}
}
