package simplify

import (
	"testing"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/field"
)

func lin(terms map[algebra.SignalID]field.Elem, constant field.Elem) algebra.LinearForm {
	return algebra.NewLinearForm(constant, terms)
}

func TestSimplifyIdentityOnForbiddenOnly(t *testing.T) {
	// x1 - x2 = 0, both forbidden (e.g. both public): nothing can be
	// eliminated, the constraint must survive unchanged.
	forbidden := map[algebra.SignalID]bool{1: true, 2: true}
	c := lin(map[algebra.SignalID]field.Elem{1: field.One(), 2: field.PrefixSub(field.One())}, field.Zero())

	res, err := Simplify([]algebra.LinearForm{c}, Options{Forbidden: forbidden})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if len(res.Substitutions) != 0 {
		t.Fatalf("expected no substitutions, got %d", len(res.Substitutions))
	}
	if len(res.Surviving) != 1 {
		t.Fatalf("expected 1 surviving constraint, got %d", len(res.Surviving))
	}
}

func TestSimplifyEliminatesSingleSignal(t *testing.T) {
	// 2*x3 - x1 - x2 = 0, x1/x2 forbidden, x3 free: x3 must be eliminated.
	forbidden := map[algebra.SignalID]bool{1: true, 2: true}
	c := lin(map[algebra.SignalID]field.Elem{
		1: field.PrefixSub(field.One()),
		2: field.PrefixSub(field.One()),
		3: field.FromUint64(2),
	}, field.Zero())

	res, err := Simplify([]algebra.LinearForm{c}, Options{Forbidden: forbidden})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if len(res.Surviving) != 0 {
		t.Fatalf("expected no surviving constraints, got %d", len(res.Surviving))
	}
	if len(res.Substitutions) != 1 {
		t.Fatalf("expected 1 substitution, got %d", len(res.Substitutions))
	}
	sub := res.Substitutions[0]
	if sub.From != 3 {
		t.Fatalf("expected signal 3 eliminated, got %d", sub.From)
	}
	// x3 = (x1+x2)/2
	inv2, err := field.Inverse(field.FromUint64(2))
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	want := field.Mul(field.One(), inv2)
	if !sub.To.Terms[1].Equal(want) || !sub.To.Terms[2].Equal(want) {
		t.Errorf("unexpected substitution rhs: %+v", sub.To.Terms)
	}
}

func TestSimplifyClustersAreIndependent(t *testing.T) {
	// Two disjoint clusters: {1,2} and {3,4}. Each should be eliminated
	// independently and both substitutions should appear in the result.
	c1 := lin(map[algebra.SignalID]field.Elem{1: field.One(), 2: field.PrefixSub(field.One())}, field.Zero())
	c2 := lin(map[algebra.SignalID]field.Elem{3: field.One(), 4: field.PrefixSub(field.One())}, field.Zero())

	res, err := Simplify([]algebra.LinearForm{c1, c2}, Options{})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if len(res.Substitutions) != 2 {
		t.Fatalf("expected 2 substitutions, got %d", len(res.Substitutions))
	}
	if len(res.Surviving) != 0 {
		t.Fatalf("expected no surviving constraints, got %d", len(res.Surviving))
	}
}

func TestSimplifyCombinesSharedPivot(t *testing.T) {
	// x1 - x2 = 0 and x1 - x3 = 0 both want to eliminate x1: with 2 and 3
	// forbidden, x1 is the only eligible pivot in each constraint.
	forbidden := map[algebra.SignalID]bool{2: true, 3: true}
	c1 := lin(map[algebra.SignalID]field.Elem{1: field.One(), 2: field.PrefixSub(field.One())}, field.Zero())
	c2 := lin(map[algebra.SignalID]field.Elem{1: field.One(), 3: field.PrefixSub(field.One())}, field.Zero())

	res, err := Simplify([]algebra.LinearForm{c1, c2}, Options{Forbidden: forbidden})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	// x1 eliminated once, and combining the two relations for x1 yields a
	// second constraint x2 - x3 = 0 (both equal x1), which has a free
	// signal (2 or 3, whichever the combine step's heuristic favors) to
	// substitute too, except both are forbidden here, so it must survive.
	if len(res.Surviving) != 1 {
		t.Fatalf("expected 1 surviving constraint (x2-x3=0, unresolvable), got %d: %+v", len(res.Surviving), res.Surviving)
	}
	if len(res.Substitutions) != 1 {
		t.Fatalf("expected 1 substitution (x1), got %d", len(res.Substitutions))
	}
	if res.Substitutions[0].From != 1 {
		t.Errorf("expected signal 1 eliminated, got %d", res.Substitutions[0].From)
	}
}

func TestSignalMapPinnedOrdering(t *testing.T) {
	surviving := map[algebra.SignalID]bool{5: true, 2: true, 9: true}
	m := NewSignalMap(surviving, []algebra.SignalID{9})
	n9, ok := m.Map(9)
	if !ok || n9 != 1 {
		t.Errorf("expected pinned signal 9 to map to 1, got %d, ok=%v", n9, ok)
	}
	n2, _ := m.Map(2)
	n5, _ := m.Map(5)
	if n2 >= n5 {
		t.Errorf("expected remaining signals in ascending original-id order, got 2->%d 5->%d", n2, n5)
	}
	if m.Len() != 3 {
		t.Errorf("expected 3 mapped signals, got %d", m.Len())
	}
}

func TestSimplifyOnlyPlonkKeepsWideConstraintSurviving(t *testing.T) {
	// w + x + y + z = 0: four non-constant terms, so eliminating any one of
	// them would leave three on the RHS, exceeding PLONK's two-term limit.
	// With OnlyPlonk set the constraint must survive untouched.
	c := lin(map[algebra.SignalID]field.Elem{
		1: field.One(), 2: field.One(), 3: field.One(), 4: field.One(),
	}, field.Zero())

	res, err := Simplify([]algebra.LinearForm{c}, Options{OnlyPlonk: true})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if len(res.Substitutions) != 0 {
		t.Fatalf("expected no substitutions under OnlyPlonk, got %d", len(res.Substitutions))
	}
	if len(res.Surviving) != 1 {
		t.Fatalf("expected the wide constraint to survive, got %d surviving", len(res.Surviving))
	}
}

func TestSimplifyOnlyPlonkEliminatesNarrowConstraint(t *testing.T) {
	// x + y - z = 0: eliminating z leaves exactly two RHS terms (x, y),
	// which is PLONK-eligible.
	z := algebra.SignalID(3)
	c := lin(map[algebra.SignalID]field.Elem{
		1: field.One(), 2: field.One(), z: field.PrefixSub(field.One()),
	}, field.Zero())

	res, err := Simplify([]algebra.LinearForm{c}, Options{OnlyPlonk: true})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if len(res.Surviving) != 0 {
		t.Fatalf("expected no surviving constraints, got %d", len(res.Surviving))
	}
	if len(res.Substitutions) != 1 {
		t.Fatalf("expected exactly one substitution, got %d", len(res.Substitutions))
	}
}

// TestRunKeepsForbiddenOutputEvenWhenStoreEndsUpEmpty mirrors spec.md
// section 8 scenario 1: x - y = 0, y - z = 0, forbidden = {z}. Both
// constraints are purely linear and fully eliminate into the substitution
// chain x -> z, y -> z, so the non-linear store never holds a constraint
// mentioning z. The returned SignalMap must still carry z, not drop it.
func TestRunKeepsForbiddenOutputEvenWhenStoreEndsUpEmpty(t *testing.T) {
	x, y, z := algebra.SignalID(1), algebra.SignalID(2), algebra.SignalID(3)
	store := conststore.NewStore()
	store.Add(algebra.Constraint{
		A: algebra.ZeroLinear(), B: algebra.ZeroLinear(),
		C: lin(map[algebra.SignalID]field.Elem{x: field.One(), y: field.PrefixSub(field.One())}, field.Zero()),
	})
	store.Add(algebra.Constraint{
		A: algebra.ZeroLinear(), B: algebra.ZeroLinear(),
		C: lin(map[algebra.SignalID]field.Elem{y: field.One(), z: field.PrefixSub(field.One())}, field.Zero()),
	})

	forbidden := map[algebra.SignalID]bool{z: true}
	_, sm, err := Run(store, Options{Forbidden: forbidden})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sm.Len() != 1 {
		t.Fatalf("expected exactly the forbidden signal z in the signal map, got Len()=%d", sm.Len())
	}
	newZ, ok := sm.Map(z)
	if !ok || newZ != 1 {
		t.Errorf("expected z to map to 1, got %d, ok=%v", newZ, ok)
	}
	if store.Len() != 0 {
		t.Errorf("expected the non-linear store to end up empty, got %d constraints", store.Len())
	}
}
