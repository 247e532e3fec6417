package algebra

import (
	"testing"

	"github.com/zkarkit/circuitkit/field"
)

func TestAddLinearCollapsesToNumber(t *testing.T) {
	x := Sig(1)
	negX := Mul(Num(field.PrefixSub(field.One())), x)
	sum := Add(x, negX)
	if sum.Kind != KindNumber || !sum.Number.IsZero() {
		t.Errorf("expected zero Number, got kind=%v val=%v", sum.Kind, sum.Number)
	}
}

func TestMulLinearLinearYieldsQuadratic(t *testing.T) {
	x, y := Sig(1), Sig(2)
	prod := Mul(x, y)
	if prod.Kind != KindQuadratic {
		t.Fatalf("expected Quadratic, got %v", prod.Kind)
	}
	if prod.A.Terms[1].BigInt().Int64() != 1 || prod.B.Terms[2].BigInt().Int64() != 1 {
		t.Errorf("unexpected A/B: %+v %+v", prod.A, prod.B)
	}
}

func TestQuadraticTimesSignalOverflows(t *testing.T) {
	x, y, z := Sig(1), Sig(2), Sig(3)
	q := Mul(x, y)
	cubic := Mul(q, z)
	if cubic.Kind != KindNonQuadratic {
		t.Errorf("expected NonQuadratic, got %v", cubic.Kind)
	}
}

func TestQuadraticPlusQuadraticOverflows(t *testing.T) {
	x, y := Sig(1), Sig(2)
	q1 := Mul(x, y)
	q2 := Mul(x, y)
	sum := Add(q1, q2)
	if sum.Kind != KindNonQuadratic {
		t.Errorf("expected NonQuadratic, got %v", sum.Kind)
	}
}

func TestDivOnlyByNumber(t *testing.T) {
	x, y := Sig(1), Sig(2)
	if got, err := Div(x, y); err != nil || got.Kind != KindNonQuadratic {
		t.Errorf("expected NonQuadratic dividing by a Signal, got %v err=%v", got.Kind, err)
	}
	two := Num(field.FromUint64(2))
	half, err := Div(x, two)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if half.Kind != KindLinear {
		t.Errorf("expected Linear, got %v", half.Kind)
	}
}

func TestClearSignalRoundTrip(t *testing.T) {
	// x - y = 0, clear x: x -> y
	c := Constraint{A: ZeroLinear(), B: ZeroLinear(), C: NewLinearForm(field.Zero(), map[SignalID]field.Elem{
		1: field.One(),
		2: field.PrefixSub(field.One()),
	})}
	sub, err := ClearSignal(c, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.From != 1 {
		t.Fatalf("expected From=1, got %d", sub.From)
	}
	if got := sub.To.Terms[2]; !got.Equal(field.One()) {
		t.Errorf("expected substitution x->y, got %+v", sub.To)
	}

	// Applying the substitution back into the original constraint's C
	// must yield the zero linear expression.
	applied := ApplySubstitutionToConstraint(c, sub)
	if !isZeroLinear(applied.C) {
		t.Errorf("expected zero residual, got %+v", applied.C)
	}
}

func TestNewSubstitutionRejectsCircular(t *testing.T) {
	to := NewLinearForm(field.Zero(), map[SignalID]field.Elem{5: field.One()})
	if _, err := NewSubstitution(5, to); err != ErrCircularSubstitution {
		t.Errorf("expected ErrCircularSubstitution, got %v", err)
	}
}

func TestFixConstraintFoldsConstantA(t *testing.T) {
	// (3)*y - (z) = 0  =>  A is a constant 3, fold into C: C := z - 3*y.
	// Build directly as a Constraint with A holding just a constant.
	a := NewLinearForm(field.FromUint64(3), nil)
	b := SignalOnly(10)
	c := NewLinearForm(field.Zero(), map[SignalID]field.Elem{20: field.One()})
	fixed := FixConstraint(Constraint{A: a, B: b, C: c})
	if !fixed.IsLinear() {
		t.Fatalf("expected linear constraint after folding constant A")
	}
	// Expect C = z - 3*y, i.e. terms[10]=-3, terms[20]=1
	if got := fixed.C.Terms[10]; !got.Equal(field.PrefixSub(field.FromUint64(3))) {
		t.Errorf("expected coefficient -3 on signal 10, got %v", got)
	}
	if got := fixed.C.Terms[20]; !got.Equal(field.One()) {
		t.Errorf("expected coefficient 1 on signal 20, got %v", got)
	}
}

func TestFixConstraintFoldsConstantB(t *testing.T) {
	// x*(5) - z = 0  =>  B is a constant 5, fold into C: C := z - 5*x.
	a := SignalOnly(10)
	b := NewLinearForm(field.FromUint64(5), nil)
	c := NewLinearForm(field.Zero(), map[SignalID]field.Elem{20: field.One()})
	fixed := FixConstraint(Constraint{A: a, B: b, C: c})
	if !fixed.IsLinear() {
		t.Fatalf("expected linear constraint after folding constant B")
	}
	if got := fixed.C.Terms[10]; !got.Equal(field.PrefixSub(field.FromUint64(5))) {
		t.Errorf("expected coefficient -5 on signal 10, got %v", got)
	}
	if got := fixed.C.Terms[20]; !got.Equal(field.One()) {
		t.Errorf("expected coefficient 1 on signal 20, got %v", got)
	}
}

func TestFixConstraintClearsBothWhenEitherEmpty(t *testing.T) {
	// A has real signal terms but B is identically zero (e.g. after
	// substituting B's only signal to 0): x*0 - z = 0 must reduce to the
	// linear constraint z = 0, not stay flagged non-linear.
	a := SignalOnly(10)
	b := ZeroLinear()
	c := NewLinearForm(field.Zero(), map[SignalID]field.Elem{20: field.One()})
	fixed := FixConstraint(Constraint{A: a, B: b, C: c})
	if !fixed.IsLinear() {
		t.Fatalf("expected linear constraint when B is identically zero")
	}
	if !isZeroLinear(fixed.A) || !isZeroLinear(fixed.B) {
		t.Fatalf("expected both A and B cleared, got A=%v B=%v", fixed.A, fixed.B)
	}
	if got := fixed.C.Terms[20]; !got.Equal(field.One()) {
		t.Errorf("expected coefficient 1 on signal 20 (C unchanged), got %v", got)
	}
}

func TestToConstraintFormSignFlip(t *testing.T) {
	x, y, z := Sig(1), Sig(2), Sig(3)
	// x*y - z = 0 as an expression: x*y + (-z)
	expr := Add(Mul(x, y), Mul(Num(field.PrefixSub(field.One())), z))
	c, ok := ToConstraintForm(expr)
	if !ok {
		t.Fatalf("expected ok=true")
	}
	// constraint.C should be +z (since expr's C was -z, and ToConstraintForm negates it)
	if got := c.C.Terms[3]; !got.Equal(field.One()) {
		t.Errorf("expected C[z]=1, got %v", got)
	}
}

func TestAIRSubstitutionExpandsBilinear(t *testing.T) {
	// constraint: x*y = 0 (muls{x,y}=1), substitute x -> 2*w + 1
	c := AIRConstraint{
		Muls:   map[MulKey]field.Elem{NewMulKey(1, 2): field.One()},
		Linear: ZeroLinear(),
	}
	sub, err := NewAIRSubstitution(1, NewLinearForm(field.One(), map[SignalID]field.Elem{3: field.FromUint64(2)}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := ApplyAIRSubstitution(c, sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Expect 2*w*y + 1*y as the expansion of (2w+1)*y
	wy := NewMulKey(3, 2)
	if got := out.Muls[wy]; !got.Equal(field.FromUint64(2)) {
		t.Errorf("expected coefficient 2 on w*y, got %v", got)
	}
	if got := out.Linear.Terms[2]; !got.Equal(field.One()) {
		t.Errorf("expected coefficient 1 on y (from the +1 term), got %v", got)
	}
}
