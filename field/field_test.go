package field

import (
	"math/big"
	"testing"
)

func TestAddSubMul(t *testing.T) {
	a := FromUint64(5)
	b := FromUint64(7)

	if got := Add(a, b); got.BigInt().Cmp(big.NewInt(12)) != 0 {
		t.Errorf("Add: expected 12, got %s", got)
	}
	if got := Mul(a, b); got.BigInt().Cmp(big.NewInt(35)) != 0 {
		t.Errorf("Mul: expected 35, got %s", got)
	}
	if got := Sub(b, a); got.BigInt().Cmp(big.NewInt(2)) != 0 {
		t.Errorf("Sub: expected 2, got %s", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	a := FromUint64(1)
	if _, err := Div(a, Zero()); err != ErrDivisionByZero {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
	if _, err := Inverse(Zero()); err != ErrDivisionByZero {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestToSignedConvention(t *testing.T) {
	// p - 1 is "negative" and should read back as -1.
	pMinus1 := new(big.Int).Sub(Modulus(), big.NewInt(1))
	e := FromBigInt(pMinus1)
	if got := e.ToSigned(); got.Cmp(big.NewInt(-1)) != 0 {
		t.Errorf("expected -1, got %s", got)
	}
	// Small positive values stay positive.
	small := FromUint64(42)
	if got := small.ToSigned(); got.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("expected 42, got %s", got)
	}
}

func TestMultiInv(t *testing.T) {
	elems := []Elem{FromUint64(2), FromUint64(3), FromUint64(5), FromUint64(7)}
	invs := MultiInv(elems)
	for i, e := range elems {
		prod := Mul(e, invs[i])
		if !prod.Equal(One()) {
			t.Errorf("element %d: e*inv(e) != 1, got %s", i, prod)
		}
	}
}

func TestMultiInvZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on zero element")
		}
	}()
	MultiInv([]Elem{FromUint64(1), Zero()})
}

func TestBoolOps(t *testing.T) {
	zero, one := Zero(), One()
	if !BoolAnd(one, one).Equal(one) {
		t.Errorf("1 && 1 should be 1")
	}
	if !BoolAnd(one, zero).Equal(zero) {
		t.Errorf("1 && 0 should be 0")
	}
	if !BoolNot(zero).Equal(one) {
		t.Errorf("!0 should be 1")
	}
	if !BoolLt(FromUint64(3), FromUint64(5)).Equal(one) {
		t.Errorf("3 < 5 should be 1")
	}
}

func TestShiftOutOfRange(t *testing.T) {
	a := FromUint64(1)
	_, err := ShiftL(a, FromUint64(10000))
	if err != ErrShiftRange {
		t.Errorf("expected ErrShiftRange, got %v", err)
	}
}

func TestShiftRoundTrip(t *testing.T) {
	a := FromUint64(16)
	shifted, err := ShiftL(a, FromUint64(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifted.ToSigned().Cmp(big.NewInt(64)) != 0 {
		t.Errorf("expected 64, got %s", shifted.ToSigned())
	}
	back, err := ShiftR(shifted, FromUint64(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Equal(a) {
		t.Errorf("round trip shift mismatch: got %s", back)
	}
}
