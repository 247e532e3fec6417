package field

import "math/big"

// Add returns a+b mod p.
func Add(a, b Elem) Elem {
	var r Elem
	r.v.Add(&a.v, &b.v)
	return r
}

// Sub returns a-b mod p.
func Sub(a, b Elem) Elem {
	var r Elem
	r.v.Sub(&a.v, &b.v)
	return r
}

// PrefixSub returns -a mod p.
func PrefixSub(a Elem) Elem {
	var r Elem
	r.v.Neg(&a.v)
	return r
}

// Mul returns a*b mod p.
func Mul(a, b Elem) Elem {
	var r Elem
	r.v.Mul(&a.v, &b.v)
	return r
}

// Inverse returns 1/a mod p, or ErrDivisionByZero if a is the zero residue.
func Inverse(a Elem) (Elem, error) {
	if a.IsZero() {
		return Elem{}, ErrDivisionByZero
	}
	var r Elem
	r.v.Inverse(&a.v)
	return r, nil
}

// Div returns a/b mod p via modular inverse.
func Div(a, b Elem) (Elem, error) {
	inv, err := Inverse(b)
	if err != nil {
		return Elem{}, err
	}
	return Mul(a, inv), nil
}

// Pow returns a^k mod p for a nonnegative exponent k.
func Pow(a Elem, k *big.Int) Elem {
	var r Elem
	r.v.Exp(a.v, k)
	return r
}

// IDiv performs integer division on the signed representatives of a and b,
// then reduces the (truncated-towards-zero) quotient back into [0,p).
func IDiv(a, b Elem) (Elem, error) {
	if b.IsZero() {
		return Elem{}, ErrDivisionByZero
	}
	sa, sb := a.ToSigned(), b.ToSigned()
	q := new(big.Int).Quo(sa, sb)
	return FromSigned(q), nil
}

// ModOp performs the modulus operation on the signed representatives of a
// and b (truncated remainder, sign of the dividend), then reduces the
// result back into [0,p).
func ModOp(a, b Elem) (Elem, error) {
	if b.IsZero() {
		return Elem{}, ErrDivisionByZero
	}
	sa, sb := a.ToSigned(), b.ToSigned()
	r := new(big.Int).Rem(sa, sb)
	return FromSigned(r), nil
}

// maxShift bounds the shift amount to the bit-width of the field modulus;
// shifting further is not representable and is surfaced as an error rather
// than silently saturating.
const maxShift = 254

// ShiftL performs an arithmetic left shift on a's signed representative by
// n bits (n itself given as a field element's signed representative).
func ShiftL(a, n Elem) (Elem, error) {
	sn := n.ToSigned()
	if sn.Sign() < 0 {
		return ShiftR(a, FromSigned(new(big.Int).Neg(sn)))
	}
	if !sn.IsInt64() || sn.Int64() > maxShift {
		return Elem{}, ErrShiftRange
	}
	sa := a.ToSigned()
	r := new(big.Int).Lsh(sa, uint(sn.Int64()))
	return FromSigned(r), nil
}

// ShiftR performs an arithmetic right shift on a's signed representative by
// n bits.
func ShiftR(a, n Elem) (Elem, error) {
	sn := n.ToSigned()
	if sn.Sign() < 0 {
		return ShiftL(a, FromSigned(new(big.Int).Neg(sn)))
	}
	if !sn.IsInt64() || sn.Int64() > maxShift {
		return Elem{}, ErrShiftRange
	}
	sa := a.ToSigned()
	r := new(big.Int).Rsh(sa, uint(sn.Int64()))
	return FromSigned(r), nil
}

// complementMask is the all-ones mask over the 256-bit representation used
// by Complement256.
var complementMask = func() *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), 256)
	return m.Sub(m, big.NewInt(1))
}()

// Complement256 returns the bitwise NOT of a's unsigned 256-bit
// representation, reduced modulo p.
func Complement256(a Elem) Elem {
	v := a.BigInt()
	r := new(big.Int).Xor(v, complementMask)
	return FromBigInt(r)
}

// BitOr, BitAnd, BitXor operate on the unsigned 256-bit representations.
func BitOr(a, b Elem) Elem  { return FromBigInt(new(big.Int).Or(a.BigInt(), b.BigInt())) }
func BitAnd(a, b Elem) Elem { return FromBigInt(new(big.Int).And(a.BigInt(), b.BigInt())) }
func BitXor(a, b Elem) Elem { return FromBigInt(new(big.Int).Xor(a.BigInt(), b.BigInt())) }

// truth reports whether a residue is "true", i.e. nonzero mod p.
func truth(a Elem) bool { return !a.IsZero() }

func boolElem(b bool) Elem {
	if b {
		return One()
	}
	return Zero()
}

// BoolAnd, BoolOr, BoolNot implement boolean logic over truth(v) = v != 0,
// returning 0 or 1 encoded as field elements.
func BoolAnd(a, b Elem) Elem { return boolElem(truth(a) && truth(b)) }
func BoolOr(a, b Elem) Elem  { return boolElem(truth(a) || truth(b)) }
func BoolNot(a Elem) Elem    { return boolElem(!truth(a)) }

// BoolEq, BoolNotEq compare residues directly (not signed representatives):
// two residues are equal iff they are the same element of Z/pZ.
func BoolEq(a, b Elem) Elem    { return boolElem(a.Equal(b)) }
func BoolNotEq(a, b Elem) Elem { return boolElem(!a.Equal(b)) }

// BoolLt, BoolLe, BoolGt, BoolGe compare the signed representatives of a
// and b, per the "negative iff > p/2" convention.
func BoolLt(a, b Elem) Elem { return boolElem(a.ToSigned().Cmp(b.ToSigned()) < 0) }
func BoolLe(a, b Elem) Elem { return boolElem(a.ToSigned().Cmp(b.ToSigned()) <= 0) }
func BoolGt(a, b Elem) Elem { return boolElem(a.ToSigned().Cmp(b.ToSigned()) > 0) }
func BoolGe(a, b Elem) Elem { return boolElem(a.ToSigned().Cmp(b.ToSigned()) >= 0) }
