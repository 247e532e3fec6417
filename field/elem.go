package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Elem is a residue in [0,p) where p is the BN254 scalar field order
// 21888242871839275222246405745257275088548364400416034343698204186575808495617.
// It wraps gnark-crypto's Montgomery-form element so that additions,
// multiplications, and inversions run at native field speed; conversions to
// and from math/big are only paid for when an operation genuinely needs the
// signed-representative view (comparisons, shifts, bitwise ops).
type Elem struct {
	v fr.Element
}

// Modulus returns p, the BN254 scalar field order.
func Modulus() *big.Int {
	return fr.Modulus()
}

// Zero returns the additive identity.
func Zero() Elem { return Elem{} }

// One returns the multiplicative identity.
func One() Elem {
	var e Elem
	e.v.SetOne()
	return e
}

// FromUint64 builds an element from a small unsigned constant.
func FromUint64(v uint64) Elem {
	var e Elem
	e.v.SetUint64(v)
	return e
}

// FromBigInt reduces v modulo p and returns the resulting element. v is not
// mutated.
func FromBigInt(v *big.Int) Elem {
	var e Elem
	e.v.SetBigInt(v)
	return e
}

// BigInt writes the unsigned representative (in [0,p)) of e into a fresh
// big.Int and returns it.
func (e Elem) BigInt() *big.Int {
	var out big.Int
	e.v.BigInt(&out)
	return &out
}

// IsZero reports whether e is the zero residue.
func (e Elem) IsZero() bool { return e.v.IsZero() }

// Equal reports structural equality of the two residues.
func (e Elem) Equal(o Elem) bool { return e.v.Equal(&o.v) }

// String renders the unsigned decimal representative.
func (e Elem) String() string { return e.BigInt().String() }

// ToSigned returns the signed representative of e under the convention
// "negative iff v > p/2": to_signed(v) = v if v <= p/2, else v - p.
func (e Elem) ToSigned() *big.Int {
	v := e.BigInt()
	half := new(big.Int).Rsh(Modulus(), 1)
	if v.Cmp(half) > 0 {
		return new(big.Int).Sub(v, Modulus())
	}
	return v
}

// FromSigned reduces an arbitrary signed big.Int into [0,p).
func FromSigned(v *big.Int) Elem {
	m := Modulus()
	r := new(big.Int).Mod(v, m)
	if r.Sign() < 0 {
		r.Add(r, m)
	}
	return FromBigInt(r)
}

// IsNegative reports whether e's signed representative is negative, i.e.
// whether the unsigned residue exceeds p/2.
func (e Elem) IsNegative() bool {
	return e.ToSigned().Sign() < 0
}
