package field

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// MultiInv computes the modular inverse of every element in a in a single
// Montgomery-trick pass (one field inversion instead of len(a)), the way the
// linear-simplification engine's batch pivot normalization needs it. It is
// a thin wrapper over gnark-crypto's own BatchInvert, which implements the
// identical trick.
//
// Precondition: no element of a is the zero residue. Violating this is an
// internal invariant failure (a pivot coefficient can never be zero by
// construction), so MultiInv panics rather than returning an error -
// callers that cannot guarantee the precondition should check with IsZero
// first.
func MultiInv(a []Elem) []Elem {
	raw := make([]fr.Element, len(a))
	for i, e := range a {
		if e.IsZero() {
			panic("field: MultiInv called with a zero element")
		}
		raw[i] = e.v
	}
	inv := fr.BatchInvert(raw)
	out := make([]Elem, len(a))
	for i, e := range inv {
		out[i] = Elem{v: e}
	}
	return out
}
