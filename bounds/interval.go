package bounds

import "math/big"

// Interval is an inclusive bound [Min,Max] on a signal's signed
// representative value.
type Interval struct {
	Min, Max *big.Int
}

// Single returns a degenerate interval containing exactly v.
func Single(v *big.Int) Interval {
	return Interval{Min: new(big.Int).Set(v), Max: new(big.Int).Set(v)}
}

// Of constructs an interval from int64 bounds, for tests and small
// constants (e.g. the constant signal 0, always [1,1]).
func Of(min, max int64) Interval {
	return Interval{Min: big.NewInt(min), Max: big.NewInt(max)}
}

// Width returns Max-Min.
func (iv Interval) Width() *big.Int {
	return new(big.Int).Sub(iv.Max, iv.Min)
}

// Add returns the interval of x+y for x in a, y in b.
func Add(a, b Interval) Interval {
	return Interval{
		Min: new(big.Int).Add(a.Min, b.Min),
		Max: new(big.Int).Add(a.Max, b.Max),
	}
}

// Sub returns the interval of x-y for x in a, y in b.
func Sub(a, b Interval) Interval {
	return Interval{
		Min: new(big.Int).Sub(a.Min, b.Max),
		Max: new(big.Int).Sub(a.Max, b.Min),
	}
}

// Neg returns the interval of -x for x in a.
func Neg(a Interval) Interval {
	return Interval{Min: new(big.Int).Neg(a.Max), Max: new(big.Int).Neg(a.Min)}
}

// Scale returns the interval of k*x for x in a, k a fixed signed constant.
func Scale(a Interval, k *big.Int) Interval {
	lo := new(big.Int).Mul(a.Min, k)
	hi := new(big.Int).Mul(a.Max, k)
	if lo.Cmp(hi) > 0 {
		lo, hi = hi, lo
	}
	return Interval{Min: lo, Max: hi}
}

// Mul returns the interval of x*y for x in a, y in b, by taking the min/max
// over all four corner products (sound for arbitrary-sign intervals).
func Mul(a, b Interval) Interval {
	corners := [4]*big.Int{
		new(big.Int).Mul(a.Min, b.Min),
		new(big.Int).Mul(a.Min, b.Max),
		new(big.Int).Mul(a.Max, b.Min),
		new(big.Int).Mul(a.Max, b.Max),
	}
	min, max := corners[0], corners[0]
	for _, c := range corners[1:] {
		if c.Cmp(min) < 0 {
			min = c
		}
		if c.Cmp(max) > 0 {
			max = c
		}
	}
	return Interval{Min: min, Max: max}
}

// DivFloor returns the interval of floor-division by the positive constant
// p, rounded outward (Min floors down, Max rounds up), used to bound the
// modular-reduction multiplier k = (A*B-C)/p in the SMT encoding.
func DivFloor(a Interval, p *big.Int) Interval {
	lo := floorDiv(a.Min, p)
	hi := ceilDiv(a.Max, p)
	return Interval{Min: lo, Max: hi}
}

func floorDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
	}
	return q
}

func ceilDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) == (b.Sign() < 0) {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// SameResidueClass reports whether a's Min and Max raw integers fall in the
// same floor(./p) bucket, i.e. whether an inferred bound is a single
// residue class modulo p rather than spanning a modular wraparound.
func SameResidueClass(a Interval, p *big.Int) bool {
	return floorDiv(a.Min, p).Cmp(floorDiv(a.Max, p)) == 0
}

// LiftToField translates an interval known to lie in a single residue
// class back into [0,p) by subtracting floor(Min/p)*p from both ends.
func LiftToField(a Interval, p *big.Int) Interval {
	k := floorDiv(a.Min, p)
	offset := new(big.Int).Mul(k, p)
	return Interval{
		Min: new(big.Int).Sub(a.Min, offset),
		Max: new(big.Int).Sub(a.Max, offset),
	}
}
