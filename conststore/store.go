package conststore

import (
	"github.com/zkarkit/circuitkit/algebra"
)

// ConstraintID identifies a constraint within a Store. Ids are assigned
// sequentially starting at 0 and are never reused; an id removed by
// ExtractWith is no longer readable.
type ConstraintID uint64

// term is a single (coefficient id, signal id) pair in a compressed
// constraint's A, B, or C part.
type term struct {
	Coef   CoefID
	Signal algebra.SignalID
}

// compressed is the on-disk-shaped representation of one constraint: three
// lists of (coefID, signalID) pairs, with each part's constant stored as a
// term under algebra.ConstSignal (the decoded LinearForm keeps it in its
// Constant field instead).
type compressed struct {
	A, B, C []term
}

// Store is a compressed, append-only pool of constraints. It owns the
// coefficient tracker and the encoded constraint list; encoding and
// decoding are deterministic and lossless over field.Elem values.
type Store struct {
	tracker   *FieldTracker
	rows      []compressed
	tombstone []bool // true for ids removed by ExtractWith
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{tracker: NewFieldTracker()}
}

// Add encodes c and appends it, returning its new sequential id.
func (s *Store) Add(c algebra.Constraint) ConstraintID {
	id := ConstraintID(len(s.rows))
	s.rows = append(s.rows, s.encode(c))
	s.tombstone = append(s.tombstone, false)
	return id
}

// Read decodes the constraint at id, or returns false if id is out of
// range or has been removed by a prior ExtractWith call.
func (s *Store) Read(id ConstraintID) (algebra.Constraint, bool) {
	if int(id) >= len(s.rows) || s.tombstone[id] {
		return algebra.Constraint{}, false
	}
	return s.decode(s.rows[id]), true
}

// Replace overwrites the constraint at id in place. id must be live
// (previously added and not removed).
func (s *Store) Replace(id ConstraintID, c algebra.Constraint) bool {
	if int(id) >= len(s.rows) || s.tombstone[id] {
		return false
	}
	s.rows[id] = s.encode(c)
	return true
}

// GetIDs returns every live constraint id, in ascending order.
func (s *Store) GetIDs() []ConstraintID {
	out := make([]ConstraintID, 0, len(s.rows))
	for i, dead := range s.tombstone {
		if !dead {
			out = append(out, ConstraintID(i))
		}
	}
	return out
}

// Len returns the number of live constraints.
func (s *Store) Len() int {
	n := 0
	for _, dead := range s.tombstone {
		if !dead {
			n++
		}
	}
	return n
}

// ExtractWith removes every live constraint for which pred returns true,
// decoding and returning them in ascending id order. Constraints for which
// pred returns false are left untouched (and keep their existing id).
func (s *Store) ExtractWith(pred func(ConstraintID, algebra.Constraint) bool) []algebra.Constraint {
	var extracted []algebra.Constraint
	for i, dead := range s.tombstone {
		if dead {
			continue
		}
		id := ConstraintID(i)
		c := s.decode(s.rows[i])
		if pred(id, c) {
			extracted = append(extracted, c)
			s.tombstone[i] = true
		}
	}
	return extracted
}

func (s *Store) encode(c algebra.Constraint) compressed {
	return compressed{
		A: s.encodeLinear(c.A),
		B: s.encodeLinear(c.B),
		C: s.encodeLinear(c.C),
	}
}

func (s *Store) encodeLinear(l algebra.LinearForm) []term {
	var out []term
	if !l.Constant.IsZero() {
		out = append(out, term{Coef: s.tracker.Intern(l.Constant), Signal: algebra.ConstSignal})
	}
	for _, sig := range l.SortedSignals() {
		coef := l.Terms[sig]
		if coef.IsZero() {
			continue
		}
		out = append(out, term{Coef: s.tracker.Intern(coef), Signal: sig})
	}
	return out
}

func (s *Store) decode(c compressed) algebra.Constraint {
	return algebra.Constraint{
		A: s.decodeLinear(c.A),
		B: s.decodeLinear(c.B),
		C: s.decodeLinear(c.C),
	}
}

func (s *Store) decodeLinear(ts []term) algebra.LinearForm {
	l := algebra.ZeroLinear()
	for _, t := range ts {
		v := s.tracker.Value(t.Coef)
		if t.Signal == algebra.ConstSignal {
			l.Constant = v
			continue
		}
		l.Terms[t.Signal] = v
	}
	return l
}

// TrackerLen returns the number of distinct coefficients interned so far,
// exposed for diagnostics/metrics.
func (s *Store) TrackerLen() int { return s.tracker.Len() }
