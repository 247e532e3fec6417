package conststore

import (
	"github.com/zkarkit/circuitkit/field"
)

// CoefID is a small integer naming one distinct coefficient value.
type CoefID uint32

// FieldTracker interns coefficient byte sequences (the unsigned
// representative of a field element) and hands out sequential ids in
// insertion order. Ids never become stale: once assigned, a given
// coefficient always decodes back to the same field.Elem.
type FieldTracker struct {
	byBytes map[string]CoefID
	values  []field.Elem
}

// NewFieldTracker returns an empty tracker.
func NewFieldTracker() *FieldTracker {
	return &FieldTracker{byBytes: map[string]CoefID{}}
}

// Intern returns v's id, assigning a new one if v has not been seen
// before.
func (t *FieldTracker) Intern(v field.Elem) CoefID {
	key := string(v.BigInt().Bytes())
	if id, ok := t.byBytes[key]; ok {
		return id
	}
	id := CoefID(len(t.values))
	t.values = append(t.values, v)
	t.byBytes[key] = id
	return id
}

// Value decodes id back to its field element. Panics on an out-of-range
// id, which can only happen from a bug in the store (ids are assigned
// sequentially and never removed).
func (t *FieldTracker) Value(id CoefID) field.Elem {
	return t.values[id]
}

// Len returns the number of distinct coefficients interned so far.
func (t *FieldTracker) Len() int { return len(t.values) }
