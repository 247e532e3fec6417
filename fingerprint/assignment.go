package fingerprint

// Assignment interns structural fingerprint strings into small consecutive
// integers, the same tracker pattern conststore.FieldTracker uses for
// coefficients, applied here to structural descriptions instead.
type Assignment struct {
	byKey   map[string]uint64
	byID    []string
}

// NewAssignment returns an empty intern table.
func NewAssignment() *Assignment {
	return &Assignment{byKey: map[string]uint64{}}
}

// Intern returns key's id, assigning a new one on first sight.
func (a *Assignment) Intern(key string) uint64 {
	if id, ok := a.byKey[key]; ok {
		return id
	}
	id := uint64(len(a.byID))
	a.byKey[key] = id
	a.byID = append(a.byID, key)
	return id
}

// Reverse recovers the structural key behind id, for debugging output.
func (a *Assignment) Reverse(id uint64) (string, bool) {
	if id >= uint64(len(a.byID)) {
		return "", false
	}
	return a.byID[id], true
}

// Len reports how many distinct structural keys have been interned.
func (a *Assignment) Len() int { return len(a.byID) }
