package fingerprint

// Color is a (round, structural-id) pair. Two items share a color iff they
// were assigned the same structural key in the same round.
type Color struct {
	Round int
	ID    uint64
}

// Equal reports whether two colors are identical.
func (c Color) Equal(o Color) bool { return c.Round == o.Round && c.ID == o.ID }

const (
	roleOutput   = "role:output"
	roleInput    = "role:input"
	roleInternal = "role:internal"
)
