package orchestrate

// Mode selects how much equivalence work the pipeline does before safety
// verification, per spec.md section 4.9's three modes.
type Mode int

const (
	// ModeLocal only fingerprints each DAG node in isolation; no
	// cross-node pairwise comparison is attempted, so equivalency_local
	// is produced but equivalency_structural is left empty.
	ModeLocal Mode = iota
	// ModeAugmented additionally refines local classes by pairwise
	// isomorphism checks (the "structural augmentation" pass).
	ModeAugmented
	// ModeBoth runs both the local and augmented passes and additionally
	// lets safety verification borrow augmented-class membership to
	// propagate VERIFIED results (spec.md section 4.8).
	ModeBoth
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeAugmented:
		return "augmented"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseMode maps the CLI's `plonk|acir|r1cs`-style flag vocabulary for
// equivalence mode onto Mode. Unrecognized values default to ModeLocal,
// mirroring setup.Conf's enum-with-iota shape in the teacher repo.
func ParseMode(s string) Mode {
	switch s {
	case "augmented":
		return ModeAugmented
	case "both":
		return ModeBoth
	default:
		return ModeLocal
	}
}
