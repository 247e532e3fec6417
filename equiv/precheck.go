package equiv

import "github.com/zkarkit/circuitkit/fingerprint"

// Reason names why two circuits were judged non-equivalent (or why the
// comparison could not proceed), per spec.md section 4.7's pre-check and
// section 7's structured-reason policy for fingerprint discrepancies.
type Reason string

const (
	ReasonNone                       Reason = ""
	ReasonDifferentFingerprints      Reason = "DifferentFingerprints"
	ReasonDifferentFingerprintClasses Reason = "DifferentFingerprintClasses"
	ReasonNormHasNoValidPair         Reason = "NormHasNoValidPair"
)

// PreCheck compares the converged fingerprint tables of two circuits (e
// must have been built with exactly two CircuitViews and Run to
// completion). It returns ReasonNone if every color class in one circuit
// has a same-sized counterpart in the other; otherwise it names which
// pre-check failed, in which case encoding should not proceed.
func PreCheck(e *fingerprint.Engine) Reason {
	if r := compareClassSizes(e.SignalClassSizes(0), e.SignalClassSizes(1)); r != ReasonNone {
		return r
	}
	return compareClassSizes(e.ConstraintClassSizes(0), e.ConstraintClassSizes(1))
}

func compareClassSizes(left, right map[fingerprint.Color]int) Reason {
	for c, n := range left {
		rn, ok := right[c]
		if !ok {
			return ReasonDifferentFingerprints
		}
		if rn != n {
			return ReasonDifferentFingerprintClasses
		}
	}
	for c := range right {
		if _, ok := left[c]; !ok {
			return ReasonDifferentFingerprints
		}
	}
	return ReasonNone
}
