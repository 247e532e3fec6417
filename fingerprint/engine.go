package fingerprint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zkarkit/circuitkit/algebra"
)

// maxRefinementRounds bounds the alternating-phase fixpoint loop; color
// refinement on a circuit with S signals and K constraints converges in at
// most S+K rounds (every round either changes something, in which case at
// least one class has split, or the loop stops), so this cap only guards
// against a malformed input, never a normal run.
const maxRefinementRounds = 10000

// CircuitView is the refinement engine's view of one circuit: its
// normalized constraints plus the signal roles needed to seed the initial
// coloring.
type CircuitView struct {
	Norms   []NormalizedConstraint
	Inputs  map[algebra.SignalID]bool
	Outputs map[algebra.SignalID]bool
	Signals map[algebra.SignalID]bool
}

// Engine runs color refinement across N circuits in lockstep (N=1 for
// intra-circuit equivalence discovery, N=2 for pairwise comparison).
type Engine struct {
	assignment *Assignment
	circuits   []CircuitView

	constraintColor [][]Color // [circuit][constraint index]
	signalColor     []map[algebra.SignalID]Color
	frozenC         [][]bool
	frozenS         []map[algebra.SignalID]bool
}

// NewEngine seeds the initial coloring: all constraints alike, signals
// split into outputs/inputs/internal.
func NewEngine(circuits []CircuitView) *Engine {
	e := &Engine{assignment: NewAssignment(), circuits: circuits}
	e.constraintColor = make([][]Color, len(circuits))
	e.signalColor = make([]map[algebra.SignalID]Color, len(circuits))
	e.frozenC = make([][]bool, len(circuits))
	e.frozenS = make([]map[algebra.SignalID]bool, len(circuits))

	initialConstraintID := e.assignment.Intern("init:constraint")
	outID := e.assignment.Intern(roleOutput)
	inID := e.assignment.Intern(roleInput)
	intID := e.assignment.Intern(roleInternal)

	for ci, cv := range circuits {
		e.constraintColor[ci] = make([]Color, len(cv.Norms))
		for k := range cv.Norms {
			e.constraintColor[ci][k] = Color{Round: 0, ID: initialConstraintID}
		}
		e.frozenC[ci] = make([]bool, len(cv.Norms))

		e.signalColor[ci] = map[algebra.SignalID]Color{}
		e.frozenS[ci] = map[algebra.SignalID]bool{}
		for s := range cv.Signals {
			switch {
			case cv.Outputs[s]:
				e.signalColor[ci][s] = Color{Round: 0, ID: outID}
			case cv.Inputs[s]:
				e.signalColor[ci][s] = Color{Round: 0, ID: inID}
			default:
				e.signalColor[ci][s] = Color{Round: 0, ID: intID}
			}
		}
	}
	return e
}

// Run executes alternating constraint/signal refinement phases until a
// full (constraint, signal) cycle produces no color change, or the
// maxRefinementRounds cap is hit.
func (e *Engine) Run() {
	for round := 1; round <= maxRefinementRounds; round++ {
		changed := e.constraintPhase(round)
		e.freezeConstraintSingletons(round)
		changed = e.signalPhase(round) || changed
		e.freezeSignalSingletons(round)
		if !changed {
			return
		}
	}
}

// constraintPhase recomputes every unfrozen constraint's color from the
// current signal colors.
func (e *Engine) constraintPhase(round int) bool {
	changed := false
	for ci, cv := range e.circuits {
		for k, nc := range cv.Norms {
			if e.frozenC[ci][k] {
				continue
			}
			key := e.constraintKey(ci, nc)
			id := e.assignment.Intern(key)
			newColor := Color{Round: round, ID: id}
			if !newColor.Equal(e.constraintColor[ci][k]) {
				changed = true
			}
			e.constraintColor[ci][k] = newColor
		}
	}
	return changed
}

func (e *Engine) constraintKey(ci int, nc NormalizedConstraint) string {
	sigColor := func(s algebra.SignalID) string {
		if s == algebra.ConstSignal {
			return "const"
		}
		c := e.signalColor[ci][s]
		return fmt.Sprintf("%d:%d", c.Round, c.ID)
	}
	partKey := func(name string, ts []SignalTerm) string {
		items := make([]string, len(ts))
		for i, t := range ts {
			items[i] = fmt.Sprintf("%s|%s", sigColor(t.Signal), t.Coef.String())
		}
		sort.Strings(items)
		return name + "[" + strings.Join(items, ",") + "]"
	}

	if !nc.Ordered {
		return "U:" + partKey("AB", nc.Combined) + partKey("C", nc.C)
	}
	return "O:" + partKey("A", nc.A) + partKey("B", nc.B) + partKey("C", nc.C)
}

// signalPhase recomputes every unfrozen signal's color from the
// constraints it currently appears in.
func (e *Engine) signalPhase(round int) bool {
	changed := false
	for ci, cv := range e.circuits {
		occurrences := map[algebra.SignalID][]string{}
		for k, nc := range cv.Norms {
			cColor := fmt.Sprintf("%d:%d", e.constraintColor[ci][k].Round, e.constraintColor[ci][k].ID)
			if nc.Ordered {
				recordRole(occurrences, nc.A, cColor, "A")
				recordRole(occurrences, nc.B, cColor, "B")
			} else {
				recordRole(occurrences, nc.Combined, cColor, "AB")
			}
			recordRole(occurrences, nc.C, cColor, "C")
		}
		for s := range cv.Signals {
			if e.frozenS[ci][s] {
				continue
			}
			items := append([]string(nil), occurrences[s]...)
			sort.Strings(items)
			key := strings.Join(items, ";")
			id := e.assignment.Intern(key)
			newColor := Color{Round: round, ID: id}
			if !newColor.Equal(e.signalColor[ci][s]) {
				changed = true
			}
			e.signalColor[ci][s] = newColor
		}
	}
	return changed
}

func recordRole(occ map[algebra.SignalID][]string, ts []SignalTerm, cColor, role string) {
	for _, t := range ts {
		occ[t.Signal] = append(occ[t.Signal], fmt.Sprintf("%s/%s/%s", cColor, role, t.Coef.String()))
	}
}

// freezeConstraintSingletons marks every constraint whose color is a
// singleton within its own circuit as final; singleton colors can never
// merge back, only further split, so freezing is safe.
func (e *Engine) freezeConstraintSingletons(round int) {
	for ci := range e.circuits {
		counts := map[Color]int{}
		for k := range e.constraintColor[ci] {
			counts[e.constraintColor[ci][k]]++
		}
		for k := range e.constraintColor[ci] {
			if counts[e.constraintColor[ci][k]] == 1 {
				e.frozenC[ci][k] = true
			}
		}
	}
}

func (e *Engine) freezeSignalSingletons(round int) {
	for ci := range e.circuits {
		counts := map[Color]int{}
		for _, c := range e.signalColor[ci] {
			counts[c]++
		}
		for s, c := range e.signalColor[ci] {
			if counts[c] == 1 {
				e.frozenS[ci][s] = true
			}
		}
	}
}

// ConstraintColor returns circuit ci's constraint colors, indexed the same
// as the CircuitView.Norms slice it was built from.
func (e *Engine) ConstraintColor(ci int) []Color { return e.constraintColor[ci] }

// SignalColor returns circuit ci's signal colors.
func (e *Engine) SignalColor(ci int) map[algebra.SignalID]Color { return e.signalColor[ci] }

// SignalClassSizes groups circuit ci's signal colors into class->size, useful for
// the shuffle-invariance test (fingerprint(shuffle(C)) must yield identical
// class sizes to fingerprint(C)).
func (e *Engine) SignalClassSizes(ci int) map[Color]int {
	out := map[Color]int{}
	for _, c := range e.signalColor[ci] {
		out[c]++
	}
	return out
}

// ConstraintClassSizes is the constraint analogue of SignalClassSizes.
func (e *Engine) ConstraintClassSizes(ci int) map[Color]int {
	out := map[Color]int{}
	for _, c := range e.constraintColor[ci] {
		out[c]++
	}
	return out
}

// Distinguisher reports whether some circuit's multiset of constraint-class
// sizes differs from circuit 0's, which proves the circuits are not
// isomorphic. Signal classes and the colors themselves are not compared.
// Only meaningful once Run has converged.
func (e *Engine) Distinguisher() bool {
	if len(e.circuits) < 2 {
		return false
	}
	base := e.ConstraintClassSizes(0)
	for ci := 1; ci < len(e.circuits); ci++ {
		other := e.ConstraintClassSizes(ci)
		if !sameSizeMultiset(base, other) {
			return true
		}
	}
	return false
}

func sameSizeMultiset(a, b map[Color]int) bool {
	asz, bsz := map[int]int{}, map[int]int{}
	for _, n := range a {
		asz[n]++
	}
	for _, n := range b {
		bsz[n]++
	}
	if len(asz) != len(bsz) {
		return false
	}
	for k, v := range asz {
		if bsz[k] != v {
			return false
		}
	}
	return true
}
