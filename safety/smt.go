package safety

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/bounds"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/field"
)

// copyName renders the SMT-LIB identifier for signal s in the given copy
// ("primary" or "shadow").
func copyName(s algebra.SignalID, copyTag string) string {
	return fmt.Sprintf("s_%d_%s", s, copyTag)
}

// smtVar is one declared integer variable in the query: a signal copy, or
// a modular-reduction multiplier k_i.
type smtVar struct {
	Name string
}

// constraintEncoding is the per-constraint, per-copy data the SMT template
// needs: the integer-valued A/B/C expressions (as SMT-LIB terms) and the
// bound on the reduction multiplier k.
type constraintEncoding struct {
	Index   int
	Copy    string
	ValA    string
	ValB    string
	ValC    string
	KVar    string
	KLow    string
	KHigh   string
	KFixed  bool
	KFix    string
}

// homologueEncoding is one constraint's cross-copy redundancy lemma.
type homologueEncoding struct {
	Index int
	ValAp string
	ValBp string
	ValCp string
	ValAs string
	ValBs string
	ValCs string
}

// Query is everything needed to render an SMT-LIB weak-safety script for
// one DAG node.
type Query struct {
	DeclaredVars  []smtVar
	Constraints   []constraintEncoding
	Homologues    []homologueEncoding
	InputEqs      []string
	OutputDiffs   []string
	TimeoutMillis int
}

// linearSMTTerm renders a linear form as an SMT-LIB integer expression over
// copyName(s, copyTag) variables, using each coefficient's signed
// representative value.
func linearSMTTerm(l algebra.LinearForm, copyTag string) string {
	terms := []string{}
	if !l.Constant.IsZero() {
		terms = append(terms, l.Constant.ToSigned().String())
	}
	for _, s := range l.SortedSignals() {
		coef := l.Terms[s]
		if coef.IsZero() {
			continue
		}
		terms = append(terms, fmt.Sprintf("(* %s %s)", coef.ToSigned().String(), copyName(s, copyTag)))
	}
	if len(terms) == 0 {
		return "0"
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return "(+ " + strings.Join(terms, " ") + ")"
}

// BuildQuery assembles a Query for one sub-circuit node: two copies of
// every signal agreeing on inputs, one constraint-equality assertion per
// constraint per copy with the reduction multiplier k made explicit, the
// cross-copy homologue lemmas, and the input/output (dis)equality
// assertions that make the query decide weak safety.
func BuildQuery(store *conststore.Store, ids []conststore.ConstraintID, signals map[algebra.SignalID]bool, inputs, outputs map[algebra.SignalID]bool, iv map[algebra.SignalID]bounds.Interval, timeoutMillis int) Query {
	p := field.Modulus()
	q := Query{TimeoutMillis: timeoutMillis}

	for s := range signals {
		q.DeclaredVars = append(q.DeclaredVars, smtVar{Name: copyName(s, "p")})
		q.DeclaredVars = append(q.DeclaredVars, smtVar{Name: copyName(s, "s")})
	}

	for idx, id := range ids {
		c, ok := store.Read(id)
		if !ok {
			continue
		}
		ivA := linearBound(c.A, iv)
		ivB := linearBound(c.B, iv)
		ivAB := bounds.Mul(ivA, ivB)
		ivC := linearBound(c.C, iv)
		diff := bounds.Sub(ivAB, ivC)
		kBound := bounds.DivFloor(diff, p)

		for _, copyTag := range []string{"p", "s"} {
			ce := constraintEncoding{
				Index: idx,
				Copy:  copyTag,
				ValA:  linearSMTTerm(c.A, copyTag),
				ValB:  linearSMTTerm(c.B, copyTag),
				ValC:  linearSMTTerm(c.C, copyTag),
			}
			if kBound.Min.Cmp(kBound.Max) == 0 {
				ce.KFixed = true
				ce.KFix = kBound.Min.String()
			} else {
				ce.KVar = fmt.Sprintf("k_%d_%s", idx, copyTag)
				ce.KLow = kBound.Min.String()
				ce.KHigh = kBound.Max.String()
				q.DeclaredVars = append(q.DeclaredVars, smtVar{Name: ce.KVar})
			}
			q.Constraints = append(q.Constraints, ce)
		}

		q.Homologues = append(q.Homologues, homologueEncoding{
			Index: idx,
			ValAp: linearSMTTerm(c.A, "p"), ValBp: linearSMTTerm(c.B, "p"), ValCp: linearSMTTerm(c.C, "p"),
			ValAs: linearSMTTerm(c.A, "s"), ValBs: linearSMTTerm(c.B, "s"), ValCs: linearSMTTerm(c.C, "s"),
		})
	}

	for s := range inputs {
		q.InputEqs = append(q.InputEqs, fmt.Sprintf("(= %s %s)", copyName(s, "p"), copyName(s, "s")))
	}
	for s := range outputs {
		q.OutputDiffs = append(q.OutputDiffs, fmt.Sprintf("(not (= %s %s))", copyName(s, "p"), copyName(s, "s")))
	}

	return q
}

var smtTemplate = template.Must(template.New("smt").Parse(
	`(set-option :timeout {{.TimeoutMillis}})
(set-logic QF_LIA)
{{range .DeclaredVars}}(declare-const {{.Name}} Int)
{{end}}{{range .Constraints}}{{if .KFixed}}(assert (= (- {{.ValC}} (* {{.ValA}} {{.ValB}})) (* {{.KFix}} circuitkit_p)))
{{else}}(assert (and (<= {{.KLow}} {{.KVar}}) (<= {{.KVar}} {{.KHigh}})))
(assert (= (- {{.ValC}} (* {{.ValA}} {{.ValB}})) (* {{.KVar}} circuitkit_p)))
{{end}}{{end}}{{range .Homologues}}(assert (=> (and (= (mod {{.ValAp}} circuitkit_p) (mod {{.ValAs}} circuitkit_p))
                  (= (mod {{.ValBp}} circuitkit_p) (mod {{.ValBs}} circuitkit_p)))
             (= (mod {{.ValCp}} circuitkit_p) (mod {{.ValCs}} circuitkit_p))))
{{end}}{{range .InputEqs}}(assert {{.}})
{{end}}(assert (or {{range .OutputDiffs}}{{.}} {{end}}))
(check-sat)
`))

// circuitkitPrime is the SMT-LIB constant definition for p (the BN254
// scalar field modulus), emitted once ahead of RenderSMT's output.
func circuitkitPrime() string {
	return fmt.Sprintf("(define-fun circuitkit_p () Int %s)\n", field.Modulus().String())
}

// RenderSMT writes q's SMT-LIB script to w.
func RenderSMT(w io.Writer, q Query) error {
	if _, err := io.WriteString(w, circuitkitPrime()); err != nil {
		return fmt.Errorf("safety: write prime definition: %w", err)
	}
	if err := smtTemplate.Execute(w, q); err != nil {
		return fmt.Errorf("safety: render SMT-LIB query: %w", err)
	}
	return nil
}
