package equiv

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

var dimacsPreamble = template.Must(template.New("dimacs").Parse(
	`c circuitkit isomorphism formula
c {{.NumVars}} variables, {{.NumClauses}} clauses
p cnf {{.NumVars}} {{.NumClauses}}
`))

// DumpDIMACS renders f to the standard DIMACS CNF text format: a templated
// comment/problem-line preamble (the same templated-emission idiom the
// teacher module's verifier package uses to generate its own output,
// applied here to a formula dump instead of generated source), followed by
// one space-separated, zero-terminated clause line per clause.
func DumpDIMACS(w io.Writer, f *Formula) error {
	data := struct{ NumVars, NumClauses int }{f.NumVars, len(f.Clauses)}
	if err := dimacsPreamble.Execute(w, data); err != nil {
		return fmt.Errorf("equiv: render DIMACS preamble: %w", err)
	}
	for _, c := range f.Clauses {
		parts := make([]string, 0, len(c)+1)
		for _, lit := range c {
			parts = append(parts, fmt.Sprintf("%d", lit))
		}
		parts = append(parts, "0")
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return fmt.Errorf("equiv: write DIMACS clause: %w", err)
		}
	}
	return nil
}
