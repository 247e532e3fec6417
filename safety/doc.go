/*
Package safety deduces interval bounds on a sub-circuit's signals and emits
an SMT-LIB query that decides weak safety: for a DAG node with declared
inputs and outputs, whether every assignment to the inputs consistent with
the node's constraints determines the outputs uniquely.

Bound deduction (DeduceBounds) runs the integrity-domain and
bound-propagation rules to a fixpoint. Query construction (BuildQuery,
RenderSMT) encodes two copies ("primary" and "shadow") of every signal that
agree on inputs, asserts the constraint equalities with the modular
reduction multiplier k made explicit (avoiding SMT `mod`), adds the
redundancy "homologue" lemmas, and asks whether the two copies can still
disagree on some output. The SMT-LIB text itself is rendered via
text/template, the same templated-generation idiom the teacher module's
verifier package uses for its own generated output.
*/
package safety
