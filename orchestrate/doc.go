// Package orchestrate drives the end-to-end pipeline (spec.md section
// 4.9, component C9) over an already parsed constraint store: simplify ->
// decompose -> equivalence -> safety verification, collecting per-phase
// timings. It owns no
// algorithms of its own - every phase delegates to the package that owns
// it (simplify, graphbuild, fingerprint, equiv, safety) - and is
// deliberately thin, the way the teacher's algoplonk.go top-level
// Compile/Verify functions only sequence calls into setup/verifier
// without reimplementing either.
package orchestrate
