/*
Package equiv builds a CNF+pseudo-boolean formula whose satisfiability is
equivalent to the existence of a structural isomorphism between two
circuits whose constraints and signals have already been fingerprinted by
package fingerprint (run with N=2, so that matching fingerprint colors are
literally equal Color values across both circuits).

A candidate pair (s, s') of signals, or (c, c') of normalized constraints,
only gets a boolean variable when the two items share a fingerprint class;
items in differently-sized or unmatched classes are rejected up front by
PreCheck, which reports DifferentFingerprints or
DifferentFingerprintClasses; Compare reports NormHasNoValidPair when the
solver finds the formula unsatisfiable. The resulting Formula is solver-agnostic: Solver is the pluggable
collaborator (a CDCL SAT backend is an external tool, per spec), and
DumpDIMACS renders a Formula to the standard DIMACS CNF text format using a
text/template preamble, the same templated-emission idiom the teacher
module's verifier package uses for its generated code.
*/
package equiv
