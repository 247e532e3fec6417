// Package circuitio implements the external interfaces of spec.md section
// 6: the circuit JSON format (stage 2 input/output), the R1CS binary file
// format (stage 3 input), and the structure JSON bridge between
// decomposition and verification. Everything here is a dumb codec - no
// algebraic decisions are made in this package.
package circuitio
