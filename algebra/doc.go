/*
Package algebra implements the polynomial-shaped data model shared by every
stage of the circuit toolchain: arithmetic expressions of degree <= 2 over
circuit signals, R1CS and AIR constraints built from them, and the
substitutions used to eliminate signals.

A signal is a non-negative integer handle (SignalID); signal 0 is reserved
as the sentinel key carrying an expression's additive constant. Rather than
threading a guaranteed-present "0" key through every map (fragile, and only
there to dodge branches in the original implementation this is ported
from), the constant is a first-class field on LinearForm and every public
helper dispatches on structural shape instead.

Expr is a tagged sum of four "real" shapes (Number, Signal, Linear,
Quadratic) plus the absorbing NonQuadratic tag for anything of degree > 2.
NonQuadratic is not an error: it is a legitimate classification that
callers requiring degree <= 2 turn into a failure at the point they need
it (see ToConstraintForm).
*/
package algebra
