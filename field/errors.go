package field

import "errors"

// ErrDivisionByZero is returned by Div and Inverse when the divisor reduces
// to the zero residue modulo p.
var ErrDivisionByZero = errors.New("field: division by zero")

// ErrShiftRange is returned by ShiftL/ShiftR when the shift amount does not
// fit the representable signed width used for the operation. spec.md leaves
// the exact bound undocumented in the original implementation; we surface it
// as an arithmetic error rather than silently wrapping, per DESIGN.md.
var ErrShiftRange = errors.New("field: shift amount out of representable range")
