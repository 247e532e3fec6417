// Package testutils holds small constraint-circuit fixtures shared across
// this module's package tests, so every package doesn't redeclare the same
// "build a toy R1CS store" boilerplate.
package testutils

import (
	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/field"
)

// Linear builds a LinearForm from a term map and a constant, a shorthand
// used throughout the fixtures below.
func Linear(terms map[algebra.SignalID]field.Elem, constant field.Elem) algebra.LinearForm {
	return algebra.NewLinearForm(constant, terms)
}

// LinearEquality builds the R1CS triple for a pure linear equality
// (A = B = 0, C = expr), the store's representation of a constraint with
// no quadratic term.
func LinearEquality(expr algebra.LinearForm) algebra.Constraint {
	return algebra.Constraint{A: algebra.ZeroLinear(), B: algebra.ZeroLinear(), C: expr}
}

// Mul builds the R1CS triple for a*b = c where a, b, c are bare signals
// (single-term, unit-coefficient linear forms).
func Mul(a, b, c algebra.SignalID) algebra.Constraint {
	return algebra.Constraint{
		A: Linear(map[algebra.SignalID]field.Elem{a: field.One()}, field.Zero()),
		B: Linear(map[algebra.SignalID]field.Elem{b: field.One()}, field.Zero()),
		C: Linear(map[algebra.SignalID]field.Elem{c: field.One()}, field.Zero()),
	}
}

// ClusterCircuit is the three-constraint fixture behind this module's
// "cluster correctness" property: x*y=z, a*b=c, z+c=w, with w the sole
// declared output. Signals are numbered 1..7 in that clause order
// (x,y,z,a,b,c,w).
func ClusterCircuit() (store *conststore.Store, inputs, outputs map[algebra.SignalID]bool) {
	store = conststore.NewStore()
	store.Add(Mul(1, 2, 3)) // x*y = z
	store.Add(Mul(4, 5, 6)) // a*b = c
	store.Add(LinearEquality(Linear(map[algebra.SignalID]field.Elem{
		3: field.One(), 6: field.One(), 7: field.PrefixSub(field.One()),
	}, field.Zero()))) // z + c - w = 0

	inputs = map[algebra.SignalID]bool{1: true, 2: true, 4: true, 5: true}
	outputs = map[algebra.SignalID]bool{7: true}
	return store, inputs, outputs
}

// XYZCircuit is the single-constraint fixture x*y=z with x,y inputs and z
// the sole output (signals 1,2,3).
func XYZCircuit() (store *conststore.Store, inputs, outputs map[algebra.SignalID]bool) {
	store = conststore.NewStore()
	store.Add(Mul(1, 2, 3))
	return store, map[algebra.SignalID]bool{1: true, 2: true}, map[algebra.SignalID]bool{3: true}
}
