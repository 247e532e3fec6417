// package conststore is a compressed, append-only store of R1CS
// constraints. Distinct coefficients are interned once by a field tracker
// and referenced by a small integer id thereafter, which matters because
// most circuits use at most a few hundred distinct coefficients against
// thousands of constraints.
package conststore
