// package field implements modular arithmetic over the BN254 scalar field,
// the prime field that circuit signals and coefficients live in. All values
// are kept as residues in [0,p); a "signed representative" v' = v if v <= p/2
// else v - p is used for comparisons, shifts, and bitwise operations, since
// those only make sense relative to a sign convention.
package field
