// package bounds carries signed-integer interval bounds on signal values,
// shared between the algebra package's constraint normalization (which
// picks the divisor that minimizes a residual's interval width) and the
// safety package's bound deducer (which produces these intervals in the
// first place). It is split out from algebra to avoid a dependency cycle
// between algebra and safety.
package bounds
