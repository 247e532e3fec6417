/*
Package simplify implements the linear-simplification engine: it clusters
linear constraints that share signals, eliminates a pivot signal per
constraint (picked by one of two heuristics), solves the resulting
substitutions with Gaussian elimination deferred until a single batched
modular inverse, re-applies the substitutions to the non-linear constraint
store, and renumbers the surviving signals.

Clusters are independent by construction (two constraints share a cluster
iff they transitively share a signal), so step one of Simplify fans the
per-cluster elimination out across an errgroup.Group, the way the teacher
pack's domain sibling packages parallelize embarrassingly-parallel batch
work; the result ordering is by cluster index, not completion order, so the
merge is deterministic regardless of scheduling.
*/
package simplify
