/*
Package graphbuild turns a constraint list into a weighted signal-sharing
graph, delegates clustering to an external modularity partitioner, lifts the
resulting partition into an acyclic DAG of sub-circuits by a
distance-from-inputs/distance-to-outputs labelling, and greedily merges
"passthrough" nodes (nodes a signal flows straight through without being
constrained) to shrink the DAG further.

The partitioner itself (Leiden/Louvain-style modularity clustering) is
treated as a pluggable collaborator behind the Partitioner interface, the
same way the equiv and safety packages' solver backends are pluggable elsewhere in
this module: GonumPartitioner wires gonum.org/v1/gonum/graph/community's
Modularize as the default implementation, but the DAG-lift and
passthrough-merge logic below only depends on the Partitioner contract, not
on gonum specifically.
*/
package graphbuild
