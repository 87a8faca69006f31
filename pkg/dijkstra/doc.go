// Package dijkstra finds shortest paths between two bags of a tree
// decomposition with a bidirectional Dijkstra search.
//
// Two searches run at the same time, one growing from the source and one
// from the target, each with its own min-heap ordered by (distance,
// insertion sequence). The searches alternate one settled node at a time,
// starting with the forward search. While relaxing edges the best known
// meeting point of both searches is tracked; as soon as a node is settled in
// both directions that best combination is the shortest path.
//
// The graph is an adjacency mapping node → neighbor → edge attributes, the
// same shape an undirected edge list turns into with [FromEdges]. Weights are
// read through a [WeightFunc]; the default reads the "weight" attribute and
// falls back to 1 when it is missing.
//
// Errors are sentinel values usable with errors.Is:
//   - [ErrUnknownEndpoint]: source or target is not a node of the graph
//   - [ErrContradictoryPath]: a settled distance would shrink (negative weight)
//   - [ErrNoPath]: both frontiers ran empty without meeting
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E), with lazy decrease-key entries left in the heaps
package dijkstra
