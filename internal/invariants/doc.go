// Package invariants computes permutation-invariant polynomials of the
// pairwise distances of an N-atom cluster, together with their Jacobians.
//
// For a cluster of N atoms the input is the M = N(N-1)/2 edge coordinates
// in lexicographic pair order (N=3: r12, r13, r23; N=4: r12, r13, r14, r23,
// r24, r34). The output is split into
//
//   - primary invariants: algebraically independent, the monomial variables
//   - secondary invariants: multipliers completing the invariant ring,
//     the first of which is always the constant 1
//
// Body order is a closed set {2, 3, 4, 5}; [Invariants] and [InvariantsGrad]
// dispatch on it with a switch. Jacobians are written row-major into
// caller-owned buffers: d[p*M+e] = d invariant_p / d x_e.
//
// # Body order 4
//
// The six edges form three pairs of opposite edges (12|34, 13|24, 14|23).
// An orthogonal change of basis maps each pair to a sum coordinate
// a = (x_i + x_j)/√2 and a difference coordinate b = (x_i - x_j)/√2.
// Relabelling the atoms permutes the a's arbitrarily and acts on the b's
// as signed permutations with an even number of sign flips, which gives
// primaries of degree 1, 2, 3 in a and 2, 3, 4 in b and secondaries of
// degree 0, 3, 4, 5, 6, 9.
//
// # Body order 5
//
// Only a partial invariant set is provided: ten primaries built from edge
// and vertex-degree power sums and a handful of secondaries. The degree
// tables are complete for what is exposed.
package invariants
