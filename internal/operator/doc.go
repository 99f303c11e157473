// Package operator assembles the 7-band finite-difference Laplacian for a
// uniform structured grid and solves the resulting symmetric sparse system
// with an unpreconditioned conjugate-gradient iteration.
//
// The operator couples node (i, j, k) to its six axis neighbors through
// three symmetric band pairs at offsets Ny*Nz, Nz and 1 in the flat
// (x-slowest, z-fastest) node ordering. The x band is truncated naturally
// at the slab boundary; the y and z bands carry explicit corrections that
// zero the coupling which would otherwise wrap across the y and z domain
// boundaries. One-sided boundary behavior enters through the divergence
// right-hand side, not through the operator.
package operator
