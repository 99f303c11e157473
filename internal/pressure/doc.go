// Package pressure computes a divergence-free correction to a modeled
// velocity field on a uniform structured grid, following the projection
// method for incompressible flow of Tannehill, Anderson and Pletcher.
//
// A [PressureField] is bound to one grid and owns the cached Laplacian
// operator. Each [PressureField.Solve] call assembles the divergence of
// the supplied predictor field, solves the pressure Poisson equation by
// conjugate gradient, and subtracts the pressure gradient from the
// predictor on interior nodes:
//
//	pf, err := pressure.New(x, y, z)
//	res, err := pf.Solve(u0, nil, nil, pressure.SolveOptions{A: 1, Tol: 1e-8})
//
// # Thread Safety
//
// The operator is immutable after construction, so distinct instances may
// solve concurrently. A single instance must not run concurrent Solve
// calls: the divergence-query cache is swapped per call.
package pressure
