package operator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrSolverDiverged indicates the conjugate-gradient iteration failed to
// reach the requested tolerance within the iteration cap.
var ErrSolverDiverged = errors.New("operator: conjugate gradient did not converge")

// SolveError carries the final iteration state of a failed solve.
type SolveError struct {
	Iterations int
	Residual   float64
	Tolerance  float64
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("operator: conjugate gradient did not converge after %d iterations (residual %.3e, tolerance %.3e)",
		e.Iterations, e.Residual, e.Tolerance)
}

func (e *SolveError) Unwrap() error {
	return ErrSolverDiverged
}

// SolveCG solves L*x = b from a zero initial guess with the plain
// unpreconditioned conjugate-gradient iteration on the symmetric operator.
// Convergence is reached when the residual norm drops below tol*||b||.
// maxIter <= 0 selects the default cap of 10*N.
func (l *Laplacian) SolveCG(b []float64, tol float64, maxIter int) ([]float64, int, error) {
	n := l.size
	if len(b) != n {
		return nil, 0, fmt.Errorf("operator: rhs length %d, want %d", len(b), n)
	}
	if maxIter <= 0 {
		maxIter = 10 * n
	}

	x := make([]float64, n)
	target := tol * floats.Norm(b, 2)
	if target == 0 {
		return x, 0, nil
	}

	// zero initial guess, so r0 = b
	r := append([]float64(nil), b...)
	p := append([]float64(nil), b...)
	ap := make([]float64, n)

	rs := floats.Dot(r, r)
	if math.Sqrt(rs) <= target {
		return x, 0, nil
	}

	for iter := 1; iter <= maxIter; iter++ {
		l.MulVec(ap, p)
		alpha := rs / floats.Dot(p, ap)
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)

		rsNew := floats.Dot(r, r)
		if math.Sqrt(rsNew) <= target {
			return x, iter, nil
		}

		beta := rsNew / rs
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rs = rsNew
	}

	return nil, maxIter, &SolveError{
		Iterations: maxIter,
		Residual:   math.Sqrt(rs),
		Tolerance:  target,
	}
}
