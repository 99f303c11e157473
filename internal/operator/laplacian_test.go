package operator

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/hanrud/windproj/internal/field"
)

func uniformAxis(n int, d float64) []float64 {
	c := make([]float64, n)
	for i := range c {
		c[i] = float64(i) * d
	}
	return c
}

func testGrid(t *testing.T, nx, ny, nz int, h float64) *field.Grid {
	t.Helper()
	g, err := field.NewGrid(uniformAxis(nx, h), uniformAxis(ny, h), uniformAxis(nz, h))
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func TestLaplacianDiagonal(t *testing.T) {
	g, err := field.NewGrid(uniformAxis(3, 2), uniformAxis(3, 4), uniformAxis(3, 8))
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	l := NewLaplacian(g)

	want := -2.0/4 - 2.0/16 - 2.0/64
	for i := 0; i < g.N; i++ {
		if got := l.At(i, i); math.Abs(got-want) > 1e-14 {
			t.Fatalf("diagonal at %d: got %g, want %g", i, got, want)
		}
	}
}

func TestLaplacianSymmetry(t *testing.T) {
	g := testGrid(t, 3, 4, 5, 1.5)
	l := NewLaplacian(g)

	for i := 0; i < g.N; i++ {
		for j := i + 1; j < g.N; j++ {
			if l.At(i, j) != l.At(j, i) {
				t.Fatalf("asymmetric entry at (%d,%d)", i, j)
			}
		}
	}
}

func TestLaplacianBands(t *testing.T) {
	g := testGrid(t, 3, 3, 3, 1)
	l := NewLaplacian(g)

	// interior node fully coupled to all six neighbors
	c := g.Idx(1, 1, 1)
	for _, nb := range []int{g.Idx(0, 1, 1), g.Idx(2, 1, 1), g.Idx(1, 0, 1), g.Idx(1, 2, 1), g.Idx(1, 1, 0), g.Idx(1, 1, 2)} {
		if got := l.At(c, nb); got != 1 {
			t.Errorf("interior coupling %d-%d: got %g, want 1", c, nb, got)
		}
	}

	// no coupling across the y boundary: (0, Ny-1, 0) and the entry one
	// y-stride later, which is (1, 0, 0), must be decoupled
	a := g.Idx(0, g.Ny-1, 0)
	b := a + g.Nz
	if got := l.At(a, b); got != 0 {
		t.Errorf("y wraparound not zeroed: got %g", got)
	}

	// no coupling across the z boundary: (i, j, Nz-1) to (i, j+1, 0)
	a = g.Idx(1, 1, g.Nz-1)
	b = a + 1
	if got := l.At(a, b); got != 0 {
		t.Errorf("z wraparound not zeroed: got %g", got)
	}
}

func TestLaplacianQuadratic(t *testing.T) {
	h := 10.0
	g := testGrid(t, 6, 6, 6, h)
	l := NewLaplacian(g)

	// f = x^2 + y^2 + z^2 has Laplacian 6 everywhere; the 7-point stencil
	// reproduces it exactly on interior nodes
	f := make([]float64, g.N)
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				x, y, z := g.X[i], g.Y[j], g.Z[k]
				f[g.Idx(i, j, k)] = x*x + y*y + z*z
			}
		}
	}

	out := make([]float64, g.N)
	l.MulVec(out, f)

	for i := 1; i < g.Nx-1; i++ {
		for j := 1; j < g.Ny-1; j++ {
			for k := 1; k < g.Nz-1; k++ {
				got := out[g.Idx(i, j, k)]
				if math.Abs(got-6) > 1e-9 {
					t.Fatalf("laplacian at (%d,%d,%d): got %g, want 6", i, j, k, got)
				}
			}
		}
	}
}

func TestMulVecMatchesDense(t *testing.T) {
	g := testGrid(t, 3, 4, 2, 2.5)
	l := NewLaplacian(g)

	x := make([]float64, g.N)
	for i := range x {
		x[i] = math.Sin(float64(i))
	}

	got := make([]float64, g.N)
	l.MulVec(got, x)

	dense := mat.NewDense(g.N, g.N, nil)
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			dense.Set(i, j, l.At(i, j))
		}
	}
	var want mat.VecDense
	want.MulVec(dense, mat.NewVecDense(g.N, x))

	for i := 0; i < g.N; i++ {
		if math.Abs(got[i]-want.AtVec(i)) > 1e-12 {
			t.Fatalf("mulvec mismatch at %d: got %g, want %g", i, got[i], want.AtVec(i))
		}
	}
}

func TestSolveCG(t *testing.T) {
	g := testGrid(t, 4, 4, 4, 1)
	l := NewLaplacian(g)

	b := make([]float64, g.N)
	for i := range b {
		b[i] = math.Cos(float64(i) * 0.3)
	}

	x, iters, err := l.SolveCG(b, 1e-10, 0)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if iters == 0 {
		t.Error("expected at least one iteration")
	}

	// direct substitution
	r := make([]float64, g.N)
	l.MulVec(r, x)
	maxErr := 0.0
	for i := range r {
		if d := math.Abs(r[i] - b[i]); d > maxErr {
			maxErr = d
		}
	}
	if maxErr > 1e-8 {
		t.Errorf("residual too large: %g", maxErr)
	}
}

func TestSolveCGMatchesDense(t *testing.T) {
	g := testGrid(t, 3, 3, 3, 1)
	l := NewLaplacian(g)

	b := make([]float64, g.N)
	for i := range b {
		b[i] = float64(i%5) - 2
	}

	x, _, err := l.SolveCG(b, 1e-12, 0)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	dense := mat.NewDense(g.N, g.N, nil)
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			dense.Set(i, j, l.At(i, j))
		}
	}
	var want mat.VecDense
	if err := want.SolveVec(dense, mat.NewVecDense(g.N, b)); err != nil {
		t.Fatalf("dense solve: %v", err)
	}

	for i := 0; i < g.N; i++ {
		if math.Abs(x[i]-want.AtVec(i)) > 1e-6 {
			t.Fatalf("solution mismatch at %d: got %g, want %g", i, x[i], want.AtVec(i))
		}
	}
}

func TestSolveCGZeroRHS(t *testing.T) {
	g := testGrid(t, 3, 3, 3, 1)
	l := NewLaplacian(g)

	x, iters, err := l.SolveCG(make([]float64, g.N), 1e-8, 0)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if iters != 0 {
		t.Errorf("expected no iterations for zero rhs, got %d", iters)
	}
	for i, v := range x {
		if v != 0 {
			t.Fatalf("expected zero solution, got %g at %d", v, i)
		}
	}
}

func TestSolveCGDivergence(t *testing.T) {
	g := testGrid(t, 5, 5, 5, 1)
	l := NewLaplacian(g)

	b := make([]float64, g.N)
	for i := range b {
		b[i] = math.Sin(float64(i))
	}

	_, _, err := l.SolveCG(b, 1e-14, 1)
	if err == nil {
		t.Fatal("expected convergence failure with one iteration")
	}
	if !errors.Is(err, ErrSolverDiverged) {
		t.Errorf("expected ErrSolverDiverged, got %v", err)
	}

	var se *SolveError
	if !errors.As(err, &se) {
		t.Fatalf("expected SolveError, got %T", err)
	}
	if se.Iterations != 1 {
		t.Errorf("expected 1 iteration recorded, got %d", se.Iterations)
	}
}

func TestSolveCGBadLength(t *testing.T) {
	g := testGrid(t, 3, 3, 3, 1)
	l := NewLaplacian(g)

	if _, _, err := l.SolveCG(make([]float64, 5), 1e-8, 0); err == nil {
		t.Error("expected error for wrong rhs length")
	}
}
