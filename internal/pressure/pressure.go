package pressure

import (
	"errors"
	"fmt"
	"time"

	"github.com/hanrud/windproj/internal/fdm"
	"github.com/hanrud/windproj/internal/field"
	"github.com/hanrud/windproj/internal/operator"
)

// Domain errors for solve calls.
var (
	// ErrNotSolved indicates a divergence query before any successful solve.
	ErrNotSolved = errors.New("pressure: no solve has completed yet")

	// ErrMissingPredictor indicates a solve call without the mandatory
	// u component.
	ErrMissingPredictor = errors.New("pressure: u predictor field is required")
)

// Observer is notified after each successful solve with a copy of the
// solve result. Diagnostics and plotting collaborators implement this;
// the core itself performs no output.
type Observer interface {
	AfterSolve(r *Result)
}

// SmoothRegion describes the feature location for the optional planar
// smoothing patch: a position (X, Y, Z), a characteristic width D and a
// reference elevation ZHub.
type SmoothRegion struct {
	X, Y, Z float64
	D       float64
	ZHub    float64
}

// SolveOptions carries the per-call solve parameters.
type SolveOptions struct {
	// A is the fictitious-timestep-over-density factor scaling both the
	// right-hand side and the velocity correction. Zero selects 1.0.
	A float64

	// Tol is the relative conjugate-gradient tolerance. Zero selects 1e-8.
	Tol float64

	// Smooth, when non-nil, enables the planar smoothing patch on u
	// around the given region after correction.
	Smooth *SmoothRegion
}

const (
	defaultA   = 1.0
	defaultTol = 1e-8
)

// Result is the output of one solve call, owned by the caller. Fields are
// fresh copies each call and never mutated by later solves.
type Result struct {
	P, U, V, W *field.Scalar

	// U0, V0, W0 are the predictor fields the solve started from, so
	// observers can render before/after comparisons.
	U0, V0, W0 *field.Scalar

	// DivBefore and DivAfter are the interior L2 norms of the predictor
	// and corrected divergence fields.
	DivBefore float64
	DivAfter  float64

	Iterations int
	Elapsed    time.Duration
}

// clone deep-copies the result for observer delivery.
func (r *Result) clone() *Result {
	c := *r
	c.P = r.P.Clone()
	c.U = r.U.Clone()
	c.V = r.V.Clone()
	c.W = r.W.Clone()
	c.U0 = r.U0.Clone()
	c.V0 = r.V0.Clone()
	c.W0 = r.W0.Clone()
	return &c
}

// PressureField solves the pressure Poisson equation for one grid. Not
// safe for concurrent Solve calls on a shared instance.
type PressureField struct {
	grid      *field.Grid
	lap       *operator.Laplacian
	maxIter   int
	observers []Observer

	// state of the last successful solve, for divergence queries
	div     *field.Scalar
	u, v, w *field.Scalar
	p       *field.Scalar
}

// Option configures a PressureField at construction.
type Option func(*PressureField)

// WithObserver registers a post-solve observer.
func WithObserver(o Observer) Option {
	return func(pf *PressureField) {
		pf.observers = append(pf.observers, o)
	}
}

// WithMaxIterations caps the conjugate-gradient iteration count.
func WithMaxIterations(n int) Option {
	return func(pf *PressureField) {
		pf.maxIter = n
	}
}

// New validates the grid coordinates and assembles the Laplacian operator.
// The returned error matches field.ErrIrregularGrid when any axis deviates
// from uniform spacing.
func New(x, y, z []float64, opts ...Option) (*PressureField, error) {
	g, err := field.NewGrid(x, y, z)
	if err != nil {
		return nil, err
	}
	return fromGrid(g, opts...), nil
}

// NewFromMesh builds a PressureField from meshgrid-style broadcast
// coordinate arrays, reading only the varying axis of each.
func NewFromMesh(x, y, z [][][]float64, opts ...Option) (*PressureField, error) {
	g, err := field.NewGridFromMesh(x, y, z)
	if err != nil {
		return nil, err
	}
	return fromGrid(g, opts...), nil
}

// NewFromGrid wraps an already validated grid.
func NewFromGrid(g *field.Grid, opts ...Option) *PressureField {
	return fromGrid(g, opts...)
}

func fromGrid(g *field.Grid, opts ...Option) *PressureField {
	pf := &PressureField{
		grid: g,
		lap:  operator.NewLaplacian(g),
	}
	for _, opt := range opts {
		opt(pf)
	}
	return pf
}

// Grid returns the validated grid.
func (pf *PressureField) Grid() *field.Grid {
	return pf.grid
}

// Solve projects the predictor velocity field (u0 mandatory; v0, w0 may
// be nil) onto a mass-conserving subspace. On failure the query state of
// the previous successful solve is left intact.
func (pf *PressureField) Solve(u0, v0, w0 *field.Scalar, opts SolveOptions) (*Result, error) {
	start := time.Now()

	if u0 == nil {
		return nil, ErrMissingPredictor
	}
	if err := pf.checkShape(u0, v0, w0); err != nil {
		return nil, err
	}

	a := opts.A
	if a == 0 {
		a = defaultA
	}
	tol := opts.Tol
	if tol == 0 {
		tol = defaultTol
	}

	// predictor fields are copied: the caller's arrays are never aliased
	u := u0.Clone()
	var v, w *field.Scalar
	if v0 != nil {
		v = v0.Clone()
	}
	if w0 != nil {
		w = w0.Clone()
	}

	div := fdm.Divergence(u, v, w, pf.grid)

	rhs := make([]float64, pf.grid.N)
	for i, d := range div.Data {
		rhs[i] = d / a
	}

	sol, iters, err := pf.lap.SolveCG(rhs, tol, pf.maxIter)
	if err != nil {
		return nil, err
	}
	p := field.FromFlat(sol, pf.grid.Nx, pf.grid.Ny, pf.grid.Nz)

	if v == nil {
		v = field.NewScalar(pf.grid.Nx, pf.grid.Ny, pf.grid.Nz)
	}
	if w == nil {
		w = field.NewScalar(pf.grid.Nx, pf.grid.Ny, pf.grid.Nz)
	}
	up, vp, wp := u.Clone(), v.Clone(), w.Clone()

	// subtract A*grad(p) on interior nodes; boundary nodes keep the
	// predictor values
	fdm.CorrectInterior(u, p, fdm.X, pf.grid.Dx, a)
	fdm.CorrectInterior(v, p, fdm.Y, pf.grid.Dy, a)
	fdm.CorrectInterior(w, p, fdm.Z, pf.grid.Dz, a)

	if opts.Smooth != nil {
		pf.smooth(u, opts.Smooth)
	}

	// swap in the new query state wholesale
	pf.div = div
	pf.u, pf.v, pf.w = u, v, w
	pf.p = p

	res := &Result{
		P:          p,
		U:          u,
		V:          v,
		W:          w,
		U0:         up,
		V0:         vp,
		W0:         wp,
		DivBefore:  div.InteriorNorm(),
		Iterations: iters,
		Elapsed:    time.Since(start),
	}
	res.DivAfter = fdm.Divergence(u, v, w, pf.grid).InteriorNorm()

	for _, o := range pf.observers {
		o.AfterSolve(res.clone())
	}

	// the caller's result never shares arrays with the query state
	return res.clone(), nil
}

// Div returns the divergence of the predictor field (the cached solve
// right-hand side before scaling) or, when corrected is true, of the
// corrected field recomputed from the last solve. Pure read.
func (pf *PressureField) Div(corrected bool) (*field.Scalar, error) {
	if pf.div == nil {
		return nil, ErrNotSolved
	}
	if corrected {
		return fdm.Divergence(pf.u, pf.v, pf.w, pf.grid), nil
	}
	return pf.div.Clone(), nil
}

// Pressure returns a copy of the pressure field of the last successful
// solve.
func (pf *PressureField) Pressure() (*field.Scalar, error) {
	if pf.p == nil {
		return nil, ErrNotSolved
	}
	return pf.p.Clone(), nil
}

// Velocity returns copies of the corrected fields of the last successful
// solve.
func (pf *PressureField) Velocity() (u, v, w *field.Scalar, err error) {
	if pf.u == nil {
		return nil, nil, nil, ErrNotSolved
	}
	return pf.u.Clone(), pf.v.Clone(), pf.w.Clone(), nil
}

func (pf *PressureField) checkShape(fields ...*field.Scalar) error {
	for _, f := range fields {
		if f == nil {
			continue
		}
		if !f.Matches(pf.grid) {
			return fmt.Errorf("%w: field %dx%dx%d, grid %dx%dx%d",
				field.ErrShapeMismatch, f.Nx, f.Ny, f.Nz,
				pf.grid.Nx, pf.grid.Ny, pf.grid.Nz)
		}
	}
	return nil
}
