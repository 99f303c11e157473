// Package synth generates named synthetic predictor velocity fields for
// exercising the pressure projection from the CLI and tests.
package synth

import (
	"fmt"
	"math"
	"sort"

	"github.com/hanrud/windproj/internal/field"
)

// Generator produces a predictor u field on a grid.
type Generator func(g *field.Grid, params map[string]float64) *field.Scalar

type Registry struct {
	generators map[string]Generator
}

func NewRegistry() *Registry {
	r := &Registry{generators: make(map[string]Generator)}

	r.generators["uniform"] = Uniform
	r.generators["gauss"] = Gauss
	r.generators["sine"] = Sine
	r.generators["shear"] = Shear

	return r
}

// Get builds the named predictor field. Unset params fall back to
// per-generator defaults.
func (r *Registry) Get(name string, g *field.Grid, params map[string]float64) (*field.Scalar, error) {
	fn, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown predictor: %s", name)
	}
	return fn(g, params), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func param(params map[string]float64, name string, def float64) float64 {
	if params == nil {
		return def
	}
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

// Uniform is a constant streamwise flow. Params: speed (default 8).
func Uniform(g *field.Grid, params map[string]float64) *field.Scalar {
	s := field.NewScalar(g.Nx, g.Ny, g.Nz)
	s.Fill(param(params, "speed", 8))
	return s
}

// Gauss superposes a Gaussian velocity deficit on a uniform flow,
// resembling a wake. Params: speed (8), deficit (3), sigma (a quarter of
// the y extent by default).
func Gauss(g *field.Grid, params map[string]float64) *field.Scalar {
	speed := param(params, "speed", 8)
	deficit := param(params, "deficit", 3)
	sigma := param(params, "sigma", (g.Y[g.Ny-1]-g.Y[0])/4)

	cx := g.X[g.Nx/2]
	cy := g.Y[g.Ny/2]
	cz := g.Z[g.Nz/2]

	s := field.NewScalar(g.Nx, g.Ny, g.Nz)
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				dx, dy, dz := g.X[i]-cx, g.Y[j]-cy, g.Z[k]-cz
				r2 := dx*dx + dy*dy + dz*dz
				s.Set(i, j, k, speed-deficit*math.Exp(-r2/(2*sigma*sigma)))
			}
		}
	}
	return s
}

// Sine is a single sinusoidal mode along x. Params: amp (1), mode (1).
func Sine(g *field.Grid, params map[string]float64) *field.Scalar {
	amp := param(params, "amp", 1)
	mode := param(params, "mode", 1)
	l := g.X[g.Nx-1] - g.X[0] + g.Dx

	s := field.NewScalar(g.Nx, g.Ny, g.Nz)
	for i := 0; i < g.Nx; i++ {
		val := amp * math.Sin(2*math.Pi*mode*(g.X[i]-g.X[0])/l)
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				s.Set(i, j, k, val)
			}
		}
	}
	return s
}

// Shear is a log-law-like vertical profile. Params: uref (8), zref (90),
// alpha (0.14).
func Shear(g *field.Grid, params map[string]float64) *field.Scalar {
	uref := param(params, "uref", 8)
	zref := param(params, "zref", 90)
	alpha := param(params, "alpha", 0.14)

	s := field.NewScalar(g.Nx, g.Ny, g.Nz)
	for k := 0; k < g.Nz; k++ {
		z := g.Z[k]
		val := 0.0
		if z > 0 {
			val = uref * math.Pow(z/zref, alpha)
		}
		for i := 0; i < g.Nx; i++ {
			for j := 0; j < g.Ny; j++ {
				s.Set(i, j, k, val)
			}
		}
	}
	return s
}
