// Package fdm implements finite-difference gradient and divergence
// estimates on uniform structured grids: second-order central differences
// on the interior, first-order one-sided differences at domain boundaries.
package fdm

import "github.com/hanrud/windproj/internal/field"

// Axis selects the differentiation direction.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// Gradient differentiates f along the given axis with node spacing d.
// Interior nodes use central differences, the first and last node along
// the axis use one-sided differences.
func Gradient(f *field.Scalar, ax Axis, d float64) *field.Scalar {
	g := field.NewScalar(f.Nx, f.Ny, f.Nz)

	switch ax {
	case X:
		for j := 0; j < f.Ny; j++ {
			for k := 0; k < f.Nz; k++ {
				g.Set(0, j, k, (f.At(1, j, k)-f.At(0, j, k))/d)
				g.Set(f.Nx-1, j, k, (f.At(f.Nx-1, j, k)-f.At(f.Nx-2, j, k))/d)
				for i := 1; i < f.Nx-1; i++ {
					g.Set(i, j, k, (f.At(i+1, j, k)-f.At(i-1, j, k))/(2*d))
				}
			}
		}
	case Y:
		for i := 0; i < f.Nx; i++ {
			for k := 0; k < f.Nz; k++ {
				g.Set(i, 0, k, (f.At(i, 1, k)-f.At(i, 0, k))/d)
				g.Set(i, f.Ny-1, k, (f.At(i, f.Ny-1, k)-f.At(i, f.Ny-2, k))/d)
				for j := 1; j < f.Ny-1; j++ {
					g.Set(i, j, k, (f.At(i, j+1, k)-f.At(i, j-1, k))/(2*d))
				}
			}
		}
	case Z:
		for i := 0; i < f.Nx; i++ {
			for j := 0; j < f.Ny; j++ {
				g.Set(i, j, 0, (f.At(i, j, 1)-f.At(i, j, 0))/d)
				g.Set(i, j, f.Nz-1, (f.At(i, j, f.Nz-1)-f.At(i, j, f.Nz-2))/d)
				for k := 1; k < f.Nz-1; k++ {
					g.Set(i, j, k, (f.At(i, j, k+1)-f.At(i, j, k-1))/(2*d))
				}
			}
		}
	}
	return g
}

// Divergence sums the directional derivatives of the supplied velocity
// components. v and w may be nil, in which case their contributions are
// skipped entirely.
func Divergence(u, v, w *field.Scalar, g *field.Grid) *field.Scalar {
	div := Gradient(u, X, g.Dx)
	if v != nil {
		add(div, Gradient(v, Y, g.Dy))
	}
	if w != nil {
		add(div, Gradient(w, Z, g.Dz))
	}
	return div
}

func add(dst, s *field.Scalar) {
	for i, v := range s.Data {
		dst.Data[i] += v
	}
}
