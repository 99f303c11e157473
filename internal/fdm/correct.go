package fdm

import "github.com/hanrud/windproj/internal/field"

// CorrectInterior subtracts a*dp/d(axis), evaluated by central differences,
// from dst at every node that is interior along the axis. The first and
// last node along the axis keep their predictor values untouched.
func CorrectInterior(dst, p *field.Scalar, ax Axis, d, a float64) {
	c := a / (2 * d)

	switch ax {
	case X:
		for i := 1; i < dst.Nx-1; i++ {
			for j := 0; j < dst.Ny; j++ {
				for k := 0; k < dst.Nz; k++ {
					dst.Set(i, j, k, dst.At(i, j, k)-c*(p.At(i+1, j, k)-p.At(i-1, j, k)))
				}
			}
		}
	case Y:
		for i := 0; i < dst.Nx; i++ {
			for j := 1; j < dst.Ny-1; j++ {
				for k := 0; k < dst.Nz; k++ {
					dst.Set(i, j, k, dst.At(i, j, k)-c*(p.At(i, j+1, k)-p.At(i, j-1, k)))
				}
			}
		}
	case Z:
		for i := 0; i < dst.Nx; i++ {
			for j := 0; j < dst.Ny; j++ {
				for k := 1; k < dst.Nz-1; k++ {
					dst.Set(i, j, k, dst.At(i, j, k)-c*(p.At(i, j, k+1)-p.At(i, j, k-1)))
				}
			}
		}
	}
}
