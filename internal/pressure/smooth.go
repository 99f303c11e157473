package pressure

import "github.com/hanrud/windproj/internal/field"

// smooth overwrites two consecutive x-slices of u with linear interpolants
// between the slices bracketing the feature at r.X, suppressing the
// numerical artifact that the projection leaves just up- and downstream of
// a localized flow obstruction. The whole yz-plane is interpolated; only
// u is touched.
func (pf *PressureField) smooth(u *field.Scalar, r *SmoothRegion) {
	i0 := pf.grid.NearestX(r.X)
	if pf.grid.X[i0] >= r.X {
		i0--
	}
	// the patch needs one slice upstream and two downstream
	if i0 < 1 || i0+2 >= pf.grid.Nx {
		return
	}

	for j := 0; j < u.Ny; j++ {
		for k := 0; k < u.Nz; k++ {
			f0 := u.At(i0-1, j, k)
			f1 := u.At(i0+2, j, k)
			u.Set(i0, j, k, (f1-f0)/3+f0)
			u.Set(i0+1, j, k, 2*(f1-f0)/3+f0)
		}
	}
}
