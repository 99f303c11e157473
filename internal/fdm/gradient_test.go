package fdm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hanrud/windproj/internal/fdm"
	"github.com/hanrud/windproj/internal/field"
)

func uniformAxis(n int, d float64) []float64 {
	c := make([]float64, n)
	for i := range c {
		c[i] = float64(i) * d
	}
	return c
}

// fillFrom evaluates fn at every node using the grid coordinates.
func fillFrom(g *field.Grid, fn func(x, y, z float64) float64) *field.Scalar {
	s := field.NewScalar(g.Nx, g.Ny, g.Nz)
	for i := 0; i < g.Nx; i++ {
		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				s.Set(i, j, k, fn(g.X[i], g.Y[j], g.Z[k]))
			}
		}
	}
	return s
}

var _ = Describe("Gradient", func() {
	var g *field.Grid

	BeforeEach(func() {
		var err error
		g, err = field.NewGrid(uniformAxis(6, 2), uniformAxis(5, 3), uniformAxis(7, 1.5))
		Expect(err).NotTo(HaveOccurred())
	})

	It("differentiates a linear field exactly, boundaries included", func() {
		f := fillFrom(g, func(x, y, z float64) float64 { return 3*x - 2*y + 0.5*z })

		dfdx := fdm.Gradient(f, fdm.X, g.Dx)
		dfdy := fdm.Gradient(f, fdm.Y, g.Dy)
		dfdz := fdm.Gradient(f, fdm.Z, g.Dz)

		for _, v := range dfdx.Data {
			Expect(v).To(BeNumerically("~", 3, 1e-12))
		}
		for _, v := range dfdy.Data {
			Expect(v).To(BeNumerically("~", -2, 1e-12))
		}
		for _, v := range dfdz.Data {
			Expect(v).To(BeNumerically("~", 0.5, 1e-12))
		}
	})

	It("is exact for quadratics on interior nodes", func() {
		f := fillFrom(g, func(x, y, z float64) float64 { return x * x })
		dfdx := fdm.Gradient(f, fdm.X, g.Dx)

		for i := 1; i < g.Nx-1; i++ {
			Expect(dfdx.At(i, 2, 3)).To(BeNumerically("~", 2*g.X[i], 1e-10))
		}
	})

	It("uses one-sided differences at the boundary nodes", func() {
		f := fillFrom(g, func(x, y, z float64) float64 { return x * x })
		dfdx := fdm.Gradient(f, fdm.X, g.Dx)

		first := (f.At(1, 0, 0) - f.At(0, 0, 0)) / g.Dx
		last := (f.At(g.Nx-1, 0, 0) - f.At(g.Nx-2, 0, 0)) / g.Dx
		Expect(dfdx.At(0, 0, 0)).To(Equal(first))
		Expect(dfdx.At(g.Nx-1, 0, 0)).To(Equal(last))
	})
})

var _ = Describe("Divergence", func() {
	var g *field.Grid

	BeforeEach(func() {
		var err error
		g, err = field.NewGrid(uniformAxis(6, 2), uniformAxis(6, 2), uniformAxis(6, 2))
		Expect(err).NotTo(HaveOccurred())
	})

	It("sums the contributions of all supplied components", func() {
		u := fillFrom(g, func(x, y, z float64) float64 { return x })
		v := fillFrom(g, func(x, y, z float64) float64 { return 2 * y })
		w := fillFrom(g, func(x, y, z float64) float64 { return -3 * z })

		div := fdm.Divergence(u, v, w, g)
		for _, d := range div.Data {
			Expect(d).To(BeNumerically("~", 0, 1e-12))
		}
	})

	It("skips absent components", func() {
		u := fillFrom(g, func(x, y, z float64) float64 { return x })

		div := fdm.Divergence(u, nil, nil, g)
		for _, d := range div.Data {
			Expect(d).To(BeNumerically("~", 1, 1e-12))
		}
	})

	It("matches the single-axis gradient for a u-only field", func() {
		u := fillFrom(g, func(x, y, z float64) float64 { return x * x })

		div := fdm.Divergence(u, nil, nil, g)
		grad := fdm.Gradient(u, fdm.X, g.Dx)
		Expect(div.Data).To(Equal(grad.Data))
	})
})

var _ = Describe("CorrectInterior", func() {
	It("leaves boundary nodes untouched along the corrected axis", func() {
		g, err := field.NewGrid(uniformAxis(5, 1), uniformAxis(5, 1), uniformAxis(5, 1))
		Expect(err).NotTo(HaveOccurred())

		u := field.NewScalar(g.Nx, g.Ny, g.Nz)
		u.Fill(4)
		p := fillFrom(g, func(x, y, z float64) float64 { return x })

		fdm.CorrectInterior(u, p, fdm.X, g.Dx, 1.0)

		for j := 0; j < g.Ny; j++ {
			for k := 0; k < g.Nz; k++ {
				Expect(u.At(0, j, k)).To(Equal(4.0))
				Expect(u.At(g.Nx-1, j, k)).To(Equal(4.0))
			}
		}
		// interior: u - A*dp/dx = 4 - 1
		Expect(u.At(2, 2, 2)).To(BeNumerically("~", 3, 1e-12))
	})
})
