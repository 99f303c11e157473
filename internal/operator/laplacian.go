package operator

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hanrud/windproj/internal/field"
)

// Laplacian is the discrete 3-D Laplacian for a uniform grid, stored as a
// constant main diagonal and three symmetric off-diagonal bands. It is
// immutable after assembly.
type Laplacian struct {
	size             int
	offX, offY, offZ int
	diag             float64
	bandX            []float64
	bandY            []float64
	bandZ            []float64
}

var _ mat.Symmetric = (*Laplacian)(nil)

// NewLaplacian assembles the operator for the given grid.
func NewLaplacian(g *field.Grid) *Laplacian {
	invDx2 := 1 / (g.Dx * g.Dx)
	invDy2 := 1 / (g.Dy * g.Dy)
	invDz2 := 1 / (g.Dz * g.Dz)

	l := &Laplacian{
		size: g.N,
		offX: g.Ny * g.Nz,
		offY: g.Nz,
		offZ: 1,
		diag: -2*invDx2 - 2*invDy2 - 2*invDz2,
	}

	// x band: truncation at the slab edge is the only correction needed,
	// since the offset spans a full y-z slab.
	l.bandX = make([]float64, g.N-l.offX)
	for i := range l.bandX {
		l.bandX[i] = invDx2
	}

	// y band: zero the coupling that would wrap across the y boundary
	// within each slab (the last z-column of every slab).
	l.bandY = make([]float64, g.N-l.offY)
	for i := range l.bandY {
		l.bandY[i] = invDy2
	}
	for i := l.offX; i < len(l.bandY); i += l.offX {
		for j := i - l.offY; j < i; j++ {
			l.bandY[j] -= invDy2
		}
	}

	// z band: zero the wraparound at every Nz-th position, z being the
	// fastest-varying index.
	l.bandZ = make([]float64, g.N-l.offZ)
	for i := range l.bandZ {
		l.bandZ[i] = invDz2
	}
	for i := g.Nz - 1; i < len(l.bandZ); i += g.Nz {
		l.bandZ[i] -= invDz2
	}

	return l
}

// MulVec computes dst = L*x. dst and x must both have length N and must
// not alias.
func (l *Laplacian) MulVec(dst, x []float64) {
	for i := range dst {
		dst[i] = l.diag * x[i]
	}
	mulBand(dst, x, l.bandX, l.offX)
	mulBand(dst, x, l.bandY, l.offY)
	mulBand(dst, x, l.bandZ, l.offZ)
}

func mulBand(dst, x, band []float64, off int) {
	for i, b := range band {
		if b == 0 {
			continue
		}
		dst[i] += b * x[i+off]
		dst[i+off] += b * x[i]
	}
}

// Dims implements mat.Matrix.
func (l *Laplacian) Dims() (r, c int) { return l.size, l.size }

// SymmetricDim implements mat.Symmetric.
func (l *Laplacian) SymmetricDim() int { return l.size }

// T implements mat.Matrix; the operator is symmetric.
func (l *Laplacian) T() mat.Matrix { return l }

// At implements mat.Matrix.
func (l *Laplacian) At(i, j int) float64 {
	if i == j {
		return l.diag
	}
	if j < i {
		i, j = j, i
	}
	switch j - i {
	case l.offX:
		return l.bandX[i]
	case l.offY:
		return l.bandY[i]
	case l.offZ:
		return l.bandZ[i]
	}
	return 0
}
