package field

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Scalar is a dense 3-D scalar field. Data is flat in row-major order
// (x slowest, z fastest), matching Grid.Idx.
type Scalar struct {
	Nx, Ny, Nz int
	Data       []float64
}

// NewScalar allocates a zero field of the given shape.
func NewScalar(nx, ny, nz int) *Scalar {
	return &Scalar{
		Nx:   nx,
		Ny:   ny,
		Nz:   nz,
		Data: make([]float64, nx*ny*nz),
	}
}

// FromFlat wraps an existing flat vector as a scalar field. The slice is
// not copied.
func FromFlat(data []float64, nx, ny, nz int) *Scalar {
	return &Scalar{Nx: nx, Ny: ny, Nz: nz, Data: data}
}

func (s *Scalar) idx(i, j, k int) int {
	return (i*s.Ny+j)*s.Nz + k
}

// At returns the value at node (i, j, k).
func (s *Scalar) At(i, j, k int) float64 {
	return s.Data[s.idx(i, j, k)]
}

// Set writes the value at node (i, j, k).
func (s *Scalar) Set(i, j, k int, v float64) {
	s.Data[s.idx(i, j, k)] = v
}

// Clone returns a deep copy.
func (s *Scalar) Clone() *Scalar {
	c := NewScalar(s.Nx, s.Ny, s.Nz)
	copy(c.Data, s.Data)
	return c
}

// Fill sets every node to v.
func (s *Scalar) Fill(v float64) {
	for i := range s.Data {
		s.Data[i] = v
	}
}

// Matches reports whether the field shape matches the grid.
func (s *Scalar) Matches(g *Grid) bool {
	return s.Nx == g.Nx && s.Ny == g.Ny && s.Nz == g.Nz
}

// Norm returns the discrete L2 norm over all nodes.
func (s *Scalar) Norm() float64 {
	return floats.Norm(s.Data, 2)
}

// InteriorNorm returns the discrete L2 norm over interior nodes only
// (first and last node along each axis excluded).
func (s *Scalar) InteriorNorm() float64 {
	sum := 0.0
	for i := 1; i < s.Nx-1; i++ {
		for j := 1; j < s.Ny-1; j++ {
			row := s.Data[s.idx(i, j, 1) : s.idx(i, j, s.Nz-1)]
			sum += floats.Dot(row, row)
		}
	}
	return math.Sqrt(sum)
}

// SliceXY extracts the horizontal plane at z-index k as [ny][nx] rows,
// oriented for plotting (y rows, x columns).
func (s *Scalar) SliceXY(k int) [][]float64 {
	out := make([][]float64, s.Ny)
	for j := 0; j < s.Ny; j++ {
		row := make([]float64, s.Nx)
		for i := 0; i < s.Nx; i++ {
			row[i] = s.At(i, j, k)
		}
		out[j] = row
	}
	return out
}

// CenterlineX extracts the field along x at the domain center in y and z.
func (s *Scalar) CenterlineX() []float64 {
	j, k := s.Ny/2, s.Nz/2
	out := make([]float64, s.Nx)
	for i := 0; i < s.Nx; i++ {
		out[i] = s.At(i, j, k)
	}
	return out
}

// Abs returns a copy with every node replaced by its absolute value.
func (s *Scalar) Abs() *Scalar {
	c := s.Clone()
	for i, v := range c.Data {
		if v < 0 {
			c.Data[i] = -v
		}
	}
	return c
}
