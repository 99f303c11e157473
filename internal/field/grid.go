// Package field provides the structured grid and scalar field types shared
// by the finite-difference operators and the pressure projection core.
package field

import "math"

// SpacingTol is the maximum deviation from uniform spacing tolerated
// along any axis.
const SpacingTol = 1e-8

// Grid is a uniform, axis-aligned structured mesh. Coordinates are node
// positions along each axis; fields over the grid are stored flat in
// row-major order with x slowest and z fastest.
type Grid struct {
	X, Y, Z    []float64
	Nx, Ny, Nz int
	N          int
	Dx, Dy, Dz float64
}

// NewGrid builds a grid from three 1-D coordinate arrays. Each axis must be
// monotonically increasing with constant spacing; otherwise the returned
// error matches ErrIrregularGrid.
func NewGrid(x, y, z []float64) (*Grid, error) {
	dx, err := axisSpacing("x", x)
	if err != nil {
		return nil, err
	}
	dy, err := axisSpacing("y", y)
	if err != nil {
		return nil, err
	}
	dz, err := axisSpacing("z", z)
	if err != nil {
		return nil, err
	}

	g := &Grid{
		X:  append([]float64(nil), x...),
		Y:  append([]float64(nil), y...),
		Z:  append([]float64(nil), z...),
		Nx: len(x),
		Ny: len(y),
		Nz: len(z),
		Dx: dx,
		Dy: dy,
		Dz: dz,
	}
	g.N = g.Nx * g.Ny * g.Nz
	return g, nil
}

// NewGridFromMesh builds a grid from meshgrid-style broadcast arrays of
// shape Nx x Ny x Nz, reading only the varying axis of each array.
func NewGridFromMesh(x, y, z [][][]float64) (*Grid, error) {
	if len(x) == 0 || len(x[0]) == 0 || len(x[0][0]) == 0 {
		return nil, ErrEmptyAxis
	}
	nx, ny, nz := len(x), len(x[0]), len(x[0][0])

	x1 := make([]float64, nx)
	for i := 0; i < nx; i++ {
		x1[i] = x[i][0][0]
	}
	y1 := make([]float64, ny)
	for j := 0; j < ny; j++ {
		y1[j] = y[0][j][0]
	}
	z1 := make([]float64, nz)
	for k := 0; k < nz; k++ {
		z1[k] = z[0][0][k]
	}
	return NewGrid(x1, y1, z1)
}

func axisSpacing(name string, c []float64) (float64, error) {
	if len(c) < 2 {
		return 0, ErrEmptyAxis
	}
	d0 := c[1] - c[0]
	for i := 2; i < len(c); i++ {
		d := c[i] - c[i-1]
		if math.Abs(d-d0) >= SpacingTol {
			return 0, &GridError{Axis: name, Index: i, Spacing: d, Want: d0}
		}
	}
	return d0, nil
}

// Idx returns the flat index of node (i, j, k).
func (g *Grid) Idx(i, j, k int) int {
	return (i*g.Ny+j)*g.Nz + k
}

// Shape returns the node counts along each axis.
func (g *Grid) Shape() (nx, ny, nz int) {
	return g.Nx, g.Ny, g.Nz
}

// NearestX returns the index of the x-node closest to pos.
func (g *Grid) NearestX(pos float64) int {
	return nearest(g.X, pos)
}

// NearestZ returns the index of the z-node closest to pos. Used to pick
// the hub-height slice for diagnostics.
func (g *Grid) NearestZ(pos float64) int {
	return nearest(g.Z, pos)
}

func nearest(c []float64, pos float64) int {
	best := 0
	min := math.Abs(c[0] - pos)
	for i := 1; i < len(c); i++ {
		if d := math.Abs(c[i] - pos); d < min {
			min = d
			best = i
		}
	}
	return best
}
