package diag

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/hanrud/windproj/internal/fdm"
	"github.com/hanrud/windproj/internal/field"
	"github.com/hanrud/windproj/internal/pressure"
)

// SlicePlotter renders hub-height slices of each solve to PNG files:
// predictor vs corrected u and v, the pressure, and the absolute corrected
// divergence. Plot failures are recorded, never propagated into the solve.
type SlicePlotter struct {
	grid      *field.Grid
	outputDir string
	khub      int
	count     int
	lastErr   error
}

// NewSlicePlotter picks the z-slice nearest to hubHeight on the grid and
// writes plots under outputDir.
func NewSlicePlotter(grid *field.Grid, hubHeight float64, outputDir string) *SlicePlotter {
	return &SlicePlotter{
		grid:      grid,
		outputDir: outputDir,
		khub:      grid.NearestZ(hubHeight),
	}
}

// Err returns the most recent plotting failure, if any.
func (sp *SlicePlotter) Err() error {
	return sp.lastErr
}

// AfterSolve implements pressure.Observer.
func (sp *SlicePlotter) AfterSolve(r *pressure.Result) {
	if err := os.MkdirAll(sp.outputDir, 0755); err != nil {
		sp.lastErr = err
		return
	}

	div := pressureDiv(r, sp.grid)

	pages := []struct {
		name string
		s    *field.Scalar
	}{
		{"u0", r.U0},
		{"u", r.U},
		{"v0", r.V0},
		{"v", r.V},
		{"p", r.P},
		{"cont_err", div},
	}
	for _, pg := range pages {
		path := filepath.Join(sp.outputDir, fmt.Sprintf("%s_from_psolve_%04d.png", pg.name, sp.count))
		if err := sp.plotSlice(pg.s, path); err != nil {
			sp.lastErr = err
			return
		}
	}
	sp.count++
}

func pressureDiv(r *pressure.Result, g *field.Grid) *field.Scalar {
	// absolute corrected divergence, recomputed from the result copy
	return fdm.Divergence(r.U, r.V, r.W, g).Abs()
}

func (sp *SlicePlotter) plotSlice(s *field.Scalar, path string) error {
	p := plot.New()
	p.X.Label.Text = "x [m]"
	p.Y.Label.Text = "y [m]"

	hm := plotter.NewHeatMap(&sliceXYZ{
		x:    sp.grid.X,
		y:    sp.grid.Y,
		vals: s.SliceXY(sp.khub),
	}, moreland.SmoothBlueRed().Palette(128))
	p.Add(hm)

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// sliceXYZ adapts a horizontal field slice to plotter.GridXYZ.
type sliceXYZ struct {
	x, y []float64
	vals [][]float64 // rows by y, columns by x
}

func (s *sliceXYZ) Dims() (c, r int)   { return len(s.x), len(s.y) }
func (s *sliceXYZ) Z(c, r int) float64 { return s.vals[r][c] }
func (s *sliceXYZ) X(c int) float64    { return s.x[c] }
func (s *sliceXYZ) Y(r int) float64    { return s.y[r] }
