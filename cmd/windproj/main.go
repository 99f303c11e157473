package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/hanrud/windproj/internal/config"
	"github.com/hanrud/windproj/internal/diag"
	"github.com/hanrud/windproj/internal/fdm"
	"github.com/hanrud/windproj/internal/field"
	"github.com/hanrud/windproj/internal/pressure"
	"github.com/hanrud/windproj/internal/storage"
	"github.com/hanrud/windproj/internal/synth"
	"github.com/hanrud/windproj/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string

	predictor string
	nx        int
	ny        int
	nz        int
	dx        float64
	dy        float64
	dz        float64

	aCoef   float64
	tol     float64
	maxIter int

	smooth  bool
	smoothX float64
	smoothY float64
	smoothZ float64
	smoothD float64

	plots     bool
	plotDir   string
	hubHeight float64
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "windproj",
		Short: "pressure projection lab for wind fields",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".windproj", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "project a predictor field to a divergence-free one",
		RunE:  runSolve,
	}
	addSolveFlags(solveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored solves",
		RunE:  listSolves,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot centerline divergence of a stored solve",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSolve,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export solve report as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSolve,
	}

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "solve and browse the hub-height slice interactively",
		RunE:  runView,
	}
	addSolveFlags(viewCmd)

	predictorsCmd := &cobra.Command{
		Use:   "predictors",
		Short: "list available predictor fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range synth.NewRegistry().List() {
				fmt.Println(name)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(solveCmd, listCmd, plotCmd, exportCmd, viewCmd, predictorsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&predictor, "predictor", "gauss", "predictor field")
	cmd.Flags().IntVar(&nx, "nx", config.DefaultNx, "nodes along x")
	cmd.Flags().IntVar(&ny, "ny", config.DefaultNy, "nodes along y")
	cmd.Flags().IntVar(&nz, "nz", config.DefaultNz, "nodes along z")
	cmd.Flags().Float64Var(&dx, "dx", config.DefaultSpacing, "spacing along x")
	cmd.Flags().Float64Var(&dy, "dy", config.DefaultSpacing, "spacing along y")
	cmd.Flags().Float64Var(&dz, "dz", config.DefaultSpacing, "spacing along z")
	cmd.Flags().Float64Var(&aCoef, "a", config.DefaultA, "timestep factor")
	cmd.Flags().Float64Var(&tol, "tol", config.DefaultTol, "solver tolerance")
	cmd.Flags().IntVar(&maxIter, "max-iter", 0, "solver iteration cap (0 = auto)")
	cmd.Flags().BoolVar(&smooth, "smooth", false, "apply planar smoothing")
	cmd.Flags().Float64Var(&smoothX, "smooth-x", 0, "smoothing plane x position")
	cmd.Flags().Float64Var(&smoothY, "smooth-y", 0, "smoothing plane y position")
	cmd.Flags().Float64Var(&smoothZ, "smooth-z", 0, "smoothing plane z position")
	cmd.Flags().Float64Var(&smoothD, "smooth-d", 0, "smoothing region diameter")
	cmd.Flags().BoolVar(&plots, "plots", false, "write slice plots")
	cmd.Flags().StringVar(&plotDir, "plot-dir", "plots", "plot output directory")
	cmd.Flags().Float64Var(&hubHeight, "hub", config.DefaultHub, "hub height for slices")
}

// loadConfig merges the config file (if any) under the CLI flags. Flags
// that were set explicitly win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("predictor") {
		cfg.Predictor.Name = predictor
	}
	if cmd.Flags().Changed("nx") {
		cfg.Grid.Nx = nx
	}
	if cmd.Flags().Changed("ny") {
		cfg.Grid.Ny = ny
	}
	if cmd.Flags().Changed("nz") {
		cfg.Grid.Nz = nz
	}
	if cmd.Flags().Changed("dx") {
		cfg.Grid.Dx = dx
	}
	if cmd.Flags().Changed("dy") {
		cfg.Grid.Dy = dy
	}
	if cmd.Flags().Changed("dz") {
		cfg.Grid.Dz = dz
	}
	if cmd.Flags().Changed("a") {
		cfg.Solve.A = aCoef
	}
	if cmd.Flags().Changed("tol") {
		cfg.Solve.Tol = tol
	}
	if cmd.Flags().Changed("max-iter") {
		cfg.Solve.MaxIter = maxIter
	}
	if cmd.Flags().Changed("smooth") {
		cfg.Smooth.Enabled = smooth
	}
	if cmd.Flags().Changed("smooth-x") {
		cfg.Smooth.X = smoothX
	}
	if cmd.Flags().Changed("smooth-y") {
		cfg.Smooth.Y = smoothY
	}
	if cmd.Flags().Changed("smooth-z") {
		cfg.Smooth.Z = smoothZ
	}
	if cmd.Flags().Changed("smooth-d") {
		cfg.Smooth.D = smoothD
	}
	if cmd.Flags().Changed("plots") {
		cfg.Output.Plots = plots
	}
	if cmd.Flags().Changed("plot-dir") {
		cfg.Output.PlotDir = plotDir
	}
	if cmd.Flags().Changed("hub") {
		cfg.Output.HubHeight = hubHeight
	}
	if cmd.Flags().Changed("data") {
		cfg.Output.DataDir = dataDir
	}
	return cfg, nil
}

// project builds the predictor on the given grid and runs one solve.
func project(grid *field.Grid, cfg *config.Config, extra ...pressure.Observer) (*field.Scalar, *pressure.PressureField, *pressure.Result, error) {
	u0, err := synth.NewRegistry().Get(cfg.Predictor.Name, grid, cfg.Predictor.Params)
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []pressure.Option{}
	if cfg.Solve.MaxIter > 0 {
		opts = append(opts, pressure.WithMaxIterations(cfg.Solve.MaxIter))
	}
	for _, o := range extra {
		opts = append(opts, pressure.WithObserver(o))
	}
	pf := pressure.NewFromGrid(grid, opts...)

	solveOpts := pressure.SolveOptions{A: cfg.Solve.A, Tol: cfg.Solve.Tol}
	if cfg.Smooth.Enabled {
		solveOpts.Smooth = &pressure.SmoothRegion{
			X:    cfg.Smooth.X,
			Y:    cfg.Smooth.Y,
			Z:    cfg.Smooth.Z,
			D:    cfg.Smooth.D,
			ZHub: cfg.Smooth.ZHub,
		}
	}

	res, err := pf.Solve(u0, nil, nil, solveOpts)
	if err != nil {
		return nil, nil, nil, err
	}
	return u0, pf, res, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.Output.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	grid, err := cfg.BuildGrid()
	if err != nil {
		return err
	}

	stats := diag.NewStats()
	observers := []pressure.Observer{stats}

	var plotter *diag.SlicePlotter
	if cfg.Output.Plots {
		plotter = diag.NewSlicePlotter(grid, cfg.Output.HubHeight, cfg.Output.PlotDir)
		observers = append(observers, plotter)
	}

	fmt.Printf("projecting %s predictor on %dx%dx%d grid...\n",
		cfg.Predictor.Name, cfg.Grid.Nx, cfg.Grid.Ny, cfg.Grid.Nz)

	u0, pf, res, err := project(grid, cfg, observers...)
	if err != nil {
		return err
	}

	before := fdm.Divergence(u0, nil, nil, grid).Abs().CenterlineX()
	divAfter, err := pf.Div(true)
	if err != nil {
		return err
	}
	after := divAfter.Abs().CenterlineX()

	report := &storage.Report{
		Predictor:        cfg.Predictor.Name,
		Shape:            [3]int{grid.Nx, grid.Ny, grid.Nz},
		Spacing:          [3]float64{grid.Dx, grid.Dy, grid.Dz},
		A:                cfg.Solve.A,
		Tol:              cfg.Solve.Tol,
		Iterations:       res.Iterations,
		DivBefore:        res.DivBefore,
		DivAfter:         res.DivAfter,
		ElapsedMS:        float64(res.Elapsed.Microseconds()) / 1000,
		CenterlineBefore: before,
		CenterlineAfter:  after,
	}
	id, err := st.Save(report)
	if err != nil {
		return err
	}

	rec := stats.Last()
	fmt.Println()
	fmt.Println(titleStyle.Render("projection complete"))
	printKV("run id", id)
	printKV("iterations", fmt.Sprintf("%d", rec.Iterations))
	printKV("elapsed", rec.Elapsed.String())
	printKV("interior |div| before", fmt.Sprintf("%.6e", rec.DivBefore))
	printKV("interior |div| after", fmt.Sprintf("%.6e", rec.DivAfter))
	if rec.DivBefore > 0 {
		printKV("reduction", okStyle.Render(fmt.Sprintf("%.2e", stats.MeanReduction())))
	}
	if plotter != nil {
		if err := plotter.Err(); err != nil {
			fmt.Printf("plots: %v\n", err)
		} else {
			printKV("plots", cfg.Output.PlotDir)
		}
	}

	fmt.Println()
	plotCenterlines(before, after)
	return nil
}

func printKV(key, val string) {
	fmt.Printf("  %s %s\n", keyStyle.Render(key+":"), valStyle.Render(val))
}

func plotCenterlines(before, after []float64) {
	fmt.Println(asciigraph.Plot(before,
		asciigraph.Height(8),
		asciigraph.Width(72),
		asciigraph.Caption("centerline |divergence| before correction"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(after,
		asciigraph.Height(8),
		asciigraph.Width(72),
		asciigraph.Caption("centerline |divergence| after correction"),
	))
}

func listSolves(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	reports, err := st.List()
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Println("no solves found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPREDICTOR\tTIME\tGRID\tITERS\tDIV BEFORE\tDIV AFTER")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%dx%d\t%d\t%.3e\t%.3e\n",
			r.ID,
			r.Predictor,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Shape[0], r.Shape[1], r.Shape[2],
			r.Iterations,
			r.DivBefore,
			r.DivAfter,
		)
	}
	return w.Flush()
}

func plotSolve(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	r, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", r.ID)
	fmt.Printf("predictor: %s\n", r.Predictor)
	fmt.Printf("grid: %dx%dx%d\n\n", r.Shape[0], r.Shape[1], r.Shape[2])

	if len(r.CenterlineBefore) == 0 {
		return fmt.Errorf("no centerline data in report")
	}
	plotCenterlines(r.CenterlineBefore, r.CenterlineAfter)
	return nil
}

func exportSolve(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	r, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(r)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	grid, err := cfg.BuildGrid()
	if err != nil {
		return err
	}

	u0, _, res, err := project(grid, cfg)
	if err != nil {
		return err
	}

	khub := grid.NearestZ(cfg.Output.HubHeight)
	title := fmt.Sprintf("u at z=%.0f (%s predictor, %d iterations)",
		grid.Z[khub], cfg.Predictor.Name, res.Iterations)
	return viz.Run(viz.NewSliceViewer(title, u0.SliceXY(khub), res.U.SliceXY(khub)))
}
