package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hanrud/windproj/internal/field"
)

const (
	DefaultNx      = 32
	DefaultNy      = 16
	DefaultNz      = 16
	DefaultSpacing = 10.0
	DefaultA       = 1.0
	DefaultTol     = 1e-8
	DefaultHub     = 90.0
)

type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Predictor PredictorConfig `yaml:"predictor"`
	Solve     SolveConfig     `yaml:"solve"`
	Smooth    SmoothConfig    `yaml:"smooth"`
	Output    OutputConfig    `yaml:"output"`
}

type GridConfig struct {
	Nx int     `yaml:"nx"`
	Ny int     `yaml:"ny"`
	Nz int     `yaml:"nz"`
	Dx float64 `yaml:"dx"`
	Dy float64 `yaml:"dy"`
	Dz float64 `yaml:"dz"`
}

type PredictorConfig struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params"`
}

type SolveConfig struct {
	A       float64 `yaml:"a"`
	Tol     float64 `yaml:"tol"`
	MaxIter int     `yaml:"max_iter"`
}

type SmoothConfig struct {
	Enabled bool    `yaml:"enabled"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Z       float64 `yaml:"z"`
	D       float64 `yaml:"d"`
	ZHub    float64 `yaml:"zhub"`
}

type OutputConfig struct {
	DataDir   string  `yaml:"data_dir"`
	Plots     bool    `yaml:"plots"`
	PlotDir   string  `yaml:"plot_dir"`
	HubHeight float64 `yaml:"hub_height"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Nx: DefaultNx,
			Ny: DefaultNy,
			Nz: DefaultNz,
			Dx: DefaultSpacing,
			Dy: DefaultSpacing,
			Dz: DefaultSpacing,
		},
		Predictor: PredictorConfig{
			Name: "gauss",
		},
		Solve: SolveConfig{
			A:   DefaultA,
			Tol: DefaultTol,
		},
		Output: OutputConfig{
			DataDir:   ".windproj",
			PlotDir:   "plots",
			HubHeight: DefaultHub,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildGrid constructs the validated grid described by the config.
func (c *Config) BuildGrid() (*field.Grid, error) {
	g := c.Grid
	if g.Nx < 2 || g.Ny < 2 || g.Nz < 2 {
		return nil, fmt.Errorf("config: grid needs at least 2 nodes per axis, got %dx%dx%d", g.Nx, g.Ny, g.Nz)
	}
	if g.Dx <= 0 || g.Dy <= 0 || g.Dz <= 0 {
		return nil, fmt.Errorf("config: grid spacing must be positive")
	}

	axis := func(n int, d float64) []float64 {
		c := make([]float64, n)
		for i := range c {
			c[i] = float64(i) * d
		}
		return c
	}
	return field.NewGrid(axis(g.Nx, g.Dx), axis(g.Ny, g.Dy), axis(g.Nz, g.Dz))
}
