package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLength        = 10.0
	DefaultFibTerms      = 12
	DefaultSteps         = 5000
	DefaultStride        = 250
	DefaultBaseline      = 1e-5
	DefaultStrength      = 0.1
	DefaultWidthFraction = 0.1
	DefaultMatter        = 1000.0
	DefaultExotic        = -100.0
	DefaultImage         = "fibonacci_spacetime_evolution.svg"
)

type Config struct {
	Name         string             `yaml:"name"`
	Domain       DomainConfig       `yaml:"domain"`
	Run          RunConfig          `yaml:"run"`
	Perturbation PerturbationConfig `yaml:"perturbation"`
	Sources      SourceConfig       `yaml:"sources"`
	Params       physics.Params     `yaml:"params"`
	Output       OutputConfig       `yaml:"output"`
}

type DomainConfig struct {
	Length   float64 `yaml:"length"`
	FibTerms int     `yaml:"fib_terms"`
	// Uniform spaces FibTerms+1 points evenly instead.
	Uniform bool `yaml:"uniform"`
}

type RunConfig struct {
	Steps    int     `yaml:"steps"`
	Stride   int     `yaml:"stride"`
	Baseline float64 `yaml:"baseline"`
}

type PerturbationConfig struct {
	Strength float64 `yaml:"strength"`
	// Width is a fraction of the domain length; the Gaussian sigma is Width*L/5.
	Width float64 `yaml:"width"`
}

type SourceConfig struct {
	Matter float64 `yaml:"matter"`
	Exotic float64 `yaml:"exotic"`
	Zero   bool    `yaml:"zero"`
}

type OutputConfig struct {
	Image string `yaml:"image"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "fibonacci",
		Domain: DomainConfig{
			Length:   DefaultLength,
			FibTerms: DefaultFibTerms,
		},
		Run: RunConfig{
			Steps:    DefaultSteps,
			Stride:   DefaultStride,
			Baseline: DefaultBaseline,
		},
		Perturbation: PerturbationConfig{
			Strength: DefaultStrength,
			Width:    DefaultWidthFraction,
		},
		Sources: SourceConfig{
			Matter: DefaultMatter,
			Exotic: DefaultExotic,
		},
		Params: physics.DefaultParams(),
		Output: OutputConfig{Image: DefaultImage},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads path on top of a copy of base; keys missing from the file
// keep base's values.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Validate() error {
	switch {
	case c.Domain.Length <= 0:
		return fmt.Errorf("domain.length must be positive, got %g: %w", c.Domain.Length, dynamo.ErrInvalidConfig)
	case c.Domain.FibTerms < 2:
		return fmt.Errorf("domain.fib_terms must be at least 2, got %d: %w", c.Domain.FibTerms, dynamo.ErrInvalidConfig)
	case c.Run.Steps <= 0:
		return fmt.Errorf("run.steps must be positive, got %d: %w", c.Run.Steps, dynamo.ErrInvalidConfig)
	case c.Run.Stride <= 0:
		return fmt.Errorf("run.stride must be positive, got %d: %w", c.Run.Stride, dynamo.ErrInvalidConfig)
	case c.Perturbation.Width < 0:
		return fmt.Errorf("perturbation.width must not be negative, got %g: %w", c.Perturbation.Width, dynamo.ErrInvalidConfig)
	case c.Params.C <= 0:
		return fmt.Errorf("params.c must be positive, got %g: %w", c.Params.C, dynamo.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) Grid() (*physics.Grid, error) {
	if c.Domain.Uniform {
		return physics.UniformGrid(c.Domain.Length, c.Domain.FibTerms)
	}
	return physics.FibonacciGrid(c.Domain.Length, c.Domain.FibTerms)
}

// SourceLayout returns the density layout and the probe index used for the final report.
func (c *Config) SourceLayout(g *physics.Grid) (*physics.Densities, int) {
	d, center := physics.LocalizedSources(g, c.Sources.Matter, c.Sources.Exotic)
	if c.Sources.Zero {
		return physics.ZeroSources(g.Len()), center
	}
	return d, center
}

func (c *Config) Initial(g *physics.Grid) dynamo.Field {
	sigma := c.Perturbation.Width * c.Domain.Length / 5
	return physics.GaussianPulse(g, c.Run.Baseline, c.Perturbation.Strength, sigma)
}

func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{
		Steps:    c.Run.Steps,
		Stride:   c.Run.Stride,
		Baseline: c.Run.Baseline,
	}
}

// SetParam sets a run setting or physical constant by name.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "length":
		c.Domain.Length = v
	case "baseline":
		c.Run.Baseline = v
	case "strength":
		c.Perturbation.Strength = v
	case "width":
		c.Perturbation.Width = v
	case "matter":
		c.Sources.Matter = v
	case "exotic":
		c.Sources.Exotic = v
	default:
		p, ok := c.Params.WithParam(name, v)
		if !ok {
			return fmt.Errorf("unknown parameter %q (available: %v): %w", name, c.ParamNames(), dynamo.ErrInvalidConfig)
		}
		c.Params = p
	}
	return nil
}

// ParamNames lists every name SetParam accepts, sorted.
func (c *Config) ParamNames() []string {
	names := []string{"length", "baseline", "strength", "width", "matter", "exotic"}
	for name := range c.Params.GetParams() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
