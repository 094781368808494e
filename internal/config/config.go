package config

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/polypot/internal/atoms"
	"github.com/san-kum/polypot/internal/dict"
	"github.com/san-kum/polypot/internal/md"
	"github.com/san-kum/polypot/internal/nbody"
	"github.com/san-kum/polypot/internal/potential"
)

const (
	DefaultLattice     = "fcc"
	DefaultA           = 1.55
	DefaultReps        = 3
	DefaultDt          = 0.005
	DefaultSteps       = 1000
	DefaultMass        = 1.0
	DefaultTemperature = 0.1
	DefaultEvery       = 10
	DefaultScale       = 0.01
)

type Config struct {
	Name    string        `yaml:"name"`
	E0      float64       `yaml:"e0"`
	Bodies  []BodyConfig  `yaml:"bodies"`
	Lattice LatticeConfig `yaml:"lattice"`
	MD      MDConfig      `yaml:"md"`
	Workers int           `yaml:"workers"`
	Seed    int64         `yaml:"seed"`
}

// BodyConfig describes one N-body term. Explicit tuples and coefficients
// take precedence; otherwise every tuple up to Degree gets a random
// coefficient in [-Scale, Scale].
type BodyConfig struct {
	Order     int       `yaml:"order"`
	Degree    int       `yaml:"degree"`
	Transform string    `yaml:"transform"`
	Cutoff    string    `yaml:"cutoff"`
	Inverse   bool      `yaml:"inverse,omitempty"`
	Tuples    [][]int   `yaml:"tuples,omitempty"`
	Coeffs    []float64 `yaml:"coeffs,omitempty"`
	Scale     float64   `yaml:"scale,omitempty"`
}

type LatticeConfig struct {
	Kind   string  `yaml:"kind"`
	A      float64 `yaml:"a"`
	Reps   [3]int  `yaml:"reps"`
	Rattle float64 `yaml:"rattle"`
}

type MDConfig struct {
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`
	Mass        float64 `yaml:"mass"`
	Temperature float64 `yaml:"temperature"`
	Every       int     `yaml:"every"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "lj",
		Bodies: []BodyConfig{
			{Order: 2, Degree: 6, Transform: "inv(1,2)", Cutoff: "cos(2,2.5)",
				Tuples: [][]int{{6, 0}, {3, 0}}, Coeffs: []float64{2, -2}},
		},
		Lattice: LatticeConfig{
			Kind: DefaultLattice,
			A:    DefaultA,
			Reps: [3]int{DefaultReps, DefaultReps, DefaultReps},
		},
		MD: MDConfig{
			Dt:          DefaultDt,
			Steps:       DefaultSteps,
			Mass:        DefaultMass,
			Temperature: DefaultTemperature,
			Every:       DefaultEvery,
		},
		Seed: 1,
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

func (b BodyConfig) Dictionary() (*dict.Dictionary, error) {
	var opts []dict.Option
	if b.Inverse {
		opts = append(opts, dict.WithInverse())
	}
	return dict.New(b.Order, b.Transform, b.Cutoff, opts...)
}

// Basis returns a constant 1-body function followed by the unit basis
// functions of every body, for fitting.
func (c *Config) Basis() ([]nbody.Term, error) {
	basis := []nbody.Term{nbody.NewOneBody(1)}
	for i, b := range c.Bodies {
		d, err := b.Dictionary()
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		terms, err := nbody.Basis(d, b.Degree)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		for _, t := range terms {
			basis = append(basis, t)
		}
	}
	return basis, nil
}

// Build assembles the potential the config describes.
func (c *Config) Build() (*potential.Potential, error) {
	rng := rand.New(rand.NewSource(c.Seed))
	terms := make([]nbody.Term, 0, len(c.Bodies)+1)
	if c.E0 != 0 {
		terms = append(terms, nbody.NewOneBody(c.E0))
	}

	for i, b := range c.Bodies {
		term, err := b.build(rng)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		terms = append(terms, term)
	}
	return potential.New(terms, potential.WithWorkers(c.Workers)), nil
}

func (b BodyConfig) build(rng *rand.Rand) (*nbody.NBody, error) {
	d, err := b.Dictionary()
	if err != nil {
		return nil, err
	}

	if len(b.Tuples) > 0 {
		tuples := make([]nbody.Tuple, len(b.Tuples))
		for k, t := range b.Tuples {
			tuples[k] = t
		}
		return nbody.New(d, tuples, b.Coeffs)
	}

	tuples, err := nbody.GenTuples(b.Order, nbody.DegreeBound(b.Order, b.Degree))
	if err != nil {
		return nil, err
	}
	scale := b.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	coeffs := make([]float64, len(tuples))
	for k := range coeffs {
		coeffs[k] = scale * (2*rng.Float64() - 1)
	}
	return nbody.New(d, tuples, coeffs)
}

// Atoms builds the configured lattice, rattled if requested.
func (c *Config) Atoms() (*atoms.Atoms, error) {
	at, err := atoms.Lattice(c.Lattice.Kind, c.Lattice.A, c.Lattice.Reps)
	if err != nil {
		return nil, err
	}
	if c.Lattice.Rattle > 0 {
		atoms.Rattle(at, c.Lattice.Rattle, c.Seed)
	}
	return at, nil
}

func (c *Config) MDConfig() md.Config {
	return md.Config{
		Dt:    c.MD.Dt,
		Steps: c.MD.Steps,
		Mass:  c.MD.Mass,
		Every: c.MD.Every,
	}
}
