// Package potential sums basis terms of several body orders into the
// energy, forces and virial of an atomic configuration.
package potential

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/atoms"
	"github.com/san-kum/polypot/internal/logger"
	"github.com/san-kum/polypot/internal/nbody"
	"github.com/san-kum/polypot/internal/record"
)

const RecordID = "polypot.Potential"

// clusters per worker chunk below which evaluation stays on one goroutine
const minChunk = 64

// Potential is an immutable list of terms.
type Potential struct {
	terms   []nbody.Term
	source  atoms.ClusterSource
	workers int
}

type Option func(*Potential)

// WithClusterSource replaces the default site-centred neighbour list.
func WithClusterSource(src atoms.ClusterSource) Option {
	return func(p *Potential) { p.source = src }
}

// WithWorkers bounds the number of goroutines per evaluation; n <= 0 uses
// every CPU.
func WithWorkers(n int) Option {
	return func(p *Potential) { p.workers = n }
}

func New(terms []nbody.Term, opts ...Option) *Potential {
	p := &Potential{
		terms:  append([]nbody.Term(nil), terms...),
		source: atoms.NeighbourList{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Potential) Terms() []nbody.Term { return append([]nbody.Term(nil), p.terms...) }

// Cutoff is the largest cutoff of any term.
func (p *Potential) Cutoff() float64 {
	var rc float64
	for _, t := range p.terms {
		rc = max(rc, t.Cutoff())
	}
	return rc
}

// BodyOrder is the largest body order of any term.
func (p *Potential) BodyOrder() int {
	n := 0
	for _, t := range p.terms {
		n = max(n, t.BodyOrder())
	}
	return n
}

// Len is the total number of basis functions.
func (p *Potential) Len() int {
	n := 0
	for _, t := range p.terms {
		n += t.Len()
	}
	return n
}

// Compact merges terms that share a dictionary.
func (p *Potential) Compact() (*Potential, error) {
	ones := make([]float64, len(p.terms))
	for k := range ones {
		ones[k] = 1
	}
	terms, err := nbody.Combine(p.terms, ones)
	if err != nil {
		return nil, err
	}
	c := *p
	c.terms = terms
	return &c, nil
}

func (p *Potential) String() string {
	return fmt.Sprintf("Potential(%d terms, %d functions, rcut=%g)", len(p.terms), p.Len(), p.Cutoff())
}

// SiteEnergies returns the energy attributed to every atom.
func (p *Potential) SiteEnergies(at *atoms.Atoms) ([]float64, error) {
	acc, err := p.accumulate(at, modeEnergy)
	if err != nil {
		return nil, err
	}
	return acc.siteValues(), nil
}

func (p *Potential) Energy(at *atoms.Atoms) (float64, error) {
	acc, err := p.accumulate(at, modeEnergy)
	if err != nil {
		return 0, err
	}
	return acc.energy(), nil
}

// Gradient returns dE/dpos for every atom.
func (p *Potential) Gradient(at *atoms.Atoms) ([]r3.Vec, error) {
	acc, err := p.accumulate(at, modeGradient)
	if err != nil {
		return nil, err
	}
	return acc.grad, nil
}

// Forces returns -dE/dpos for every atom.
func (p *Potential) Forces(at *atoms.Atoms) ([]r3.Vec, error) {
	g, err := p.Gradient(at)
	if err != nil {
		return nil, err
	}
	return negate(g), nil
}

// EnergyForces evaluates energy and forces in one pass over the clusters.
func (p *Potential) EnergyForces(at *atoms.Atoms) (float64, []r3.Vec, error) {
	acc, err := p.accumulate(at, modeAll)
	if err != nil {
		return 0, nil, err
	}
	return acc.energy(), negate(acc.grad), nil
}

// Virial returns W = -sum_edges dE/dr (R ⊗ R)/r.
func (p *Potential) Virial(at *atoms.Atoms) (*mat.SymDense, error) {
	acc, err := p.accumulate(at, modeAll)
	if err != nil {
		return nil, err
	}
	return symmetric(acc.vir), nil
}

// Stress is -W/V; it requires a periodic configuration.
func (p *Potential) Stress(at *atoms.Atoms) (*mat.SymDense, error) {
	v := at.Volume()
	if v == 0 {
		return nil, fmt.Errorf("%w: stress needs a periodic cell", atoms.ErrCell)
	}
	w, err := p.Virial(at)
	if err != nil {
		return nil, err
	}
	var s mat.SymDense
	s.ScaleSym(-1/v, w)
	return &s, nil
}

func negate(g []r3.Vec) []r3.Vec {
	for i := range g {
		g[i] = r3.Scale(-1, g[i])
	}
	return g
}

func symmetric(w [9]float64) *mat.SymDense {
	s := mat.NewSymDense(3, nil)
	for a := 0; a < 3; a++ {
		for b := a; b < 3; b++ {
			s.SetSym(a, b, 0.5*(w[3*a+b]+w[3*b+a]))
		}
	}
	return s
}

// Evaluate is the energy of a single term on at.
func Evaluate(t nbody.Term, at *atoms.Atoms) (float64, error) {
	return New([]nbody.Term{t}).Energy(at)
}

// EvaluateGradient is dE/dpos of a single term on at.
func EvaluateGradient(t nbody.Term, at *atoms.Atoms) ([]r3.Vec, error) {
	return New([]nbody.Term{t}).Gradient(at)
}

// Energies evaluates every term separately on at. Clusters are enumerated
// once per (body order, cutoff) pair.
func Energies(terms []nbody.Term, at *atoms.Atoms, opts ...Option) ([]float64, error) {
	p := New(nil, opts...)
	cache := clusterCache{}
	out := make([]float64, len(terms))
	for k, t := range terms {
		acc := newAccumulator(at.Len(), modeEnergy)
		if err := p.accumulateTerm(at, t, acc, cache); err != nil {
			return nil, fmt.Errorf("term %d: %w", k, err)
		}
		out[k] = acc.energy()
	}
	return out, nil
}

func (p *Potential) ToRecord() record.Record {
	terms := make([]record.Record, len(p.terms))
	for k, t := range p.terms {
		terms[k] = t.ToRecord()
	}
	r := record.New(RecordID)
	r["terms"] = terms
	return r
}

// FromRecord rebuilds a potential written by ToRecord.
func FromRecord(r record.Record, opts ...Option) (*Potential, error) {
	if err := r.Expect(RecordID); err != nil {
		return nil, err
	}
	recs, err := r.Records("terms")
	if err != nil {
		return nil, err
	}
	terms := make([]nbody.Term, len(recs))
	for k, tr := range recs {
		if terms[k], err = nbody.FromRecord(tr); err != nil {
			return nil, fmt.Errorf("term %d: %w", k, err)
		}
	}
	return New(terms, opts...), nil
}

func init() {
	record.Register(RecordID, func(r record.Record) (any, error) {
		return FromRecord(r)
	})
}

func (p *Potential) accumulate(at *atoms.Atoms, mode evalMode) (*accumulator, error) {
	acc := newAccumulator(at.Len(), mode)
	cache := clusterCache{}
	for k, t := range p.terms {
		if err := p.accumulateTerm(at, t, acc, cache); err != nil {
			return nil, fmt.Errorf("term %d: %w", k, err)
		}
	}
	logger.Debug("potential evaluated", "atoms", at.Len(), "terms", len(p.terms), "cluster sets", len(cache))
	return acc, nil
}
