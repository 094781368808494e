package potential

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/atoms"
	"github.com/san-kum/polypot/internal/invariants"
	"github.com/san-kum/polypot/internal/nbody"
	"github.com/san-kum/polypot/internal/numeric"
)

type evalMode int

const (
	modeEnergy evalMode = iota
	modeGradient
	modeAll
)

type clusterKey struct {
	n    int
	rcut float64
}

type clusterCache map[clusterKey][]atoms.Cluster

// accumulator holds site energies, position gradient and virial. Each
// worker fills its own and the results are merged afterwards.
type accumulator struct {
	mode evalMode
	site []numeric.Sum
	grad []r3.Vec
	vir  [9]float64
}

func newAccumulator(n int, mode evalMode) *accumulator {
	acc := &accumulator{mode: mode, site: make([]numeric.Sum, n)}
	if mode != modeEnergy {
		acc.grad = make([]r3.Vec, n)
	}
	return acc
}

func (a *accumulator) merge(o *accumulator) {
	for i := range a.site {
		a.site[i].Merge(o.site[i])
	}
	for i := range a.grad {
		a.grad[i] = r3.Add(a.grad[i], o.grad[i])
	}
	for k := range a.vir {
		a.vir[k] += o.vir[k]
	}
}

func (a *accumulator) siteValues() []float64 {
	out := make([]float64, len(a.site))
	for i := range a.site {
		out[i] = a.site[i].Value()
	}
	return out
}

func (a *accumulator) energy() float64 {
	var s numeric.Sum
	for i := range a.site {
		s.Merge(a.site[i])
	}
	return s.Value()
}

func (p *Potential) clusters(at *atoms.Atoms, n int, rcut float64, cache clusterCache) ([]atoms.Cluster, error) {
	key := clusterKey{n, rcut}
	if cl, ok := cache[key]; ok {
		return cl, nil
	}
	cl, err := p.source.Clusters(at, n, rcut)
	if err != nil {
		return nil, err
	}
	cache[key] = cl
	return cl, nil
}

func (p *Potential) accumulateTerm(at *atoms.Atoms, t nbody.Term, acc *accumulator, cache clusterCache) error {
	nat := at.Len()

	if t.BodyOrder() == 1 {
		v, err := t.Evaluate(nil)
		if err != nil {
			return err
		}
		for i := range acc.site {
			acc.site[i].Add(v)
		}
		return nil
	}

	cl, err := p.clusters(at, t.BodyOrder(), t.Cutoff(), cache)
	if err != nil {
		return err
	}

	parts := make([]*accumulator, numeric.Chunks(len(cl), minChunk, p.workers))
	err = numeric.ParallelFor(len(cl), minChunk, p.workers, func(w, start, end int) error {
		part := newAccumulator(nat, acc.mode)
		parts[w] = part
		chunk := cl[start:end]

		switch acc.mode {
		case modeEnergy:
			site, err := atoms.SiteValues(nat, chunk, func(c *atoms.Cluster) (float64, error) {
				return t.Evaluate(c.R)
			})
			if err != nil {
				return err
			}
			for i, v := range site {
				part.site[i].Add(v)
			}

		case modeGradient:
			grad, err := atoms.SiteGradients(nat, chunk, func(c *atoms.Cluster, g []float64) error {
				_, err := t.EvaluateGrad(c.R, g)
				return err
			})
			if err != nil {
				return err
			}
			part.grad = grad

		default:
			var buf [invariants.MaxEdges]float64
			for k := range chunk {
				c := &chunk[k]
				g := buf[:len(c.R)]
				v, err := t.EvaluateGrad(c.R, g)
				if err != nil {
					return err
				}
				part.site[c.Center].Add(v)
				atoms.DistributeGradient(c, g, part.grad)
				atoms.AddVirial(c, g, &part.vir)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, part := range parts {
		if part != nil {
			acc.merge(part)
		}
	}
	return nil
}
