package atoms

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/invariants"
	"github.com/san-kum/polypot/internal/numeric"
)

// SiteValues evaluates fn on every cluster and sums the results into the
// cluster's centre atom with compensated summation.
func SiteValues(nAtoms int, clusters []Cluster, fn func(c *Cluster) (float64, error)) ([]float64, error) {
	sums := make([]numeric.Sum, nAtoms)
	for k := range clusters {
		c := &clusters[k]
		v, err := fn(c)
		if err != nil {
			return nil, err
		}
		sums[c.Center].Add(v)
	}

	out := make([]float64, nAtoms)
	for i := range sums {
		out[i] = sums[i].Value()
	}
	return out, nil
}

// SiteGradients accumulates dE/dpos over all clusters. fn writes dV/dr for
// the cluster edges into grad. Forces are the negated result.
func SiteGradients(nAtoms int, clusters []Cluster, fn func(c *Cluster, grad []float64) error) ([]r3.Vec, error) {
	out := make([]r3.Vec, nAtoms)
	var g [invariants.MaxEdges]float64
	for k := range clusters {
		c := &clusters[k]
		grad := g[:len(c.R)]
		if err := fn(c, grad); err != nil {
			return nil, err
		}
		DistributeGradient(c, grad, out)
	}
	return out, nil
}

// DistributeGradient adds the position gradient implied by the edge
// gradient grad onto out, indexed by atom.
func DistributeGradient(c *Cluster, grad []float64, out []r3.Vec) {
	e := 0
	for p := 0; p < len(c.Pos); p++ {
		for q := p + 1; q < len(c.Pos); q++ {
			if g := grad[e]; g != 0 {
				d := r3.Sub(c.Pos[q], c.Pos[p])
				u := r3.Scale(g/r3.Norm(d), d)
				out[c.Atoms[q]] = r3.Add(out[c.Atoms[q]], u)
				out[c.Atoms[p]] = r3.Sub(out[c.Atoms[p]], u)
			}
			e++
		}
	}
}

// AddVirial adds -sum_e g_e (R_e ⊗ R_e) / r_e into w (row-major 3x3).
func AddVirial(c *Cluster, grad []float64, w *[9]float64) {
	e := 0
	for p := 0; p < len(c.Pos); p++ {
		for q := p + 1; q < len(c.Pos); q++ {
			if g := grad[e]; g != 0 {
				d := r3.Sub(c.Pos[q], c.Pos[p])
				f := -g / r3.Norm(d)
				v := [3]float64{d.X, d.Y, d.Z}
				for a := 0; a < 3; a++ {
					for b := 0; b < 3; b++ {
						w[3*a+b] += f * v[a] * v[b]
					}
				}
			}
			e++
		}
	}
}
