package atoms

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/logger"
)

// Cluster is an N-atom cluster seen from its centre atom. Atoms[0] is the
// centre; Pos holds the image positions used for the distances and R the
// N(N-1)/2 distances in lexicographic pair order.
type Cluster struct {
	Center int
	Atoms  []int
	Pos    []r3.Vec
	R      []float64
}

func (c *Cluster) Size() int { return len(c.Atoms) }

// Distances writes the pair distances of the cluster into r.
func (c *Cluster) Distances(r []float64) {
	e := 0
	for p := 0; p < len(c.Pos); p++ {
		for q := p + 1; q < len(c.Pos); q++ {
			r[e] = r3.Norm(r3.Sub(c.Pos[q], c.Pos[p]))
			e++
		}
	}
}

// ClusterSource enumerates the N-atom clusters of a configuration whose
// pair distances are all below rcut.
type ClusterSource interface {
	Clusters(at *Atoms, n int, rcut float64) ([]Cluster, error)
}

// NeighbourList is the default ClusterSource. Clusters are site-centred:
// for every atom i it returns each set of N-1 distinct neighbour images of
// i that are also mutually within rcut. A physical cluster therefore
// appears once per member atom and the total energy is the sum of site
// energies. Periodic images of one atom may appear in the same cluster.
type NeighbourList struct{}

func (NeighbourList) Clusters(at *Atoms, n int, rcut float64) ([]Cluster, error) {
	if err := checkOrder(n); err != nil {
		return nil, err
	}
	if n == 1 {
		out := make([]Cluster, at.Len())
		for i, p := range at.Pos {
			out[i] = Cluster{Center: i, Atoms: []int{i}, Pos: []r3.Vec{p}}
		}
		return out, nil
	}

	nbrs, err := Neighbours(at, rcut)
	if err != nil {
		return nil, err
	}

	var out []Cluster
	chosen := make([]int, 0, n-1)
	for i, list := range nbrs {
		var pick func(start int)
		pick = func(start int) {
			if len(chosen) == n-1 {
				out = append(out, newCluster(i, at.Pos[i], list, chosen))
				return
			}
			for c := start; c < len(list); c++ {
				if !withinAll(list, chosen, list[c].Pos, rcut) {
					continue
				}
				chosen = append(chosen, c)
				pick(c + 1)
				chosen = chosen[:len(chosen)-1]
			}
		}
		pick(0)
	}
	logger.Debug("clusters", "order", n, "rcut", rcut, "count", len(out))
	return out, nil
}

func withinAll(list []Neighbour, chosen []int, p r3.Vec, rcut float64) bool {
	for _, c := range chosen {
		if r3.Norm(r3.Sub(p, list[c].Pos)) >= rcut {
			return false
		}
	}
	return true
}

func newCluster(center int, pos r3.Vec, list []Neighbour, chosen []int) Cluster {
	n := len(chosen) + 1
	c := Cluster{
		Center: center,
		Atoms:  make([]int, n),
		Pos:    make([]r3.Vec, n),
		R:      make([]float64, n*(n-1)/2),
	}
	c.Atoms[0], c.Pos[0] = center, pos
	for k, idx := range chosen {
		c.Atoms[k+1] = list[idx].Index
		c.Pos[k+1] = list[idx].Pos
	}
	c.Distances(c.R)
	return c
}
