package atoms

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/invariants"
	"github.com/san-kum/polypot/internal/logger"
)

// Neighbour is a periodic image of atom Index within the cutoff of a
// centre atom. Pos is the absolute image position.
type Neighbour struct {
	Index int
	Pos   r3.Vec
	Dist  float64
}

// Neighbours lists, for every atom, the images of all other atoms closer
// than rcut. Periodic self-images are included. Positions need not lie
// inside the cell.
func Neighbours(at *Atoms, rcut float64) ([][]Neighbour, error) {
	if !(rcut > 0) {
		return nil, ErrCutoff
	}
	if err := at.validate(); err != nil {
		return nil, err
	}

	shifts := imageShifts(at, rcut)
	out := make([][]Neighbour, at.Len())
	total := 0
	for i, pi := range at.Pos {
		for j, pj := range at.Pos {
			base := r3.Add(pi, at.minimumImage(r3.Sub(pj, pi)))
			for _, s := range shifts {
				if i == j && s == (r3.Vec{}) {
					continue
				}
				p := r3.Add(base, s)
				d := r3.Norm(r3.Sub(p, pi))
				if d < rcut {
					out[i] = append(out[i], Neighbour{Index: j, Pos: p, Dist: d})
				}
			}
		}
		total += len(out[i])
	}
	logger.Debug("neighbour list", "atoms", at.Len(), "rcut", rcut, "pairs", total)
	return out, nil
}

// minimumImage folds d into [-L/2, L/2] along the periodic axes.
func (a *Atoms) minimumImage(d r3.Vec) r3.Vec {
	if a.PBC[0] {
		d.X -= a.Cell.X * math.Round(d.X/a.Cell.X)
	}
	if a.PBC[1] {
		d.Y -= a.Cell.Y * math.Round(d.Y/a.Cell.Y)
	}
	if a.PBC[2] {
		d.Z -= a.Cell.Z * math.Round(d.Z/a.Cell.Z)
	}
	return d
}

// imageShifts returns every lattice translation that can bring an image
// within rcut of a minimum-image neighbour, the zero shift first.
func imageShifts(at *Atoms, rcut float64) []r3.Vec {
	var reps [3]int
	l := [3]float64{at.Cell.X, at.Cell.Y, at.Cell.Z}
	for k := range reps {
		if at.PBC[k] {
			reps[k] = int(math.Ceil(rcut / l[k]))
		}
	}

	shifts := []r3.Vec{{}}
	for a := -reps[0]; a <= reps[0]; a++ {
		for b := -reps[1]; b <= reps[1]; b++ {
			for c := -reps[2]; c <= reps[2]; c++ {
				if a == 0 && b == 0 && c == 0 {
					continue
				}
				shifts = append(shifts, r3.Vec{
					X: float64(a) * l[0],
					Y: float64(b) * l[1],
					Z: float64(c) * l[2],
				})
			}
		}
	}
	return shifts
}

func checkOrder(n int) error {
	if n < 1 || n > invariants.MaxBodyOrder {
		return fmt.Errorf("%w: %d", ErrBodyOrder, n)
	}
	return nil
}
