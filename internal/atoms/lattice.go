package atoms

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// cubic lattice bases in units of the lattice constant
var bases = map[string][]r3.Vec{
	"sc":  {{}},
	"bcc": {{}, {X: 0.5, Y: 0.5, Z: 0.5}},
	"fcc": {{}, {X: 0.5, Y: 0.5}, {X: 0.5, Z: 0.5}, {Y: 0.5, Z: 0.5}},
}

// Lattice builds a configuration. Cubic kinds (sc, bcc, fcc) tile reps
// unit cells of side a with periodic boundaries; "dimer" and "trimer" are
// isolated molecules with bond length a.
func Lattice(kind string, a float64, reps [3]int) (*Atoms, error) {
	if !(a > 0) {
		return nil, fmt.Errorf("%w: lattice constant %v", ErrCell, a)
	}

	switch kind {
	case "dimer":
		return New([]r3.Vec{{}, {X: a}}), nil
	case "trimer":
		return New([]r3.Vec{{}, {X: a}, {X: a / 2, Y: a * math.Sqrt(3) / 2}}), nil
	}

	basis, ok := bases[kind]
	if !ok {
		return nil, fmt.Errorf("unknown lattice: %s (available: %v)", kind, LatticeNames())
	}
	for _, n := range reps {
		if n < 1 {
			return nil, fmt.Errorf("%w: repetitions %v", ErrCell, reps)
		}
	}

	at := &Atoms{
		Cell: r3.Vec{X: a * float64(reps[0]), Y: a * float64(reps[1]), Z: a * float64(reps[2])},
		PBC:  [3]bool{true, true, true},
	}
	for i := 0; i < reps[0]; i++ {
		for j := 0; j < reps[1]; j++ {
			for k := 0; k < reps[2]; k++ {
				origin := r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)}
				for _, b := range basis {
					at.Pos = append(at.Pos, r3.Scale(a, r3.Add(origin, b)))
				}
			}
		}
	}
	return at, nil
}

func LatticeNames() []string {
	names := []string{"dimer", "trimer"}
	for name := range bases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rattle displaces every atom by a Gaussian of standard deviation sigma.
func Rattle(at *Atoms, sigma float64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i, p := range at.Pos {
		at.Pos[i] = r3.Add(p, r3.Vec{
			X: sigma * rng.NormFloat64(),
			Y: sigma * rng.NormFloat64(),
			Z: sigma * rng.NormFloat64(),
		})
	}
}
