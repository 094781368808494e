package nbody

import "fmt"

// Merge concatenates the tuples and coefficients of terms sharing one
// dictionary into a single term.
func Merge(terms ...*NBody) (*NBody, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: nothing to merge", ErrDimensionMismatch)
	}

	d := terms[0].dict
	size := 0
	for _, t := range terms {
		if !t.dict.Equal(d) {
			return nil, fmt.Errorf("%w: %s vs %s", ErrDictionaryMismatch, d, t.dict)
		}
		size += len(t.tuples)
	}

	m := &NBody{
		dict:   d,
		tuples: make([]Tuple, 0, size),
		coeffs: make([]float64, 0, size),
		n:      terms[0].n,
		m:      terms[0].m,
		np:     terms[0].np,
		ns:     terms[0].ns,
	}
	for _, t := range terms {
		m.tuples = append(m.tuples, t.tuples...)
		m.coeffs = append(m.coeffs, t.coeffs...)
	}
	return m, nil
}

// Combine scales terms[k] by coeffs[k] and merges the result: all 1-body
// terms collapse into one, and N-body terms are merged per dictionary. The
// output keeps the order in which each group first appears.
func Combine(terms []Term, coeffs []float64) ([]Term, error) {
	if len(terms) != len(coeffs) {
		return nil, fmt.Errorf("%w: %d terms, %d coefficients", ErrDimensionMismatch, len(terms), len(coeffs))
	}

	type group struct {
		one   *OneBody
		parts []*NBody
	}
	var groups []*group

	var one *group
	for k, term := range terms {
		switch t := term.Scale(coeffs[k]).(type) {
		case *OneBody:
			if one == nil {
				one = &group{one: &OneBody{}}
				groups = append(groups, one)
			}
			one.one.E0 += t.E0
		case *NBody:
			var g *group
			for _, cand := range groups {
				if cand.one == nil && cand.parts[0].dict.Equal(t.dict) {
					g = cand
					break
				}
			}
			if g == nil {
				g = &group{}
				groups = append(groups, g)
			}
			g.parts = append(g.parts, t)
		default:
			return nil, fmt.Errorf("nbody: cannot combine %T", term)
		}
	}

	out := make([]Term, 0, len(groups))
	for _, g := range groups {
		if g.one != nil {
			out = append(out, g.one)
			continue
		}
		merged, err := Merge(g.parts...)
		if err != nil {
			return nil, err
		}
		out = append(out, merged)
	}
	return out, nil
}
