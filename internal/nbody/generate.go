package nbody

import (
	"fmt"

	"github.com/san-kum/polypot/internal/dict"
	"github.com/san-kum/polypot/internal/invariants"
	"github.com/san-kum/polypot/internal/logger"
)

// Tuple holds P primary exponents followed by a secondary index; index 0
// selects the constant secondary.
type Tuple []int

func (t Tuple) Equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// TotalDegree is the polynomial degree of the basis function t in the edge
// variables.
func TotalDegree(n int, t Tuple) int {
	pdeg := invariants.PrimaryDegrees(n)
	sdeg := invariants.SecondaryDegrees(n)
	d := sdeg[t[len(pdeg)]]
	for i, a := range t[:len(pdeg)] {
		d += a * pdeg[i]
	}
	return d
}

// TupleBound admits or rejects a tuple. Bounds passed to GenTuples must be
// monotone: if t is admitted then so is every tuple obtained by lowering
// one of its exponents. A non-monotone bound silently yields an incomplete
// basis unless WithMonotoneCheck is given.
type TupleBound func(t Tuple) bool

// DegreeBound admits tuples of total degree at most deg.
func DegreeBound(n, deg int) TupleBound {
	pdeg := invariants.PrimaryDegrees(n)
	sdeg := invariants.SecondaryDegrees(n)
	np := len(pdeg)
	return func(t Tuple) bool {
		d := sdeg[t[np]]
		for i, a := range t[:np] {
			d += a * pdeg[i]
		}
		return d <= deg
	}
}

type genConfig struct {
	checkMonotone bool
}

type GenOption func(*genConfig)

// WithMonotoneCheck verifies, for every generated tuple, that lowering any
// nonzero exponent by one is still admitted.
func WithMonotoneCheck() GenOption {
	return func(c *genConfig) { c.checkMonotone = true }
}

// GenTuples enumerates all tuples admitted by bound in odometer order, one
// secondary index at a time. The constant tuple (all zeros, secondary 0)
// is never returned. The bound must reject sufficiently large exponents in
// every direction or the enumeration does not terminate.
func GenTuples(n int, bound TupleBound, opts ...GenOption) ([]Tuple, error) {
	if !invariants.Supported(n) {
		return nil, fmt.Errorf("%w: body order %d", dict.ErrConfiguration, n)
	}
	var cfg genConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	np := invariants.NumPrimary(n)
	ns := invariants.NumSecondary(n)

	var out []Tuple
	t := make(Tuple, np+1)
	for j := 0; j < ns; j++ {
		for i := range t {
			t[i] = 0
		}
		t[np] = j
		if !bound(t) {
			continue
		}
		if j != 0 {
			out = append(out, append(Tuple(nil), t...))
		}

		for {
			i := 0
			for i < np {
				t[i]++
				if bound(t) {
					break
				}
				t[i] = 0
				i++
			}
			if i == np {
				break
			}
			out = append(out, append(Tuple(nil), t...))
		}
	}

	if cfg.checkMonotone {
		if err := checkMonotone(out, np, bound); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func checkMonotone(tuples []Tuple, np int, bound TupleBound) error {
	lower := make(Tuple, np+1)
	for _, t := range tuples {
		for i := 0; i < np; i++ {
			if t[i] == 0 {
				continue
			}
			copy(lower, t)
			lower[i]--
			if !bound(lower) {
				return fmt.Errorf("%w: admits %v but rejects %v", ErrNonMonotoneBound, t, lower)
			}
		}
	}
	return nil
}

// Basis returns one single-tuple term with coefficient 1 for every tuple of
// total degree at most deg.
func Basis(d *dict.Dictionary, deg int, opts ...GenOption) ([]*NBody, error) {
	n := d.BodyOrder()
	tuples, err := GenTuples(n, DegreeBound(n, deg), opts...)
	if err != nil {
		return nil, err
	}

	basis := make([]*NBody, len(tuples))
	for k, t := range tuples {
		b, err := New(d, []Tuple{t}, []float64{1})
		if err != nil {
			return nil, err
		}
		basis[k] = b
	}
	logger.Debug("basis generated", "order", n, "degree", deg, "size", len(basis))
	return basis, nil
}
