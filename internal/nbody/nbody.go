package nbody

import (
	"fmt"

	"github.com/san-kum/polypot/internal/dict"
	"github.com/san-kum/polypot/internal/invariants"
	"github.com/san-kum/polypot/internal/numeric"
	"github.com/san-kum/polypot/internal/poly"
	"github.com/san-kum/polypot/internal/record"
)

const RecordID = "polypot.NBody"

// NBody is sum_k c_k * sec[alpha_k[P]] * prim^alpha_k[:P] times the cluster
// cutoff. It is immutable after construction; the dictionary is shared.
type NBody struct {
	dict   *dict.Dictionary
	tuples []Tuple
	coeffs []float64

	n, m, np, ns int
}

// workspace holds the per-evaluation scratch buffers, sized for the largest
// body order.
type workspace struct {
	s, ds, dfc [invariants.MaxEdges]float64
	prim, gp   [invariants.MaxPrimary]float64
	sec, gs    [invariants.MaxSecondary]float64
	mono       [invariants.MaxPrimary]float64
	dprim      [invariants.MaxPrimary * invariants.MaxEdges]float64
	dsec       [invariants.MaxSecondary * invariants.MaxEdges]float64
}

var workspaces = numeric.NewPool(func() *workspace { return new(workspace) })

// New builds a term from tuples and their coefficients. The slices are
// copied.
func New(d *dict.Dictionary, tuples []Tuple, coeffs []float64) (*NBody, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil dictionary", dict.ErrConfiguration)
	}
	if len(tuples) != len(coeffs) {
		return nil, fmt.Errorf("%w: %d tuples, %d coefficients", ErrDimensionMismatch, len(tuples), len(coeffs))
	}

	n := d.BodyOrder()
	b := &NBody{
		dict:   d,
		tuples: make([]Tuple, len(tuples)),
		coeffs: append([]float64(nil), coeffs...),
		n:      n,
		m:      invariants.NumEdges(n),
		np:     invariants.NumPrimary(n),
		ns:     invariants.NumSecondary(n),
	}
	for k, t := range tuples {
		if err := b.checkTuple(t); err != nil {
			return nil, fmt.Errorf("tuple %d: %w", k, err)
		}
		b.tuples[k] = append(Tuple(nil), t...)
	}
	return b, nil
}

func (b *NBody) checkTuple(t Tuple) error {
	if len(t) != b.np+1 {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidTuple, len(t), b.np+1)
	}
	for _, a := range t[:b.np] {
		if a < 0 {
			return fmt.Errorf("%w: negative exponent in %v", ErrInvalidTuple, t)
		}
	}
	if j := t[b.np]; j < 0 || j >= b.ns {
		return fmt.Errorf("%w: secondary index %d not in [0,%d)", ErrInvalidTuple, j, b.ns)
	}
	return nil
}

func (b *NBody) BodyOrder() int               { return b.n }
func (b *NBody) Cutoff() float64              { return b.dict.Cutoff() }
func (b *NBody) Len() int                     { return len(b.tuples) }
func (b *NBody) Dictionary() *dict.Dictionary { return b.dict }
func (b *NBody) NumEdges() int                { return b.m }
func (b *NBody) Coeffs() []float64            { return append([]float64(nil), b.coeffs...) }
func (b *NBody) Tuple(k int) Tuple            { return append(Tuple(nil), b.tuples[k]...) }

func (b *NBody) String() string {
	return fmt.Sprintf("NBody(%s, %d tuples)", b.dict, len(b.tuples))
}

func (b *NBody) mismatch(got int) *EvalError {
	return &EvalError{BodyOrder: b.n, Got: got, Want: b.m}
}

// Scale shares the dictionary and tuples with b.
func (b *NBody) Scale(c float64) Term {
	nb := *b
	nb.coeffs = make([]float64, len(b.coeffs))
	for k, v := range b.coeffs {
		nb.coeffs[k] = c * v
	}
	return &nb
}

// Evaluate returns the term value for the edge lengths r. It is exactly 0
// when any edge reaches the cutoff radius.
func (b *NBody) Evaluate(r []float64) (float64, error) {
	if len(r) != b.m {
		return 0, b.mismatch(len(r))
	}
	fc := b.dict.ClusterCutoff(r)
	if fc == 0 {
		return 0, nil
	}

	ws := workspaces.Get()
	defer workspaces.Put(ws)

	s := ws.s[:b.m]
	prim, sec := ws.prim[:b.np], ws.sec[:b.ns]
	b.dict.TransformInto(r, s, nil)
	invariants.Invariants(b.n, s, prim, sec)

	var v float64
	for k, t := range b.tuples {
		v += b.coeffs[k] * sec[t[b.np]] * poly.Monomial(t[:b.np], prim)
	}
	return v * fc, nil
}

// EvaluateGrad returns the term value and writes dV/dr into grad.
func (b *NBody) EvaluateGrad(r, grad []float64) (float64, error) {
	if len(r) != b.m {
		return 0, b.mismatch(len(r))
	}
	if len(grad) != b.m {
		return 0, b.mismatch(len(grad))
	}

	ws := workspaces.Get()
	defer workspaces.Put(ws)

	dfc := ws.dfc[:b.m]
	fc := b.dict.ClusterCutoffGrad(r, dfc)
	if fc == 0 {
		for e := range grad {
			grad[e] = 0
		}
		return 0, nil
	}

	s, ds := ws.s[:b.m], ws.ds[:b.m]
	prim, sec := ws.prim[:b.np], ws.sec[:b.ns]
	dprim, dsec := ws.dprim[:b.np*b.m], ws.dsec[:b.ns*b.m]
	b.dict.TransformInto(r, s, ds)
	invariants.InvariantsGrad(b.n, s, prim, sec, dprim, dsec)

	gp, gs, mono := ws.gp[:b.np], ws.gs[:b.ns], ws.mono[:b.np]
	for p := range gp {
		gp[p] = 0
	}
	for q := range gs {
		gs[q] = 0
	}

	var v float64
	for k, t := range b.tuples {
		j := t[b.np]
		c := b.coeffs[k]
		mv := poly.MonomialGrad(t[:b.np], prim, mono)
		cs := c * sec[j]
		v += cs * mv
		gs[j] += c * mv
		for p, g := range mono {
			gp[p] += cs * g
		}
	}

	// chain rule through the invariant Jacobians and the transform, then the
	// product rule with the cutoff envelope
	for e := 0; e < b.m; e++ {
		var g float64
		for p, w := range gp {
			g += w * dprim[p*b.m+e]
		}
		for q, w := range gs {
			g += w * dsec[q*b.m+e]
		}
		grad[e] = g*ds[e]*fc + v*dfc[e]
	}
	return v * fc, nil
}

// Equal reports whether o has the same dictionary, tuples and coefficients.
func (b *NBody) Equal(o *NBody) bool {
	if !b.dict.Equal(o.dict) || len(b.tuples) != len(o.tuples) {
		return false
	}
	for k := range b.tuples {
		if b.coeffs[k] != o.coeffs[k] || !b.tuples[k].Equal(o.tuples[k]) {
			return false
		}
	}
	return true
}

func (b *NBody) ToRecord() record.Record {
	tuples := make([][]int, len(b.tuples))
	for k, t := range b.tuples {
		tuples[k] = append([]int(nil), t...)
	}
	r := record.New(RecordID)
	r["dict"] = b.dict.ToRecord()
	r["bodyorder"] = b.n
	r["tuples"] = tuples
	r["coeffs"] = append([]float64(nil), b.coeffs...)
	return r
}

func nbodyFromRecord(r record.Record) (*NBody, error) {
	if err := r.Expect(RecordID); err != nil {
		return nil, err
	}
	dr, err := r.Sub("dict")
	if err != nil {
		return nil, err
	}
	d, err := dict.FromRecord(dr)
	if err != nil {
		return nil, err
	}
	order, err := r.Int("bodyorder")
	if err != nil {
		return nil, err
	}
	if order != d.BodyOrder() {
		return nil, fmt.Errorf("%w: bodyorder %d, dictionary has %d", record.ErrMalformed, order, d.BodyOrder())
	}
	raw, err := r.IntLists("tuples")
	if err != nil {
		return nil, err
	}
	coeffs, err := r.Floats("coeffs")
	if err != nil {
		return nil, err
	}
	tuples := make([]Tuple, len(raw))
	for k, t := range raw {
		tuples[k] = Tuple(t)
	}
	return New(d, tuples, coeffs)
}
