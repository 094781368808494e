// Package dict holds the per-body-order configuration shared by basis
// terms: distance transform, cutoff envelope and invariant representation.
package dict

import (
	"fmt"

	"github.com/san-kum/polypot/internal/invariants"
	"github.com/san-kum/polypot/internal/record"
)

const RecordID = "polypot.Dictionary"

// Dictionary is immutable after New and is shared by pointer between all
// terms of one body order.
type Dictionary struct {
	order     int
	transform Transform
	cutoff    Cutoff
	inverse   bool
}

type Option func(*Dictionary)

// WithInverse feeds u = 1/s instead of s into the invariants.
func WithInverse() Option {
	return func(d *Dictionary) { d.inverse = true }
}

// New parses the transform and cutoff descriptors.
func New(order int, transform, cutoff string, opts ...Option) (*Dictionary, error) {
	t, err := ParseTransform(transform)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	c, err := ParseCutoff(cutoff)
	if err != nil {
		return nil, fmt.Errorf("cutoff: %w", err)
	}
	return NewFrom(order, t, c, opts...)
}

// NewFrom builds a dictionary from already constructed parts.
func NewFrom(order int, t Transform, c Cutoff, opts ...Option) (*Dictionary, error) {
	if !invariants.Supported(order) {
		return nil, fmt.Errorf("%w: body order %d not in [2,%d]", ErrConfiguration, order, invariants.MaxBodyOrder)
	}
	if t == nil || c == nil {
		return nil, fmt.Errorf("%w: transform and cutoff are required", ErrConfiguration)
	}
	d := &Dictionary{order: order, transform: t, cutoff: c}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Dictionary) BodyOrder() int       { return d.order }
func (d *Dictionary) NumEdges() int        { return invariants.NumEdges(d.order) }
func (d *Dictionary) Cutoff() float64      { return d.cutoff.Radius() }
func (d *Dictionary) Inverse() bool        { return d.inverse }
func (d *Dictionary) Transform() Transform { return d.transform }
func (d *Dictionary) Envelope() Cutoff     { return d.cutoff }

func (d *Dictionary) String() string {
	rep := "direct"
	if d.inverse {
		rep = "inverse"
	}
	return fmt.Sprintf("N=%d %s %s %s", d.order, d.transform, d.cutoff, rep)
}

// Equal reports whether d and o describe the same dictionary.
func (d *Dictionary) Equal(o *Dictionary) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil {
		return false
	}
	return d.order == o.order &&
		d.inverse == o.inverse &&
		d.transform.String() == o.transform.String() &&
		d.cutoff.String() == o.cutoff.String()
}

// TransformInto writes the invariant inputs for the edge lengths r into s
// and their derivatives into ds. ds may be nil.
func (d *Dictionary) TransformInto(r, s, ds []float64) {
	for i, ri := range r {
		v, dv := d.transform.Eval(ri)
		if d.inverse {
			u := 1 / v
			v, dv = u, -dv*u*u
		}
		s[i] = v
		if ds != nil {
			ds[i] = dv
		}
	}
}

// ClusterCutoff returns prod_i fc(r_i).
func (d *Dictionary) ClusterCutoff(r []float64) float64 {
	rc := d.cutoff.Radius()
	fc := 1.0
	for _, ri := range r {
		if ri >= rc {
			return 0
		}
		f, _ := d.cutoff.Eval(ri)
		fc *= f
	}
	return fc
}

// ClusterCutoffGrad returns prod_i fc(r_i) and writes its gradient into
// grad. If any edge reaches the cutoff radius the gradient is zero.
func (d *Dictionary) ClusterCutoffGrad(r, grad []float64) float64 {
	rc := d.cutoff.Radius()
	for _, ri := range r {
		if ri >= rc {
			for i := range r {
				grad[i] = 0
			}
			return 0
		}
	}

	var f, df [invariants.MaxEdges]float64
	n := len(r)
	for i, ri := range r {
		f[i], df[i] = d.cutoff.Eval(ri)
	}
	prefix := 1.0
	for i := 0; i < n; i++ {
		grad[i] = prefix
		prefix *= f[i]
	}
	suffix := 1.0
	for i := n - 1; i >= 0; i-- {
		grad[i] *= suffix * df[i]
		suffix *= f[i]
	}
	return prefix
}

func (d *Dictionary) ToRecord() record.Record {
	r := record.New(RecordID)
	r["bodyorder"] = d.order
	r["transform"] = d.transform.String()
	r["cutoff"] = d.cutoff.String()
	r["rcut"] = d.cutoff.Radius()
	r["inverse"] = d.inverse
	return r
}

// FromRecord rebuilds a dictionary written by ToRecord.
func FromRecord(r record.Record) (*Dictionary, error) {
	if err := r.Expect(RecordID); err != nil {
		return nil, err
	}
	order, err := r.Int("bodyorder")
	if err != nil {
		return nil, err
	}
	t, err := r.String("transform")
	if err != nil {
		return nil, err
	}
	c, err := r.String("cutoff")
	if err != nil {
		return nil, err
	}
	inverse, err := r.BoolOr("inverse", false)
	if err != nil {
		return nil, err
	}

	var opts []Option
	if inverse {
		opts = append(opts, WithInverse())
	}
	d, err := New(order, t, c, opts...)
	if err != nil {
		return nil, err
	}

	rcut, err := r.Float("rcut")
	if err != nil {
		return nil, err
	}
	if rcut != d.Cutoff() {
		return nil, fmt.Errorf("%w: rcut %v does not match cutoff %s", record.ErrMalformed, rcut, c)
	}
	return d, nil
}

func init() {
	record.Register(RecordID, func(r record.Record) (any, error) {
		return FromRecord(r)
	})
}
