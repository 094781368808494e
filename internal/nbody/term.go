// Package nbody implements the basis terms of a many-body potential: a
// weighted sum of monomials in the invariants of an N-atom cluster times a
// cluster cutoff, plus the constant 1-body term.
package nbody

import (
	"fmt"

	"github.com/san-kum/polypot/internal/record"
)

// Term is a single contribution to a potential.
type Term interface {
	BodyOrder() int
	Cutoff() float64
	// Len is the number of basis functions carried by the term.
	Len() int
	// Evaluate returns the term's value for one cluster given its edge
	// lengths in lexicographic pair order.
	Evaluate(r []float64) (float64, error)
	// EvaluateGrad also writes dV/dr into grad.
	EvaluateGrad(r, grad []float64) (float64, error)
	// Scale returns a copy with every coefficient multiplied by c.
	Scale(c float64) Term
	record.Encoder
}

const OneBodyRecordID = "polypot.OneBody"

// OneBody contributes E0 per atom, independent of geometry.
type OneBody struct {
	E0 float64
}

func NewOneBody(e0 float64) *OneBody { return &OneBody{E0: e0} }

func (o *OneBody) BodyOrder() int  { return 1 }
func (o *OneBody) Cutoff() float64 { return 0 }
func (o *OneBody) Len() int        { return 1 }

func (o *OneBody) Evaluate(r []float64) (float64, error) {
	if len(r) != 0 {
		return 0, &EvalError{BodyOrder: 1, Got: len(r), Want: 0}
	}
	return o.E0, nil
}

func (o *OneBody) EvaluateGrad(r, grad []float64) (float64, error) {
	return o.Evaluate(r)
}

func (o *OneBody) Scale(c float64) Term { return &OneBody{E0: c * o.E0} }

func (o *OneBody) String() string { return fmt.Sprintf("OneBody(%g)", o.E0) }

func (o *OneBody) ToRecord() record.Record {
	r := record.New(OneBodyRecordID)
	r["E0"] = o.E0
	return r
}

func oneBodyFromRecord(r record.Record) (*OneBody, error) {
	if err := r.Expect(OneBodyRecordID); err != nil {
		return nil, err
	}
	e0, err := r.Float("E0")
	if err != nil {
		return nil, err
	}
	return &OneBody{E0: e0}, nil
}

// FromRecord decodes either term type.
func FromRecord(r record.Record) (Term, error) {
	switch r.ID() {
	case OneBodyRecordID:
		o, err := oneBodyFromRecord(r)
		if err != nil {
			return nil, err
		}
		return o, nil
	case RecordID:
		b, err := nbodyFromRecord(r)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q is not a term", record.ErrUnknownType, r.ID())
}

func init() {
	record.Register(OneBodyRecordID, func(r record.Record) (any, error) {
		return oneBodyFromRecord(r)
	})
	record.Register(RecordID, func(r record.Record) (any, error) {
		return nbodyFromRecord(r)
	})
}
