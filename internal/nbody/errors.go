package nbody

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates a distance vector whose length is not
	// N(N-1)/2 for the term's body order.
	ErrDimensionMismatch = errors.New("nbody: dimension mismatch")

	// ErrDictionaryMismatch indicates terms that cannot be merged because
	// they do not share a dictionary.
	ErrDictionaryMismatch = errors.New("nbody: terms use different dictionaries")

	// ErrInvalidTuple indicates an exponent tuple of the wrong length, with a
	// negative exponent or an out-of-range secondary index.
	ErrInvalidTuple = errors.New("nbody: invalid exponent tuple")

	// ErrNonMonotoneBound is returned by the optional generator check when a
	// tuple bound admits a tuple but rejects one of its predecessors.
	ErrNonMonotoneBound = errors.New("nbody: tuple bound is not monotone")
)

// EvalError reports a distance vector of the wrong length.
type EvalError struct {
	BodyOrder int
	Got, Want int
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("nbody: %d-body term expects %d distances, got %d", e.BodyOrder, e.Want, e.Got)
}

func (e *EvalError) Unwrap() error {
	return ErrDimensionMismatch
}
