// Package record implements the flat key/value persistence format shared by
// dictionaries, basis terms and potentials. Every record carries its type
// identifier under IDKey; Decode dispatches on it to the decoder registered
// by the owning package.
package record

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

const IDKey = "__id__"

var (
	// ErrUnknownType indicates a record whose type identifier has no decoder.
	ErrUnknownType = errors.New("record: unknown type identifier")

	// ErrMalformed indicates a missing or ill-typed field.
	ErrMalformed = errors.New("record: malformed field")
)

// Record is a flat key/value description of a value.
type Record map[string]any

// Encoder is implemented by every persistable value.
type Encoder interface {
	ToRecord() Record
}

// Decoder rebuilds a value from its record.
type Decoder func(Record) (any, error)

var (
	mu       sync.RWMutex
	decoders = map[string]Decoder{}
)

// Register installs the decoder for a type identifier. It panics on
// duplicate registration, like database/sql drivers.
func Register(id string, dec Decoder) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := decoders[id]; dup {
		panic("record: Register called twice for " + id)
	}
	decoders[id] = dec
}

// Registered lists the known type identifiers in sorted order.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	ids := make([]string, 0, len(decoders))
	for id := range decoders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// New returns an empty record tagged with id.
func New(id string) Record {
	return Record{IDKey: id}
}

func (r Record) ID() string {
	id, _ := r[IDKey].(string)
	return id
}

// Decode rebuilds the value described by r.
func Decode(r Record) (any, error) {
	id := r.ID()
	mu.RLock()
	dec, ok := decoders[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, id)
	}
	return dec(r)
}

// Expect checks that r is tagged with id.
func (r Record) Expect(id string) error {
	if got := r.ID(); got != id {
		return fmt.Errorf("%w: expected %q, got %q", ErrUnknownType, id, got)
	}
	return nil
}
