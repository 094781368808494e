package numeric

import "sync"

// Pool is a typed wrapper around sync.Pool.
type Pool[T any] struct {
	pool sync.Pool
}

func NewPool[T any](newFn func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() interface{} { return newFn() },
		},
	}
}

func (p *Pool[T]) Get() T  { return p.pool.Get().(T) }
func (p *Pool[T]) Put(v T) { p.pool.Put(v) }
