package toolchain

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy is a deferred computation evaluated at most once. The first Get runs the
// function; every later Get returns the memoized value or error.
type Lazy[T any] struct {
	once  sync.Once
	fn    func() (T, error)
	value T
	err   error
	done  atomic.Bool
}

// NewLazy wraps fn without calling it.
func NewLazy[T any](fn func() (T, error)) *Lazy[T] {
	return &Lazy[T]{fn: fn}
}

// Ready returns an already-realized Lazy holding v.
func Ready[T any](v T) *Lazy[T] {
	l := &Lazy[T]{value: v}
	l.once.Do(func() {})
	l.done.Store(true)
	return l
}

// Get realizes the value on first use. A panicking function is memoized as an error.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		defer l.done.Store(true)
		defer func() {
			if p := recover(); p != nil {
				var zero T
				l.value = zero
				l.err = fmt.Errorf("realization panicked: %v", p)
			}
		}()
		l.value, l.err = l.fn()
	})
	return l.value, l.err
}

// Realized reports whether Get has completed.
func (l *Lazy[T]) Realized() bool {
	return l.done.Load()
}

// Peek returns the value without realizing it. ok is false when the value has not
// been realized yet or realization failed.
func (l *Lazy[T]) Peek() (value T, ok bool) {
	if !l.done.Load() || l.err != nil {
		var zero T
		return zero, false
	}
	return l.value, true
}

// Then derives a new Lazy whose realization realizes l first.
func Then[T, U any](l *Lazy[T], f func(T) U) *Lazy[U] {
	return NewLazy(func() (U, error) {
		v, err := l.Get()
		if err != nil {
			var zero U
			return zero, err
		}
		return f(v), nil
	})
}
