package crate

import (
	"sync"
	"sync/atomic"

	"github.com/xraph/go-utils/errs"
)

// Lazy holds a service that is constructed on first access.
// This is useful for deferring expensive services until they're actually
// needed while the container is freely copied and queried.
//
// A Lazy is either pending, holding a factory, or resolved, holding the
// instance. The transition happens at most once: concurrent callers racing
// on the first Get all wait for the single factory call and receive the
// same instance. The factory is dropped after it runs.
//
// Build a Lazy with NewLazy or NewLazyOf. The zero value has nothing to
// resolve: containers reject it with ErrInvalidFactory and Get panics.
type Lazy[T any] struct {
	once     sync.Once
	factory  func() *T
	value    *T
	resolved atomic.Bool
	built    bool
}

// NewLazy creates a pending holder that builds its instance with factory.
// It panics with ErrInvalidFactory if factory is nil.
func NewLazy[T any](factory func() *T) *Lazy[T] {
	if factory == nil {
		panic(newError(CodeInvalidFactory, "factory cannot be nil", TypeOf[T]()))
	}

	return &Lazy[T]{factory: factory, built: true}
}

// NewLazyOf creates a resolved holder around an already built instance.
// No factory ever runs for it.
func NewLazyOf[T any](instance *T) *Lazy[T] {
	l := &Lazy[T]{built: true}
	l.once.Do(func() {
		l.value = instance
		l.resolved.Store(true)
	})

	return l
}

// Get returns the instance, running the factory on the first call.
// A factory that never returns blocks every caller. Get panics with
// ErrInvalidFactory on a Lazy that was not built by NewLazy or NewLazyOf.
func (l *Lazy[T]) Get() *T {
	if l.resolved.Load() {
		return l.value
	}

	l.once.Do(func() {
		if l.factory == nil {
			panic(newError(CodeInvalidFactory, "lazy holder has no factory", TypeOf[T]()))
		}

		l.value = l.factory()
		l.factory = nil
		l.resolved.Store(true)
	})

	return l.value
}

// IsResolved returns true if the instance has been built or was supplied eagerly.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// Key implements Holder.
func (l *Lazy[T]) Key() Key {
	return Mut[T]()
}

// Strategy implements Holder.
func (l *Lazy[T]) Strategy() Strategy {
	return StrategyLazy
}

func (l *Lazy[T]) instance() any {
	return l.Get()
}

func (l *Lazy[T]) usable() bool {
	return l != nil && l.built
}

// usableState is implemented by holders that may be unusable as built.
type usableState interface {
	usable() bool
}

// checkUsable rejects a lazy holder that has neither factory nor instance.
func checkUsable(h Holder) *errs.Error {
	if u, ok := unwrap(h).(usableState); ok && !u.usable() {
		return newError(CodeInvalidFactory, "lazy holder has no factory", h.Key().typ)
	}

	return nil
}

// resolvedState is implemented by holders that can report whether their
// instance exists yet.
type resolvedState interface {
	IsResolved() bool
}

// isResolved reports false only for a pending lazy holder.
func isResolved(h Holder) bool {
	if r, ok := unwrap(h).(resolvedState); ok {
		return r.IsResolved()
	}

	return true
}
