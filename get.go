package crate

import (
	"fmt"
)

// Ref is a mutable handle to a service held by a container.
type Ref[T any] struct {
	holder Holder
}

// Get returns the instance, constructing it first if the slot is lazy.
func (r Ref[T]) Get() *T {
	if r.holder == nil {
		return nil
	}

	p, _ := r.holder.instance().(*T)

	return p
}

// View promotes the handle to a read-only view of the same instance.
func (r Ref[T]) View() View[T] {
	return View[T]{holder: r.holder}
}

// Holder returns the underlying holder.
func (r Ref[T]) Holder() Holder {
	return r.holder
}

// View is a read-only view of a service held by a container. It shares the
// instance with every Ref to the same slot; it never copies it on lookup.
//
// Reads go through Value, which copies T. Methods with pointer receivers are
// not reachable on the copy, and a T that embeds a sync.Mutex or other lock
// hands out a duplicate of the lock that guards nothing. Keep such state
// behind a pointer field, or declare the type mutable and use Get.
type View[T any] struct {
	holder Holder
}

// Value returns a copy of the instance as it is now. Writes to the copy do
// not reach the instance. The zero T is returned when the holder stores nil.
func (v View[T]) Value() T {
	var zero T

	if v.holder == nil {
		return zero
	}

	p, _ := v.holder.instance().(*T)
	if p == nil {
		return zero
	}

	return *p
}

// Aliases reports whether the view and r reach the same instance.
func (v View[T]) Aliases(r Ref[T]) bool {
	return Same(v.holder, r.holder)
}

// Holder returns the underlying holder, marked const.
func (v View[T]) Holder() Holder {
	return AsConst(v.holder)
}

// Get returns a mutable handle to T. It fails with ConstViolation if T is
// declared const-only and TypeNotAvailable if T is not declared.
func Get[T any](c Container) (Ref[T], error) {
	h, err := c.Lookup(Mut[T]())
	if err != nil {
		return Ref[T]{}, err
	}

	return Ref[T]{holder: h}, nil
}

// GetConst returns a read-only view of T, whichever form T is declared in.
func GetConst[T any](c Container) (View[T], error) {
	h, err := c.Lookup(Const[T]())
	if err != nil {
		return View[T]{}, err
	}

	return View[T]{holder: h}, nil
}

// MustGet returns a mutable handle to T or panics.
func MustGet[T any](c Container) Ref[T] {
	ref, err := Get[T](c)
	if err != nil {
		panic(fmt.Sprintf("failed to get %s: %v", TypeOf[T](), err))
	}

	return ref
}

// MustGetConst returns a read-only view of T or panics.
func MustGetConst[T any](c Container) View[T] {
	view, err := GetConst[T](c)
	if err != nil {
		panic(fmt.Sprintf("failed to get const %s: %v", TypeOf[T](), err))
	}

	return view
}
