package crate

import (
	"fmt"
	"reflect"

	"github.com/xraph/go-utils/errs"
)

// Strategy is the storage strategy shared by every holder of a container.
type Strategy int

const (
	// StrategyShared holds co-owned instances; the instance lives as long as
	// any container or holder still references it.
	StrategyShared Strategy = iota

	// StrategyBorrowed holds references to instances owned elsewhere.
	StrategyBorrowed

	// StrategyLazy holds instances built on first access by a factory.
	StrategyLazy
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyShared:
		return "shared"
	case StrategyBorrowed:
		return "borrowed"
	case StrategyLazy:
		return "lazy"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Holder is a storage cell for exactly one service instance.
// Copying a holder never copies the instance it refers to.
type Holder interface {
	// Key returns the slot the holder fills.
	Key() Key

	// Strategy returns how the holder stores its instance.
	Strategy() Strategy

	// instance returns the held *T as any, constructing it if the holder is lazy.
	instance() any
}

// pointerHolder backs both the Shared and Borrowed strategies. Go's garbage
// collector provides the shared ownership; borrowed holders carry the same
// pointer but document that the caller owns the instance.
type pointerHolder struct {
	typ      reflect.Type
	ptr      any
	strategy Strategy
}

func (h pointerHolder) Key() Key {
	return Key{typ: h.typ}
}

func (h pointerHolder) Strategy() Strategy {
	return h.strategy
}

func (h pointerHolder) instance() any {
	return h.ptr
}

// Share wraps an existing instance as a shared holder.
// A nil pointer is stored as is.
func Share[T any](instance *T) Holder {
	return pointerHolder{typ: TypeOf[T](), ptr: instance, strategy: StrategyShared}
}

// MakeShared returns a shared holder of a fresh zero T.
func MakeShared[T any]() Holder {
	return Share(new(T))
}

// Borrow wraps an instance owned by the caller. The caller keeps the
// instance alive for as long as any container holding the reference is used.
func Borrow[T any](instance *T) Holder {
	return pointerHolder{typ: TypeOf[T](), ptr: instance, strategy: StrategyBorrowed}
}

// borrowAny wraps a bare *T whose T is known only at runtime.
func borrowAny(instance any) (Holder, *errs.Error) {
	if instance == nil {
		return nil, newError(CodeInvalidHolder, "instance cannot be nil", nil)
	}

	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer {
		return nil, newError(CodeInvalidHolder, "instance must be a pointer", v.Type())
	}

	if v.IsNil() {
		return nil, newError(CodeInvalidHolder, "instance cannot be a nil pointer", v.Type().Elem())
	}

	return pointerHolder{typ: v.Type().Elem(), ptr: instance, strategy: StrategyBorrowed}, nil
}

// defaultHolder builds a shared holder around a fresh zero value of typ.
func defaultHolder(typ reflect.Type) Holder {
	return pointerHolder{typ: typ, ptr: reflect.New(typ).Interface(), strategy: StrategyShared}
}

// constHolder restricts a holder to const access.
type constHolder struct {
	Holder
}

func (h constHolder) Key() Key {
	return h.Holder.Key().AsConst()
}

// AsConst marks h as const-only. Containers built from it through Extend or
// Combine reject mutable lookups of its type.
func AsConst(h Holder) Holder {
	if h == nil {
		return nil
	}

	if _, ok := h.(constHolder); ok {
		return h
	}

	return constHolder{Holder: h}
}

// unwrap strips a const marker, so slots store the underlying holder and
// carry the capability in their key.
func unwrap(h Holder) Holder {
	if c, ok := h.(constHolder); ok {
		return c.Holder
	}

	return h
}

// Same reports whether a and b refer to the same underlying instance.
// Lazy holders are compared by identity and are not resolved.
func Same(a, b Holder) bool {
	a, b = unwrap(a), unwrap(b)
	if a == nil || b == nil {
		return a == b
	}

	if a.Key().typ != b.Key().typ {
		return false
	}

	pa, aok := a.(pointerHolder)
	pb, bok := b.(pointerHolder)

	if aok && bok {
		return pa.ptr == pb.ptr
	}

	return a == b
}
