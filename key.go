package crate

import (
	"reflect"
	"strings"

	"go.uber.org/multierr"
)

// Key identifies a slot by its service type and whether the slot is const-only.
type Key struct {
	typ      reflect.Type
	readOnly bool
}

// Mut declares T as a mutable slot.
//
// Example:
//
//	shape := crate.MustDeclare(crate.Mut[Logger](), crate.Const[Config]())
func Mut[T any]() Key {
	return Key{typ: TypeOf[T]()}
}

// Const declares T as a const-only slot.
func Const[T any]() Key {
	return Key{typ: TypeOf[T](), readOnly: true}
}

// KeyOf builds a key from a type known only at runtime.
func KeyOf(typ reflect.Type, readOnly bool) Key {
	return Key{typ: typ, readOnly: readOnly}
}

// Type returns the service type.
func (k Key) Type() reflect.Type {
	return k.typ
}

// ReadOnly reports whether the key names the const form of its type.
func (k Key) ReadOnly() bool {
	return k.readOnly
}

// AsConst returns the const form of the key.
func (k Key) AsConst() Key {
	return Key{typ: k.typ, readOnly: true}
}

// String returns a human-readable representation of the key
func (k Key) String() string {
	if k.readOnly {
		return "const " + typeName(k.typ)
	}

	return typeName(k.typ)
}

// Shape is a declared, ordered type-set. Slots are addressed through a fixed
// type -> index map built once at declaration time.
type Shape struct {
	keys  []Key
	index map[reflect.Type]int
}

// Declare validates keys and returns the resulting shape. Const and mutable
// forms of the same type count as the same type; every duplicate is reported.
func Declare(keys ...Key) (Shape, error) {
	types := make([]reflect.Type, len(keys))
	for i, k := range keys {
		if k.typ == nil {
			return Shape{}, newError(CodeInvalidRequest, "key has no type", nil).
				WithContext("position", i)
		}

		types[i] = k.typ
	}

	if !AllUnique(types) {
		var err error

		dups, counts := duplicates(types)
		for i, t := range dups {
			err = multierr.Append(err, ErrDuplicate(t, counts[i]))
		}

		return Shape{}, err
	}

	index := make(map[reflect.Type]int, len(keys))
	for i, t := range types {
		index[t] = i
	}

	return Shape{keys: append([]Key(nil), keys...), index: index}, nil
}

// MustDeclare is like Declare but panics on an invalid type-set.
// Use only for package-level shape declarations.
func MustDeclare(keys ...Key) Shape {
	shape, err := Declare(keys...)
	if err != nil {
		panic(err)
	}

	return shape
}

// Keys returns the declared keys in order.
func (s Shape) Keys() []Key {
	return append([]Key(nil), s.keys...)
}

// Len returns the number of declared types.
func (s Shape) Len() int {
	return len(s.keys)
}

// Types returns the bare declared types in order.
func (s Shape) Types() []reflect.Type {
	types := make([]reflect.Type, len(s.keys))
	for i, k := range s.keys {
		types[i] = k.typ
	}

	return types
}

// slot returns the index of typ and its declared key.
func (s Shape) slot(typ reflect.Type) (int, Key, bool) {
	i, ok := s.index[typ]
	if !ok {
		return 0, Key{}, false
	}

	return i, s.keys[i], true
}

// String renders the shape as "{A, const B}".
func (s Shape) String() string {
	parts := make([]string, len(s.keys))
	for i, k := range s.keys {
		parts[i] = k.String()
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
