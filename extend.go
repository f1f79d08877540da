package crate

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"
)

// Extend returns a container holding every slot of c followed by one slot
// per holder, in order. Original slots alias the same instances as c.
//
// None of the new types may already be in c or repeat among themselves, in
// either const or mutable form. Wrap a holder with AsConst to add it as a
// const-only slot.
//
// Example:
//
//	s2, err := crate.Extend(s1, crate.Share(&C{}))
func Extend(c Container, holders ...Holder) (Container, error) {
	keys := make([]Key, 0, len(c.holders)+len(holders))
	keys = append(keys, c.shape.keys...)

	var err error

	for i, h := range holders {
		if h == nil {
			err = multierr.Append(err, newError(CodeInvalidHolder, "holder cannot be nil", nil).
				WithContext("position", i))

			continue
		}

		if h.Strategy() != c.strategy {
			err = multierr.Append(err, ErrMismatch(h.Key().typ,
				fmt.Sprintf("%s holder in %s container", h.Strategy(), c.strategy)))

			continue
		}

		if herr := checkUsable(h); herr != nil {
			err = multierr.Append(err, herr.WithContext("position", i))

			continue
		}

		keys = append(keys, h.Key())
	}

	if err != nil {
		return Container{}, err
	}

	shape, err := Declare(keys...)
	if err != nil {
		return Container{}, err
	}

	stored := make([]Holder, 0, len(keys))
	stored = append(stored, c.holders...)

	for _, h := range holders {
		stored = append(stored, unwrap(h))
	}

	return Container{
		strategy:   c.strategy,
		shape:      shape,
		holders:    stored,
		middleware: c.middleware,
	}, nil
}

// ExtendRefs extends a borrowed container with bare instances, each a
// non-nil pointer, wrapping them as references.
//
// Example:
//
//	var cfg Config
//	deps2, err := crate.ExtendRefs(deps, &cfg)
func ExtendRefs(c Container, instances ...any) (Container, error) {
	if c.strategy != StrategyBorrowed {
		return Container{}, ErrMismatch(nil, fmt.Sprintf("references require a borrowed container, got %s", c.strategy))
	}

	holders := make([]Holder, len(instances))

	for i, inst := range instances {
		h, err := borrowAny(inst)
		if err != nil {
			return Container{}, err.WithContext("position", i)
		}

		holders[i] = h
	}

	return Extend(c, holders...)
}

// Combine returns a container holding the slots of a, then b, then each of
// more, left to right. The type-sets must be pairwise disjoint and every
// container must use the same strategy. The result inherits the middleware
// of a.
//
// Combine(a, b, c) is Combine(Combine(a, b), c).
func Combine(a, b Container, more ...Container) (Container, error) {
	out, err := combine(a, b)
	if err != nil {
		return Container{}, err
	}

	for _, next := range more {
		if out, err = combine(out, next); err != nil {
			return Container{}, err
		}
	}

	return out, nil
}

func combine(lhs, rhs Container) (Container, error) {
	if lhs.strategy != rhs.strategy {
		var typ reflect.Type
		if len(rhs.shape.keys) > 0 {
			typ = rhs.shape.keys[0].typ
		}

		return Container{}, ErrMismatch(typ, fmt.Sprintf("cannot combine %s and %s containers", lhs.strategy, rhs.strategy))
	}

	keys := make([]Key, 0, len(lhs.shape.keys)+len(rhs.shape.keys))
	keys = append(keys, lhs.shape.keys...)
	keys = append(keys, rhs.shape.keys...)

	shape, err := Declare(keys...)
	if err != nil {
		return Container{}, err
	}

	holders := make([]Holder, 0, len(keys))
	holders = append(holders, lhs.holders...)
	holders = append(holders, rhs.holders...)

	return Container{
		strategy:   lhs.strategy,
		shape:      shape,
		holders:    holders,
		middleware: lhs.middleware,
	}, nil
}
