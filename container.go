package crate

import (
	"fmt"

	"github.com/xraph/go-utils/errs"
	"go.uber.org/multierr"
)

// Container holds one holder per declared type, addressed by type.
//
// A Container is a small value: copying it copies the holders, never the
// instances behind them, so every copy observes mutations made through any
// other. Its shape is fixed once built. Lookups take no locks; the container
// is safe for concurrent use once it has been published.
type Container struct {
	strategy   Strategy
	shape      Shape
	holders    []Holder
	middleware *middlewareChain
}

// Default builds a shared container with a fresh zero instance of every
// declared type.
func Default(shape Shape) Container {
	holders := make([]Holder, len(shape.keys))
	for i, k := range shape.keys {
		holders[i] = defaultHolder(k.typ)
	}

	return Container{strategy: StrategyShared, shape: shape, holders: holders}
}

// New builds a container from one holder per declared type, in declared
// order. Every holder must use strategy and hold the type of its slot; a
// holder marked with AsConst may only fill a const slot.
func New(strategy Strategy, shape Shape, holders ...Holder) (Container, error) {
	if len(holders) != len(shape.keys) {
		return Container{}, newError(
			CodeHolderMismatch,
			fmt.Sprintf("shape %s declares %d types, got %d holders", shape, len(shape.keys), len(holders)),
			nil,
		)
	}

	var err error

	stored := make([]Holder, len(holders))

	for i, h := range holders {
		want := shape.keys[i]
		if h == nil {
			err = multierr.Append(err, newError(CodeInvalidHolder, "holder cannot be nil", want.typ).
				WithContext("position", i))

			continue
		}

		if herr := checkHolder(strategy, want, h); herr != nil {
			err = multierr.Append(err, herr.WithContext("position", i))

			continue
		}

		stored[i] = unwrap(h)
	}

	if err != nil {
		return Container{}, err
	}

	return Container{strategy: strategy, shape: shape, holders: stored}, nil
}

// NewServices builds a shared container.
func NewServices(shape Shape, holders ...Holder) (Container, error) {
	return New(StrategyShared, shape, holders...)
}

// NewDeps builds a borrowed container.
func NewDeps(shape Shape, holders ...Holder) (Container, error) {
	return New(StrategyBorrowed, shape, holders...)
}

// NewLazyServices builds a lazy container.
func NewLazyServices(shape Shape, holders ...Holder) (Container, error) {
	return New(StrategyLazy, shape, holders...)
}

// checkHolder validates that h can fill the slot declared as want.
func checkHolder(strategy Strategy, want Key, h Holder) *errs.Error {
	got := h.Key()

	if got.typ != want.typ {
		return ErrMismatch(want.typ, "holder stores "+typeName(got.typ))
	}

	if h.Strategy() != strategy {
		return ErrMismatch(want.typ, fmt.Sprintf("%s holder in %s container", h.Strategy(), strategy))
	}

	if got.readOnly && !want.readOnly {
		return ErrConstOnly(want.typ)
	}

	return checkUsable(h)
}

// Narrow builds a container of shape from the slots of src.
//
// A const target type accepts either form in src; a mutable target type
// requires the mutable form in src. Anything else is TypeNotAvailable.
func Narrow(src Container, shape Shape) (Container, error) {
	var err error

	holders := make([]Holder, len(shape.keys))

	for i, want := range shape.keys {
		j, have, ok := src.shape.slot(want.typ)
		if !ok {
			err = multierr.Append(err, ErrNotAvailable(want.typ))

			continue
		}

		if !want.readOnly && have.readOnly {
			err = multierr.Append(err, ErrNotAvailable(want.typ).
				WithContext("available", have.String()))

			continue
		}

		holders[i] = src.holders[j]
	}

	if err != nil {
		return Container{}, err
	}

	return Container{
		strategy:   src.strategy,
		shape:      shape,
		holders:    holders,
		middleware: src.middleware,
	}, nil
}

// Use returns a copy of the container that runs mw around every lookup.
// Middleware is called in the order it is added.
func (c Container) Use(mw ...Middleware) Container {
	c.middleware = c.middleware.with(mw...)

	return c
}

// Lookup returns the holder for key.
//
// A mutable key is served only by a mutable slot; a const key is served by
// either form and yields the same holder, never a copy.
func (c Container) Lookup(key Key) (Holder, error) {
	if err := c.middleware.beforeLookup(key); err != nil {
		return nil, err
	}

	holder, err := c.lookup(key)

	if mwErr := c.middleware.afterLookup(key, holder, err); mwErr != nil {
		return nil, mwErr
	}

	if err != nil {
		return nil, err
	}

	return holder, nil
}

func (c Container) lookup(key Key) (Holder, error) {
	i, declared, ok := c.shape.slot(key.typ)
	if !ok {
		return nil, ErrNotAvailable(key.typ)
	}

	if !key.readOnly && declared.readOnly {
		return nil, ErrConstOnly(key.typ)
	}

	return c.holders[i], nil
}

// Has reports whether key can be looked up.
func (c Container) Has(key Key) bool {
	_, err := c.lookup(key)

	return err == nil
}

// Strategy returns the storage strategy of every holder in the container.
func (c Container) Strategy() Strategy {
	return c.strategy
}

// Shape returns the declared type-set.
func (c Container) Shape() Shape {
	return c.shape
}

// Keys returns the declared keys in order.
func (c Container) Keys() []Key {
	return c.shape.Keys()
}

// Len returns the number of slots.
func (c Container) Len() int {
	return len(c.holders)
}

// String renders the container's strategy and shape.
func (c Container) String() string {
	return c.strategy.String() + c.shape.String()
}
