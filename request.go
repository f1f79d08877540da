package crate

import "fmt"

// Request describes one element of a multi-value lookup.
// Use RefOf and ViewOf to create typed requests.
type Request interface {
	// Key returns the slot the request asks for.
	Key() Key

	resolve(c Container) (any, error)
}

// TypedRequest is a Request whose result type H is known at compile time:
// Ref[T] for mutable requests, View[T] for const ones.
type TypedRequest[H any] struct {
	key Key
	fn  func(Container) (H, error)
}

// RefOf requests a mutable handle to T.
func RefOf[T any]() TypedRequest[Ref[T]] {
	return TypedRequest[Ref[T]]{key: Mut[T](), fn: Get[T]}
}

// ViewOf requests a read-only view of T.
func ViewOf[T any]() TypedRequest[View[T]] {
	return TypedRequest[View[T]]{key: Const[T](), fn: GetConst[T]}
}

// Key implements Request.
func (r TypedRequest[H]) Key() Key {
	return r.key
}

func (r TypedRequest[H]) resolve(c Container) (any, error) {
	return r.Get(c)
}

// Get resolves the request against c.
func (r TypedRequest[H]) Get(c Container) (H, error) {
	if r.fn == nil {
		var zero H

		return zero, newError(CodeInvalidRequest, "request was not created with RefOf or ViewOf", nil)
	}

	return r.fn(c)
}

// Group is the ordered result of GetAll. Each element is the Ref or View
// produced by the matching request.
type Group []any

// GetAll resolves two or more requests, each independently, in order.
//
// Example:
//
//	g, err := crate.GetAll(c, crate.RefOf[A](), crate.ViewOf[B]())
//	a := g[0].(crate.Ref[A])
//	b := g[1].(crate.View[B])
func GetAll(c Container, reqs ...Request) (Group, error) {
	if len(reqs) < 2 {
		return nil, newError(
			CodeInvalidRequest,
			fmt.Sprintf("multi-value lookup needs at least 2 requests, got %d", len(reqs)),
			nil,
		)
	}

	group := make(Group, len(reqs))

	for i, req := range reqs {
		if req == nil {
			return nil, newError(CodeInvalidRequest, "request cannot be nil", nil).
				WithContext("position", i)
		}

		v, err := req.resolve(c)
		if err != nil {
			return nil, err
		}

		group[i] = v
	}

	return group, nil
}

// Get2 resolves two typed requests.
//
// Example:
//
//	a, b, err := crate.Get2(c, crate.RefOf[A](), crate.ViewOf[B]())
func Get2[H1, H2 any](c Container, r1 TypedRequest[H1], r2 TypedRequest[H2]) (H1, H2, error) {
	var (
		zero1 H1
		zero2 H2
	)

	v1, err := r1.Get(c)
	if err != nil {
		return zero1, zero2, err
	}

	v2, err := r2.Get(c)
	if err != nil {
		return zero1, zero2, err
	}

	return v1, v2, nil
}

// Get3 resolves three typed requests.
func Get3[H1, H2, H3 any](c Container, r1 TypedRequest[H1], r2 TypedRequest[H2], r3 TypedRequest[H3]) (H1, H2, H3, error) {
	var (
		zero1 H1
		zero2 H2
		zero3 H3
	)

	v1, v2, err := Get2(c, r1, r2)
	if err != nil {
		return zero1, zero2, zero3, err
	}

	v3, err := r3.Get(c)
	if err != nil {
		return zero1, zero2, zero3, err
	}

	return v1, v2, v3, nil
}

// Get4 resolves four typed requests.
func Get4[H1, H2, H3, H4 any](c Container, r1 TypedRequest[H1], r2 TypedRequest[H2], r3 TypedRequest[H3], r4 TypedRequest[H4]) (H1, H2, H3, H4, error) {
	var (
		zero1 H1
		zero2 H2
		zero3 H3
		zero4 H4
	)

	v1, v2, v3, err := Get3(c, r1, r2, r3)
	if err != nil {
		return zero1, zero2, zero3, zero4, err
	}

	v4, err := r4.Get(c)
	if err != nil {
		return zero1, zero2, zero3, zero4, err
	}

	return v1, v2, v3, v4, nil
}
