// Package crate provides a typed service container: a fixed collection of
// service instances looked up by type.
//
// A container is declared with a Shape, an ordered list of unique service
// types each either mutable (Mut) or const-only (Const). Every slot is
// filled by a Holder, and all holders of a container share one Strategy:
//
//   - Shared holders co-own their instance (Share, MakeShared).
//   - Borrowed holders reference an instance owned elsewhere (Borrow).
//   - Lazy holders build their instance on first access (NewLazy, NewLazyOf).
//
// Containers are values. Copies, and containers derived with Narrow, Extend
// and Combine, alias the same instances, so a mutation made through one is
// visible through all of them.
//
//	shape := crate.MustDeclare(crate.Mut[Logger](), crate.Mut[Network]())
//	services := crate.Default(shape)
//
//	watchdog, _ := crate.Narrow(services, crate.MustDeclare(crate.Const[Logger](), crate.Mut[Network]()))
//	logger, _ := crate.GetConst[Logger](watchdog)
package crate
