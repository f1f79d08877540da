package crate

import (
	"fmt"
	"reflect"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeDuplicateType indicates a type-set declares the same type more than once
	CodeDuplicateType = "DUPLICATE_TYPE"

	// CodeTypeNotAvailable indicates a requested type is not held by the container
	CodeTypeNotAvailable = "TYPE_NOT_AVAILABLE"

	// CodeConstViolation indicates mutable access was requested for a const-only slot
	CodeConstViolation = "CONST_VIOLATION"

	// CodeHolderMismatch indicates a holder does not fit the slot or strategy it is given to
	CodeHolderMismatch = "HOLDER_MISMATCH"

	// CodeInvalidHolder indicates a nil holder or a non-pointer instance
	CodeInvalidHolder = "INVALID_HOLDER"

	// CodeInvalidFactory indicates a lazy factory is nil
	CodeInvalidFactory = "INVALID_FACTORY"

	// CodeInvalidRequest indicates a malformed multi-value lookup
	CodeInvalidRequest = "INVALID_REQUEST"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================
//
// errs.Error matches by code under errors.Is, so every error returned by the
// container can be checked against these. Never add context to a sentinel:
// WithContext mutates the receiver.

// ErrDuplicateType is a sentinel error for duplicate declarations (for error checking).
var ErrDuplicateType = errs.NewError(CodeDuplicateType, "duplicate type", nil)

// ErrTypeNotAvailable is a sentinel error for missing types (for error checking).
var ErrTypeNotAvailable = errs.NewError(CodeTypeNotAvailable, "type not available", nil)

// ErrConstViolation is a sentinel error for mutable access to const-only slots.
var ErrConstViolation = errs.NewError(CodeConstViolation, "const violation", nil)

// ErrHolderMismatch is a sentinel error for holders that do not fit their slot.
var ErrHolderMismatch = errs.NewError(CodeHolderMismatch, "holder mismatch", nil)

// ErrInvalidHolder is returned when a nil holder or instance is supplied.
var ErrInvalidHolder = errs.NewError(CodeInvalidHolder, "invalid holder", nil)

// ErrInvalidFactory is returned when a lazy holder has no factory to run.
var ErrInvalidFactory = errs.NewError(CodeInvalidFactory, "factory cannot be nil", nil)

// ErrInvalidRequest is a sentinel error for malformed multi-value lookups.
var ErrInvalidRequest = errs.NewError(CodeInvalidRequest, "invalid request", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrDuplicate creates an error for a type declared more than once
func ErrDuplicate(typ reflect.Type, count int) *errs.Error {
	return newError(
		CodeDuplicateType,
		fmt.Sprintf("type '%s' declared %d times", typeName(typ), count),
		typ,
	).WithContext("count", count).(*errs.Error)
}

// ErrNotAvailable creates an error for a type the container does not hold
func ErrNotAvailable(typ reflect.Type) *errs.Error {
	return newError(
		CodeTypeNotAvailable,
		fmt.Sprintf("type '%s' not available", typeName(typ)),
		typ,
	)
}

// ErrConstOnly creates an error for a mutable request against a const-only slot
func ErrConstOnly(typ reflect.Type) *errs.Error {
	return newError(
		CodeConstViolation,
		fmt.Sprintf("type '%s' is only available as const", typeName(typ)),
		typ,
	)
}

// ErrMismatch creates an error for a holder that does not fit where it is used
func ErrMismatch(typ reflect.Type, detail string) *errs.Error {
	return newError(
		CodeHolderMismatch,
		fmt.Sprintf("holder mismatch for '%s': %s", typeName(typ), detail),
		typ,
	)
}

// newError builds a fresh error, recording typ under the "type" context key.
func newError(code, message string, typ reflect.Type) *errs.Error {
	err := errs.NewError(code, message, nil)
	if typ != nil {
		err.WithContext("type", typ.String())
	}

	return err
}

func typeName(typ reflect.Type) string {
	if typ == nil {
		return "<nil>"
	}

	return typ.String()
}
