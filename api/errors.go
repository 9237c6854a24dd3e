// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-rt.

package api

import "fmt"

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeInvalidFree
	ErrCodeCapacityExceeded
	ErrCodeLockMisuse
	ErrCodeNotSupported
	ErrCodeInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeInvalidFree:
		return "invalid_free"
	case ErrCodeCapacityExceeded:
		return "capacity_exceeded"
	case ErrCodeLockMisuse:
		return "lock_misuse"
	case ErrCodeNotSupported:
		return "not_supported"
	default:
		return "internal"
	}
}

// Common errors used across the library. Match them with errors.Is; errors
// returned by components carry extra context but compare equal by code.
var (
	// ErrInvalidArgument reports a malformed request (bad size, alignment, index).
	ErrInvalidArgument = NewError(ErrCodeInvalidArgument, "invalid argument")
	// ErrInvalidFree reports a deallocation of memory the pool does not lend out:
	// a double free or a foreign pointer.
	ErrInvalidFree = NewError(ErrCodeInvalidFree, "deallocating memory not owned by the pool")
	// ErrCapacityExceeded reports an insert into a full fixed-capacity container.
	ErrCapacityExceeded = NewError(ErrCodeCapacityExceeded, "fixed capacity exceeded")
	// ErrLockMisuse reports a relock by the current holder of a non-reentrant
	// lock or an unlock by a non-holder.
	ErrLockMisuse = NewError(ErrCodeLockMisuse, "lock misuse")
	// ErrNotSupported reports a platform feature that is unavailable.
	ErrNotSupported = NewError(ErrCodeNotSupported, "operation not supported")
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// With returns a copy of e carrying one additional context entry. The
// package-level sentinels are never mutated.
func (e *Error) With(key string, value any) *Error {
	out := &Error{
		Code:    e.Code,
		Message: e.Message,
		Context: make(map[string]any, len(e.Context)+1),
	}
	for k, v := range e.Context {
		out.Context[k] = v
	}
	out.Context[key] = value
	return out
}

// WithContext adds context information to the error in place.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
