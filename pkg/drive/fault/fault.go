// Package fault provides the error taxonomy shared by every drive component.
// This is a leaf package with no internal dependencies, designed to be
// imported by the store, the domain services and the API layer without
// causing circular imports.
//
// Import graph: fault <- models <- store <- services <- api
package fault

import (
	"errors"
	"fmt"
)

// Code classifies a failure so that callers can react without parsing
// message strings.
type Code int

const (
	// CodeInvalidInput indicates the request failed validation before any
	// side effect took place.
	CodeInvalidInput Code = iota + 1

	// CodeUnauthorized indicates missing or invalid credentials.
	CodeUnauthorized

	// CodeForbidden indicates the principal is authenticated but lacks the
	// privilege the operation requires.
	CodeForbidden

	// CodeNotFound indicates the resource does not exist, or is deliberately
	// hidden from the caller.
	CodeNotFound

	// CodeConflict indicates a uniqueness violation, such as a live path
	// collision.
	CodeConflict

	// CodeTimeout indicates a deadline expired. Retryable.
	CodeTimeout

	// CodeUnavailable indicates a dependency is down or unreachable.
	// Retryable.
	CodeUnavailable

	// CodeInternal indicates an invariant breach or an unclassified failure.
	CodeInternal
)

// String returns a human-readable name for the code.
func (c Code) String() string {
	switch c {
	case CodeInvalidInput:
		return "InvalidInput"
	case CodeUnauthorized:
		return "Unauthorized"
	case CodeForbidden:
		return "Forbidden"
	case CodeNotFound:
		return "NotFound"
	case CodeConflict:
		return "Conflict"
	case CodeTimeout:
		return "Timeout"
	case CodeUnavailable:
		return "Unavailable"
	case CodeInternal:
		return "Internal"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Retryable reports whether the failure class is transient and a retry of
// the same request may succeed.
func (c Code) Retryable() bool {
	return c == CodeTimeout || c == CodeUnavailable
}

// Fault is a classified drive error. Ref optionally carries the path or id
// the failure relates to.
type Fault struct {
	Code    Code
	Message string
	Ref     string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Ref != "" {
		return fmt.Sprintf("%s: %s (ref: %s)", f.Code, f.Message, f.Ref)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Factory functions

// InvalidInput creates an InvalidInput fault.
func InvalidInput(message string) *Fault {
	return &Fault{Code: CodeInvalidInput, Message: message}
}

// Unauthorized creates an Unauthorized fault.
func Unauthorized(message string) *Fault {
	return &Fault{Code: CodeUnauthorized, Message: message}
}

// Forbidden creates a Forbidden fault.
func Forbidden(message string) *Fault {
	return &Fault{Code: CodeForbidden, Message: message}
}

// NotFound creates a NotFound fault for the named resource type.
func NotFound(resource, ref string) *Fault {
	return &Fault{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Ref:     ref,
	}
}

// Conflict creates a Conflict fault.
func Conflict(message, ref string) *Fault {
	return &Fault{Code: CodeConflict, Message: message, Ref: ref}
}

// Timeout creates a Timeout fault for the named operation.
func Timeout(operation string) *Fault {
	return &Fault{
		Code:    CodeTimeout,
		Message: fmt.Sprintf("%s timed out", operation),
	}
}

// Unavailable creates an Unavailable fault.
func Unavailable(message string) *Fault {
	return &Fault{Code: CodeUnavailable, Message: message}
}

// Internal creates an Internal fault.
func Internal(message, ref string) *Fault {
	return &Fault{Code: CodeInternal, Message: message, Ref: ref}
}

// Classification helpers

// CodeOf extracts the code from an error. Errors that do not carry a Fault
// anywhere in their chain classify as Internal; nil classifies as zero.
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	var f *Fault
	if errors.As(err, &f) {
		return f.Code
	}
	return CodeInternal
}

// IsInvalidInput returns true if the error classifies as InvalidInput.
func IsInvalidInput(err error) bool { return CodeOf(err) == CodeInvalidInput }

// IsUnauthorized returns true if the error classifies as Unauthorized.
func IsUnauthorized(err error) bool { return CodeOf(err) == CodeUnauthorized }

// IsForbidden returns true if the error classifies as Forbidden.
func IsForbidden(err error) bool { return CodeOf(err) == CodeForbidden }

// IsNotFound returns true if the error classifies as NotFound.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsConflict returns true if the error classifies as Conflict.
func IsConflict(err error) bool { return CodeOf(err) == CodeConflict }

// IsInternal returns true if the error classifies as Internal.
func IsInternal(err error) bool { return CodeOf(err) == CodeInternal }

// IsRetryable returns true if the error classifies as Timeout or
// Unavailable.
func IsRetryable(err error) bool { return CodeOf(err).Retryable() }
