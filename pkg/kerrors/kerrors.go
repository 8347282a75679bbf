// Package kerrors defines a closed set of error kinds shared across the
// control plane. Each kind is a typed struct satisfying error, so
// callers can branch on kind with errors.As while still getting a
// useful Error() string.
package kerrors

import "fmt"

// Kind is the tag of one of the closed error kinds.
type Kind string

const (
	KindUnauthorized          Kind = "Unauthorized"
	KindResourceMissing       Kind = "ResourceMissing"
	KindBusy                  Kind = "Busy"
	KindInterpolateUnknown    Kind = "InterpolateUnknown"
	KindPeripheryUnreachable  Kind = "PeripheryUnreachable"
	KindPeripheryRemoteFailure Kind = "PeripheryRemoteFailure"
	KindContainerEngineFailure Kind = "ContainerEngineFailure"
	KindPersistenceFailure    Kind = "PersistenceFailure"
	KindTimeout               Kind = "Timeout"
	KindCancelled             Kind = "Cancelled"
	KindPrecondition          Kind = "Precondition"
)

// Error is a domain error carrying one of the closed Kinds.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, kerrors.Busy("")) style checks work without needing
// the message to match.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return newf(KindUnauthorized, format, args...)
}

func ResourceMissing(format string, args ...any) *Error {
	return newf(KindResourceMissing, format, args...)
}

func Busy(format string, args ...any) *Error {
	return newf(KindBusy, format, args...)
}

func InterpolateUnknown(format string, args ...any) *Error {
	return newf(KindInterpolateUnknown, format, args...)
}

func PeripheryUnreachable(cause error, format string, args ...any) *Error {
	e := newf(KindPeripheryUnreachable, format, args...)
	e.Cause = cause
	return e
}

func PeripheryRemoteFailure(format string, args ...any) *Error {
	return newf(KindPeripheryRemoteFailure, format, args...)
}

func ContainerEngineFailure(format string, args ...any) *Error {
	return newf(KindContainerEngineFailure, format, args...)
}

func PersistenceFailure(cause error, format string, args ...any) *Error {
	e := newf(KindPersistenceFailure, format, args...)
	e.Cause = cause
	return e
}

func Timeout(format string, args ...any) *Error {
	return newf(KindTimeout, format, args...)
}

func Cancelled(format string, args ...any) *Error {
	return newf(KindCancelled, format, args...)
}

func Precondition(format string, args ...any) *Error {
	return newf(KindPrecondition, format, args...)
}

// Has reports whether err, or any error reached through its Cause or
// Unwrap chain, is an *Error of the given kind; it serves the common
// "is this a Busy error" style check.
func Has(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		type unwrapper interface{ Unwrap() error }
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
