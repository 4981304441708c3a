package duvc

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed taxonomy of failure modes the core can report.
// Success is never stored in an Error; it exists only as the absence-of-error
// sentinel at ABI boundaries that need to represent "no error" as a value.
type ErrorKind int

const (
	Success ErrorKind = iota
	DeviceNotFound
	DeviceBusy
	PropertyNotSupported
	InvalidValue
	PermissionDenied
	SystemError
	InvalidArgument
	NotImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case Success:
		return "Success"
	case DeviceNotFound:
		return "DeviceNotFound"
	case DeviceBusy:
		return "DeviceBusy"
	case PropertyNotSupported:
		return "PropertyNotSupported"
	case InvalidValue:
		return "InvalidValue"
	case PermissionDenied:
		return "PermissionDenied"
	case SystemError:
		return "SystemError"
	case InvalidArgument:
		return "InvalidArgument"
	case NotImplemented:
		return "NotImplemented"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the uniform fallibility type threaded through every core
// operation. It implements the standard error interface so it composes with
// errors.Is/errors.As and %w wrapping, while still exposing Kind and
// PlatformCode for callers that want to branch on the taxonomy directly.
type Error struct {
	Kind ErrorKind
	// Message is a human-readable description built by this package from a
	// library-side context string such as "reading Brightness". The
	// platform's own message text is not included; PlatformCode carries the
	// raw code instead.
	Message string
	// PlatformCode carries the original HRESULT/GetLastError value, when
	// one exists. Not every ErrorKind originates from a platform code
	// (e.g. InvalidArgument for a caller passing a bad enum never reaches
	// the platform), so this is a pointer rather than a bare int32.
	PlatformCode *int32
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.PlatformCode != nil {
		return fmt.Sprintf("duvc: %s: %s (platform code 0x%08X)", e.Kind, e.Message, uint32(*e.PlatformCode))
	}
	return fmt.Sprintf("duvc: %s: %s", e.Kind, e.Message)
}

// newErr builds an Error with no platform code, for programmer-error and
// structural failures detected entirely in Go.
func newErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// newPlatformErr builds an Error carrying a platform result code.
func newPlatformErr(kind ErrorKind, code int32, format string, args ...any) *Error {
	c := code
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), PlatformCode: &c}
}

// KindOf reports the ErrorKind carried by err, or Success if err is nil, or
// SystemError if err is a non-nil error that isn't one of ours (defensive:
// every core entry point is expected to only ever return *Error or nil, but
// callers composing this package with others may still see a foreign error
// wrapped in by a caller-supplied callback).
func KindOf(err error) ErrorKind {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return SystemError
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
