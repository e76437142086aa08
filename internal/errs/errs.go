// Package errs implements the runtime's shared error taxonomy: one typed
// Kind per subsystem concept (spec §7), carried by a single Error type
// shared by every subsystem rather than one ad-hoc wrapper type per file.
package errs

import "fmt"

// Kind enumerates the error categories named in the specification's
// error-handling design. Subsystem packages wrap these with their own
// context rather than defining parallel enums.
type Kind string

const (
	KindConfig        Kind = "config"
	KindValidation     Kind = "validation"
	KindGeneration     Kind = "generation"
	KindDispatch       Kind = "dispatch"
	KindSubstitution   Kind = "substitution"
	KindHandlerSend    Kind = "handler_send"
	KindHandlerJSON    Kind = "handler_json"
	KindHandlerPattern Kind = "handler_pattern"
	KindHandlerRoom    Kind = "handler_room"
	KindHandlerConn    Kind = "handler_connection"
	KindSecurity       Kind = "security"
	KindExecution      Kind = "execution"
	KindIntegrity      Kind = "integrity"
	KindExternalAPI    Kind = "external_api"
	KindGeneric        Kind = "generic"
)

// Error is the shared typed error used across every subsystem package.
// Subsystems construct it via the New/Wrap helpers rather than defining
// their own error struct per file.
type Error struct {
	Subsystem string
	Kind      Kind
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Subsystem, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Subsystem, e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an Error with no underlying cause.
func New(subsystem string, kind Kind, message string) *Error {
	return &Error{Subsystem: subsystem, Kind: kind, Message: message}
}

// Newf constructs an Error with a formatted message.
func Newf(subsystem string, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Subsystem: subsystem, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error wrapping an underlying cause.
func Wrap(subsystem string, kind Kind, message string, cause error) *Error {
	return &Error{Subsystem: subsystem, Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ee, ok := err.(*Error); ok {
			e = ee
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
