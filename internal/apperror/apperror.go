// Package apperror defines the tagged error type used across component
// boundaries. Callers dispatch on Kind with a single switch instead of
// matching concrete error types.
package apperror

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind classifies an error for boundary handling.
type Kind int

const (
	// KindValidation covers malformed or missing client input. Recovered
	// locally into a structured rejection; never a server fault.
	KindValidation Kind = iota
	// KindNotFound covers absent projects, applications, or files.
	KindNotFound
	// KindConflict covers duplicate-key rejections and illegal state
	// transitions.
	KindConflict
	// KindAuth covers generic authentication/authorization denial.
	KindAuth
	// KindAuthExpired covers session/token expiry, surfaced distinctly so a
	// client can prompt re-login instead of treating it as a hard denial.
	KindAuthExpired
	// KindInfrastructure covers store/database unavailability and anything
	// unrecognized. Carries a correlation ID for support triage.
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindAuthExpired:
		return "auth_expired"
	default:
		return "infrastructure"
	}
}

// Error is the single error shape crossing component boundaries.
type Error struct {
	Kind    Kind
	Message string
	// Fields carries per-field problems for batch validation rejections.
	Fields map[string]string
	// CorrelationID is set on infrastructure errors so operators can match a
	// caller-visible failure to server-side logs.
	CorrelationID string
	// Err is the wrapped cause, logged server-side and never exposed.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a batch validation rejection carrying every offending
// field at once.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound creates a not-found rejection.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict creates a conflict rejection.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Infrastructure wraps a transient or unknown failure, stamping a fresh
// correlation ID. The cause is retained for logging only.
func Infrastructure(message string, err error) *Error {
	return &Error{
		Kind:          KindInfrastructure,
		Message:       message,
		CorrelationID: uuid.NewString(),
		Err:           err,
	}
}

// KindOf extracts the kind of err. Unknown errors classify as infrastructure
// per the propagation policy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInfrastructure
}

// As returns err as *Error when it is one.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
