// Package faults defines the client error taxonomy. Every failure surfaced to
// the controller carries a Kind it can branch on without string matching.
package faults

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// AuthRequired: operation attempted without a valid session.
	AuthRequired Kind = iota + 1
	// Forbidden: non-admin attempting an admin operation.
	Forbidden
	// ValidationFailed: caught client-side before any network call.
	ValidationFailed
	// NotFound: id absent from the current cache or rejected by the server.
	NotFound
	// NetworkFailure: transport-level failure, no usable response.
	NetworkFailure
	// ServerRejected: non-success status with a structured error message.
	ServerRejected
)

func (k Kind) String() string {
	switch k {
	case AuthRequired:
		return "auth_required"
	case Forbidden:
		return "forbidden"
	case ValidationFailed:
		return "validation_failed"
	case NotFound:
		return "not_found"
	case NetworkFailure:
		return "network_failure"
	case ServerRejected:
		return "server_rejected"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err, unwrapping as needed.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// UserMessage returns the user-facing message for err, falling back to a
// generic line when the failure carries no structured message.
func UserMessage(err error, fallback string) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return fallback
}
