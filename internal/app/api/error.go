package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call.
type Kind int

const (
	// Unauthenticated means the call needed a credential and none was held.
	// No request was sent.
	Unauthenticated Kind = iota + 1

	// Rejected means the service answered with a non-2xx status.
	Rejected

	// Unreachable means the request never produced a response: timeout, DNS failure,
	// refused connection or an unreadable body.
	Unreachable
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case Rejected:
		return "rejected"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// GenericFailure is the message used when a rejection carries none and the caller gave no fallback.
const GenericFailure = "Request failed"

// Error is the failure of one call to the remote service.
type Error struct {
	Kind Kind

	// Status is the HTTP status of a Rejected call, 0 otherwise.
	Status int

	// Message is the service's message for Rejected calls, else the caller's fallback.
	Message string

	// Err is the transport error behind an Unreachable call.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case Rejected:
		return fmt.Sprintf("api rejected (HTTP %d): %s", e.Status, e.Message)
	case Unreachable:
		return fmt.Sprintf("api unreachable: %v", e.Err)
	default:
		return "api " + e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// MessageOf returns the user-facing message of a Rejected error, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == Rejected && apiErr.Message != "" && apiErr.Message != GenericFailure {
		return apiErr.Message
	}
	return fallback
}
