package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure once, at the HTTP-status/transport
// boundary. Callers branch on the kind instead of re-inspecting causes.
type ErrorKind string

const (
	// ErrConnectivity covers network-unreachable, CORS-blocked requests and
	// timeouts. Fatal: every subsequent request would fail the same way.
	ErrConnectivity ErrorKind = "connectivity"
	// ErrAuth covers 401 and 403 responses. Fatal.
	ErrAuth ErrorKind = "auth"
	// ErrNotFound covers 404 on a specific resource. Skippable per ticket.
	ErrNotFound ErrorKind = "not_found"
	// ErrConfig covers missing credentials, base URLs or fields. Raised
	// before any network call.
	ErrConfig ErrorKind = "config"
	// ErrNoData means the run completed but produced zero entries.
	ErrNoData ErrorKind = "no_data"
	// ErrUnknown wraps anything unclassified. Fatal.
	ErrUnknown ErrorKind = "unknown"
)

// Error is a classified failure with a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int   // HTTP status when the failure came from a response
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a classified error without a cause.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WrapError builds a classified error around a cause.
func WrapError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// NewNoDataError names the ticket ids that were attempted so the message is
// actionable on its own.
func NewNoDataError(ticketIDs []string) *Error {
	return &Error{
		Kind:    ErrNoData,
		Message: fmt.Sprintf("no time entries found for tickets %s", strings.Join(ticketIDs, ", ")),
	}
}

// KindOf extracts the classification of err; unclassified errors report
// ErrUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrUnknown
}

// IsFatal reports whether err must abort a multi-ticket run. Only a
// per-resource not-found is worth skipping; everything else would repeat on
// the next ticket.
func IsFatal(err error) bool {
	return KindOf(err) != ErrNotFound
}
