// Package errdefs defines the typed failures the API surfaces to callers.
// Every error that crosses a handler boundary is one of these kinds, so the
// HTTP layer can map failures to statuses in a single place.
package errdefs

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindNotConfigured: a required credential is missing. User-actionable.
	KindNotConfigured
	// KindInvalidCredential: the remote rejected the credential (401-equivalent).
	KindInvalidCredential
	// KindRateLimited: the remote throttled the request (429-equivalent).
	KindRateLimited
	// KindUpstream: remote non-success for reasons other than auth/quota.
	KindUpstream
	// KindDestinationNotResolved: no inventory code for the given place name.
	KindDestinationNotResolved
	// KindResponseFormat: model output unparseable or structurally invalid.
	KindResponseFormat
	// KindInvalidInput: caller error, rejected before any network call.
	KindInvalidInput
	// KindStoreUnavailable: persistence was never configured. Expected mode.
	KindStoreUnavailable
)

type Error struct {
	Kind    Kind
	Message string
	// Status is the upstream HTTP status, when the failure carries one.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

func NotConfigured(service string) *Error {
	return &Error{
		Kind:    KindNotConfigured,
		Message: fmt.Sprintf("%s API key not configured, add your key in settings", service),
	}
}

func InvalidCredential(service string, cause error) *Error {
	return &Error{
		Kind:    KindInvalidCredential,
		Message: fmt.Sprintf("invalid %s API key, check your key in settings", service),
		Status:  401,
		Err:     cause,
	}
}

func RateLimited(service string, cause error) *Error {
	return &Error{
		Kind:    KindRateLimited,
		Message: fmt.Sprintf("%s rate limit or quota exceeded, wait and retry", service),
		Status:  429,
		Err:     cause,
	}
}

func Upstream(service string, status int, cause error) *Error {
	return &Error{
		Kind:    KindUpstream,
		Message: fmt.Sprintf("%s returned status %d", service, status),
		Status:  status,
		Err:     cause,
	}
}

func DestinationNotResolved(place string) *Error {
	return &Error{
		Kind:    KindDestinationNotResolved,
		Message: fmt.Sprintf("no destination code found for %q", place),
	}
}

// ResponseFormat reports an unparseable model response. The caller should
// retry the whole generation, not repair the text.
func ResponseFormat(cause error) *Error {
	return &Error{
		Kind:    KindResponseFormat,
		Message: "AI response format error, try generating again",
		Err:     cause,
	}
}

// ResponseShape reports a parsed but structurally invalid model response,
// enumerating every missing or invalid field.
func ResponseShape(fields []string) *Error {
	return &Error{
		Kind:    KindResponseFormat,
		Message: "AI response missing required fields: " + strings.Join(fields, ", "),
	}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func InvalidDateRange(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func StoreUnavailable() *Error {
	return &Error{
		Kind:    KindStoreUnavailable,
		Message: "persistence is not configured, itineraries cannot be saved",
	}
}
