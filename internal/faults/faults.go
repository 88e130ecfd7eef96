// Package faults defines the error taxonomy shared by every binary in the
// suite. Each failure is tagged with a category so the top-level entry points
// and the retry layer can decide between abort and bounded retry without
// string matching.
package faults

import (
	"errors"
	"fmt"
)

// Category classifies a failure for retry and exit-code decisions.
type Category string

const (
	// Configuration marks a missing or invalid config/env/flag value. Fatal, never retried.
	Configuration Category = "configuration"
	// Auth marks a rejected credential (401/403). Fatal, never retried.
	Auth Category = "auth"
	// TransientRemote marks network failures and 5xx responses. Safe to retry with backoff.
	TransientRemote Category = "transient-remote"
	// NoTarget marks a missing reconcile/comment target (e.g. no open merge request). Fatal.
	NoTarget Category = "no-target"
	// Post marks a write rejected by the remote API. Fatal; status and body are preserved.
	Post Category = "post"
)

// Error is a categorized failure. HTTPStatus and Body are populated when the
// failure originated from an HTTP response; both are zero otherwise.
type Error struct {
	Category   Category
	Message    string
	HTTPStatus int
	Body       string
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.HTTPStatus != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.HTTPStatus)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns a categorized error wrapping cause. cause may be nil.
func New(category Category, message string, cause error) *Error {
	return &Error{Category: category, Message: message, Cause: cause}
}

// Newf is New with a formatted message and no cause.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// NewHTTP returns a categorized error carrying the HTTP status and response
// body that produced it.
func NewHTTP(category Category, message string, status int, body string, cause error) *Error {
	return &Error{Category: category, Message: message, HTTPStatus: status, Body: body, Cause: cause}
}

// Is reports whether err (or anything it wraps) carries the given category.
func Is(err error, category Category) bool {
	if err == nil {
		return false
	}
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Category == category
}

// CategoryForStatus maps an HTTP response status from a remote forge API to a
// category: credential rejections are Auth, server-side failures are
// TransientRemote, everything else is a rejected write.
func CategoryForStatus(status int) Category {
	switch {
	case status == 401 || status == 403:
		return Auth
	case status >= 500:
		return TransientRemote
	default:
		return Post
	}
}
