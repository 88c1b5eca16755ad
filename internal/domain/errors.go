package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when a search is submitted with an empty or
// whitespace-only query. It is caught before any network call and is never
// recorded in search history.
var ErrEmptyQuery = errors.New("search query must not be empty")

// ErrNoResult is returned by result-scoped actions when no result is loaded.
var ErrNoResult = errors.New("no result loaded")

// NotFoundError indicates a well-formed upstream response with zero matches.
// It is a soft outcome, recorded in history as found=false.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no record matched %q", e.Query)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// TransportError indicates a network failure, timeout or non-2xx upstream
// response. Message carries the server-supplied message when one was present.
type TransportError struct {
	StatusCode int    // 0 when the request never completed
	Message    string // server-supplied message, may be empty
	Err        error  // underlying error, may be nil
}

func (e *TransportError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	default:
		return fmt.Sprintf("upstream request failed with status %d", e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ActionError scopes a failure to a secondary action (webhook resend, export,
// share). It never invalidates the currently displayed result.
type ActionError struct {
	Action  string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Action, e.Message)
	}
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
