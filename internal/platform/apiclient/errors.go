package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any 401 answer; the caller's session is no longer valid.
	ErrUnauthorized = errors.New("apiclient: unauthorized")
	// ErrTransport wraps failures to reach the remote API or read its answer.
	ErrTransport = errors.New("apiclient: transport failure")
	// ErrNoToken is returned by Login when the server accepted the request but sent no token.
	ErrNoToken = errors.New("apiclient: login response carried no token")
)

// Error is a non-2xx answer from the remote API.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("apiclient: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("apiclient: %s %s: status %d", e.Method, e.Path, e.Status)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 answers.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Message returns the text a user should see for err: the server's own message
// when it sent one, fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsTransport reports whether err is a connectivity failure rather than a server answer.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
