package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for explicit error handling
// These errors allow callers to distinguish between different failure modes
// using errors.Is() instead of string matching

var (
	// ErrTransport indicates the backend could not be reached
	ErrTransport = errors.New("backend unreachable")

	// ErrServerRejected indicates the backend answered with a non-success status
	ErrServerRejected = errors.New("backend rejected request")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDecode indicates the backend answered with an unexpected payload
	ErrDecode = errors.New("unexpected backend response")
)

// TransportError wraps a network-level failure talking to the backend
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) hold for every TransportError
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: backend returned status %d: %s", e.Op, e.URL, e.StatusCode, e.Message())
}

// Message returns the backend's error text, trimmed
func (e *StatusError) Message() string {
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		return http.StatusText(e.StatusCode)
	}
	return msg
}

// Is matches ErrServerRejected for every status, and ErrNotFound for 404s
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrServerRejected:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}
