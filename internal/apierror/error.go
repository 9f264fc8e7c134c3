// Package apierror carries the error contract of the HTTP edge: handlers and
// middleware raise errors, and a single Responder turns them into
// {"success": false, "message": ...} JSON bodies.
package apierror

import (
	"errors"
	"net/http"
)

const (
	// FallbackStatus is used for every error that is not an *Error.
	FallbackStatus = http.StatusNotFound
	// FallbackMessage is used for every error that is not an *Error.
	FallbackMessage = "Something Went Wrong"
)

var (
	// ErrRouteNotFound is raised when no stage or route produced a response.
	ErrRouteNotFound = errors.New("route not found")
	// ErrMethodNotAllowed is raised when a route matched the path but not the method.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Error is a recognized API error: its status code and message are sent to the
// client as-is.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a recognized API error.
func New(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

// BadRequest creates a 400 API error.
func BadRequest(message string) *Error { return New(http.StatusBadRequest, message) }

// Unauthorized creates a 401 API error.
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }

// Forbidden creates a 403 API error.
func Forbidden(message string) *Error { return New(http.StatusForbidden, message) }

// NotFound creates a 404 API error.
func NotFound(message string) *Error { return New(http.StatusNotFound, message) }

// TooManyRequests creates a 429 API error.
func TooManyRequests(message string) *Error { return New(http.StatusTooManyRequests, message) }

// Kind discriminates resolved errors.
type Kind int

const (
	// KindOpaque is any error that is not a usable *Error.
	KindOpaque Kind = iota
	// KindAPI is a recognized *Error, possibly wrapped.
	KindAPI
)

func (k Kind) String() string {
	if k == KindAPI {
		return "api"
	}
	return "opaque"
}

// Resolution is the outcome of classifying an error: what the client sees.
type Resolution struct {
	Kind       Kind
	StatusCode int
	Message    string
}

// Resolve classifies err. Wrapped *Error values are recognized. An *Error whose
// status code is outside 200-599 cannot be written and resolves as opaque.
func Resolve(err error) Resolution {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr != nil && validStatus(apiErr.StatusCode) {
		return Resolution{Kind: KindAPI, StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	return Resolution{Kind: KindOpaque, StatusCode: FallbackStatus, Message: FallbackMessage}
}

func validStatus(code int) bool {
	return code >= 200 && code <= 599
}
