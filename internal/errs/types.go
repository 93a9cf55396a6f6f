package errs

import (
	"fmt"
	"net/http"
	"strings"
)

// Client-facing messages with a fixed wording.
const (
	MessageInternalServerError = "Internal server error"
	MessageTooManyRequests     = "Too many requests, please try again later"
)

func newHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
func NewBadRequestError(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message)
}

// NewRouteNotFoundError is the 404 returned when no route matches.
func NewRouteNotFoundError(method, path string) *HTTPError {
	err := newHTTPError(http.StatusNotFound, fmt.Sprintf("Route %s %s not found", method, path))
	err.Code = "ROUTE_NOT_FOUND"
	return err
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string) *HTTPError {
	return newHTTPError(http.StatusForbidden, message)
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError() *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, MessageTooManyRequests)
}

// NewInternalServerError creates a 500 HTTPError.
//
// The message is always the generic one: the real cause is logged server-side
// and never sent to the client.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, MessageInternalServerError)
}

// ValidationError converts a list of validation messages into a single 400
// whose message joins them with ", ".
func ValidationError(messages []string) *HTTPError {
	err := newHTTPError(http.StatusBadRequest, strings.Join(messages, ", "))
	err.Code = "VALIDATION_FAILED"
	return err
}
