package errs

import "strings"

// HTTPError is the error type every layer returns when it already knows the
// HTTP outcome of a request.
//
// The global error handler renders it into the response envelope:
// Status becomes the HTTP status and Message becomes the envelope's
// "error" string. Code is a machine-friendly label used in logs and traces.
type HTTPError struct {
	Code    string
	Message string
	Status  int

	// cause is the error the HTTP outcome was derived from. It is never
	// shown to the client but stays reachable through errors.As for logging.
	cause error
}

// Error returns the client-facing message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError, so
// errors.Is(err, &HTTPError{}) answers "is this already classified?".
// It deliberately ignores Code/Status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// Unwrap returns the underlying cause, if any.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// WithCause returns a copy of e that wraps cause.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: e.Message,
		Status:  e.Status,
		cause:   cause,
	}
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
