package validation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to
// validate (and normalize) themselves after binding.
//
// Validate returns Errors for input problems, an *errs.HTTPError when it
// needs a specific status, or nil.
type Validatable interface {
	Validate() error
}

// Errors is a list of validation messages. Its Error() joins them with ", ",
// which is also the message the client receives.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, ", ")
}

// BindAndValidate binds path, query and body into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the request struct. A malformed body becomes a
//     400 carrying echo's description of the problem.
//  2. payload.Validate() applies the request's rules.
//  3. Failures are returned as *errs.HTTPError (400).
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	return nil
}

// bindError keeps echo's non-400 bind failures (415 Unsupported Media Type,
// 413 from the body limit) untouched and turns every 400 into an HTTPError
// with a readable message.
func bindError(err error) error {
	var echoErr *echo.HTTPError
	if !errors.As(err, &echoErr) {
		return errs.NewBadRequestError("Invalid request body")
	}

	if echoErr.Code != http.StatusBadRequest {
		return err
	}

	message, ok := echoErr.Message.(string)
	if !ok || message == "" {
		message = "Invalid request body"
	}

	return errs.NewBadRequestError(message)
}

func validationError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var messages Errors
	if errors.As(err, &messages) {
		return errs.ValidationError(messages)
	}

	return errs.NewBadRequestError(err.Error())
}
