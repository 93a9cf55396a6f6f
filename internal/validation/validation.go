// Package validation contains the logic for validating request data.
//
// It holds the post rules (identifier, pagination, title/body, sanitizing)
// as plain functions, and the echo glue that binds a request into a
// Validatable payload and turns failures into 400 responses.
package validation
