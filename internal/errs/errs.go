// Package errs defines the application's HTTP error type and its
// constructors.
//
// Handlers, services and middleware return *HTTPError once they know how a
// failure should look to the client. Anything else reaching the global error
// handler is treated as unexpected and answered with a generic 500.
package errs
