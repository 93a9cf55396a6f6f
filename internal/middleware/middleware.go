// Package middleware stores the global middleware and the error handler.
//
// These intercept requests to handle cross-cutting concerns such as request
// ids, request logging, CORS, rate limiting, New Relic tracing and panic
// recovery.
package middleware
