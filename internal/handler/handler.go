// Package handler is the first layer after the router.
//
// It binds requests, validates input with the validation package, calls the
// service layer and writes the response envelope. Every typed endpoint runs
// through Handle, which is also where panics and unexpected errors are turned
// into a logged 500.
package handler
