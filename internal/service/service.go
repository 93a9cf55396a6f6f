// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives validated
// input from the handler, applies the posts rules (trimming, pagination
// arithmetic), and calls the repository through the PostStore interface.
package service
