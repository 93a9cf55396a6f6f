// Package repository handles all interactions with the database.
//
// It contains the raw SQL for the posts table and the methods that run it,
// keeping SQL out of the service layer.
package repository
