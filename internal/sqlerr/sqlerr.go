// Package sqlerr handles database driver errors.
//
// It classifies pgx/pgconn errors (SQLSTATE codes, "no rows") and converts
// them into HTTP errors: missing rows become 404s and every other database
// failure becomes a 400 carrying the database's own message.
package sqlerr
