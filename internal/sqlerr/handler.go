package sqlerr

import (
	"errors"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Details returns the Postgres error carried anywhere in err's chain, or nil
// when the failure did not come from the server.
func Details(err error) *Error {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr)
	}

	return nil
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// HandleError converts an error returned by the database client into an
// *errs.HTTPError.
//
// The database is trusted infrastructure, so its message reaches the client
// unchanged. The original error stays in the returned error's chain so
// Details can recover it for logging:
//   - already an *errs.HTTPError: returned as is
//   - pgx.ErrNoRows: 404 with notFoundMessage
//   - *pgconn.PgError: 400 with the server's message (without the
//     "ERROR: ... (SQLSTATE ...)" decoration)
//   - anything else from the client (connection refused, timeout): 400 with
//     err.Error()
func HandleError(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NewNotFoundError(notFoundMessage).WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		converted := ConvertPgError(pgErr)
		httpError := errs.NewBadRequestError(converted.Message).WithCause(converted)
		httpError.Code = errs.MakeUpperCaseWithUnderscores(string(converted.Code))
		return httpError
	}

	httpError := errs.NewBadRequestError(err.Error()).WithCause(err)
	httpError.Code = "DATABASE_ERROR"
	return httpError
}
