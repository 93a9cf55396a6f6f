package sqlerr

import "strings"

// Code is a coarse category of a Postgres error, derived from its SQLSTATE.
type Code string

const (
	Other                  Code = "other"
	NotNullViolation       Code = "not_null_violation"
	ForeignKeyViolation    Code = "foreign_key_violation"
	UniqueViolation        Code = "unique_violation"
	CheckViolation         Code = "check_violation"
	StringDataTruncation   Code = "string_data_right_truncation"
	InvalidTextRepr        Code = "invalid_text_representation"
	NumericValueOutOfRange Code = "numeric_value_out_of_range"
	UndefinedTable         Code = "undefined_table"
	UndefinedColumn        Code = "undefined_column"
	InsufficientPrivilege  Code = "insufficient_privilege"
	ConnectionException    Code = "connection_exception"
	QueryCanceled          Code = "query_canceled"
	TooManyConnections     Code = "too_many_connections"
)

// Severity mirrors the Postgres severity field.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityUnknown Severity = "UNKNOWN"
)

// Error is a Postgres error reduced to the fields this service logs.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	TableName      string
	ColumnName     string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

var codes = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"22001": StringDataTruncation,
	"22P02": InvalidTextRepr,
	"22003": NumericValueOutOfRange,
	"42P01": UndefinedTable,
	"42703": UndefinedColumn,
	"42501": InsufficientPrivilege,
	"57014": QueryCanceled,
	"53300": TooManyConnections,
}

// MapCode maps a SQLSTATE to a Code. Any connection exception (class 08)
// maps to ConnectionException.
func MapCode(sqlState string) Code {
	if code, ok := codes[sqlState]; ok {
		return code
	}
	if strings.HasPrefix(sqlState, "08") {
		return ConnectionException
	}
	return Other
}

// MapSeverity normalizes the severity string reported by the server.
func MapSeverity(severity string) Severity {
	switch s := Severity(strings.ToUpper(severity)); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice:
		return s
	default:
		return SeverityUnknown
	}
}
