package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrInvalidDatabaseURL indicates the provided database URL could not be parsed.
var ErrInvalidDatabaseURL = errors.New("invalid database URL")

// ErrConnectionFailed indicates a connection to the database could not be established.
var ErrConnectionFailed = errors.New("database connection failed")

// SQLSTATE codes the engine cares about.
const (
	SQLStateUniqueViolation  = "23505"
	SQLStateNotNullViolation = "23502"
)

// SQLState extracts the PostgreSQL SQLSTATE code from a driver error.
// Returns ("", false) for non-server errors such as network failures.
func SQLState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	return pgErr.Code, true
}

// IsSQLState reports whether err carries the given SQLSTATE code.
func IsSQLState(err error, code string) bool {
	got, ok := SQLState(err)

	return ok && got == code
}

// ErrorDetail returns the full server-reported description of a driver
// error: severity, message, and the DETAIL and HINT lines when present.
// Non-server errors fall back to err.Error().
func ErrorDetail(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err.Error()
	}

	var b strings.Builder

	b.WriteString(pgErr.Severity)
	b.WriteString(": ")
	b.WriteString(pgErr.Message)

	if pgErr.Detail != "" {
		b.WriteString("\nDETAIL: ")
		b.WriteString(pgErr.Detail)
	}

	if pgErr.Hint != "" {
		b.WriteString("\nHINT: ")
		b.WriteString(pgErr.Hint)
	}

	return b.String()
}
