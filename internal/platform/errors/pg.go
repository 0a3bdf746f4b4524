package errors

// Postgres error classification for the read path

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the feed and tally stores care about
const (
	pgErrUniqueViolation           = "23505"
	pgErrInvalidTextRepresentation = "22P02"
	pgErrNumericOutOfRange         = "22003"
	pgErrUndefinedTable            = "42P01"
	pgErrUndefinedColumn           = "42703"

	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
	pgErrLockNotAvailable     = "55P03"
	pgErrQueryCanceled        = "57014"
	pgErrAdminShutdown        = "57P01"
	pgErrCannotConnectNow     = "57P03"
	pgErrTooManyConnections   = "53300"

	pgClassConnection = "08"
)

// ExtractPgError returns the PgError at the root of err
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsDuplicateKey reports a unique violation
func IsDuplicateKey(err error) bool { return IsSQLState(err, pgErrUniqueViolation) }

// DBErrorCode maps a Postgres error to an ErrorCode; ok is false for non-PgErrors
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}
	switch {
	case pgErr.Code == pgErrUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case pgErr.Code == pgErrInvalidTextRepresentation, pgErr.Code == pgErrNumericOutOfRange:
		return ErrorCodeInvalidArgument, true
	case pgErr.Code == pgErrCannotConnectNow, pgErr.Code == pgErrTooManyConnections,
		pgErr.Code == pgErrAdminShutdown, strings.HasPrefix(pgErr.Code, pgClassConnection):
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with its mapped code; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if ce := FromContext(err, msg); ce != nil {
		return ce
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is FromPostgres with a formatted message
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// IsRetryable reports whether a store error is transient
// Local cancellation and deadline expiry are never retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	root := Root(err)
	var pgErr *pgconn.PgError
	if stderrs.As(root, &pgErr) {
		switch {
		case pgErr.Code == pgErrSerializationFailure, pgErr.Code == pgErrDeadlockDetected,
			pgErr.Code == pgErrLockNotAvailable, pgErr.Code == pgErrCannotConnectNow,
			pgErr.Code == pgErrAdminShutdown, pgErr.Code == pgErrTooManyConnections,
			strings.HasPrefix(pgErr.Code, pgClassConnection):
			return true
		case pgErr.Code == pgErrQueryCanceled, pgErr.Code == pgErrUndefinedTable, pgErr.Code == pgErrUndefinedColumn:
			return false
		}
		return false
	}

	s := strings.ToLower(root.Error())
	for _, frag := range []string{
		"commit unexpectedly resulted in rollback",
		"could not serialize access",
		"deadlock detected",
		"terminating connection due to administrator command",
		"conn closed",
		"connection reset by peer",
		"broken pipe",
	} {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
