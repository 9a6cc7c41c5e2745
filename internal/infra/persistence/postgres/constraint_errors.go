package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"
	"strings"

	"horizons/internal/domain/repository"
	"horizons/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE values and classes inspected by the repositories.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateClassConnection      = "08"
	sqlStateClassResources       = "53"
	sqlStateClassOperatorAbort   = "57P"
	sqlStateQueryCanceled        = "57014"
	sqlStateSerializationFailure = "40001"
)

// isUniqueConstraintViolation covers both the raw pgx error and GORM's translated sentinel
// (dialects with TranslateError enabled return gorm.ErrDuplicatedKey).
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateUniqueViolation
	}

	return false
}

// isStoreUnavailable reports failures of the store itself rather than of the statement:
// lost or refused connections, timeouts, and server-side aborts. A canceled caller
// context is never one of them, even when pgconn reports it as a timeout.
func isStoreUnavailable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, sql.ErrTxDone) {
		return true
	}

	if pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, sqlStateClassConnection) ||
			strings.HasPrefix(pgErr.Code, sqlStateClassResources) ||
			strings.HasPrefix(pgErr.Code, sqlStateClassOperatorAbort) ||
			pgErr.Code == sqlStateQueryCanceled ||
			pgErr.Code == sqlStateSerializationFailure
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}

// translateReadError maps a failed lookup onto the repository's sentinel errors.
func translateReadError(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrAccountNotFound
	}

	return translateStoreError(err, message)
}

// translateStoreError keeps the original cause in the message while making the
// sentinel reachable through errors.Is.
func translateStoreError(err error, message string) error {
	if isStoreUnavailable(err) {
		return errors.Wrapf(repository.ErrStoreUnavailable, "%s: %v", message, err)
	}

	return errors.Wrap(err, message)
}
