package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStaleVersion is returned by a status transition whose compare-and-swap matched no row:
// the request changed after it was read.
var ErrStaleVersion = errors.New("stale version: request changed since it was read")

// Postgres SQLSTATEs that signal lock contention rather than a broken statement.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
)

// IsTransient reports whether err is storage contention that is safe to retry.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
		return true
	}
	return false
}
