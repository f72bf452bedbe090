package dbx

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/dmitrijs2005/coinleague/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL SQLSTATE codes the registry cares about.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgAdminShutdown        = "57P01"
	pgCannotConnectNow     = "57P03"
	pgTooManyConnections   = "53300"
)

// Classify translates a driver error into one of the common sentinels
// (ErrConflict, ErrForeignKeyViolation, ErrTransient) while keeping the
// original error in the chain. Errors it does not recognize are returned
// unchanged; nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if sentinel := sentinelFor(err); sentinel != nil && !errors.Is(err, sentinel) {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

// IsTransient reports whether err is worth retrying: timeouts, lost
// connections, lock contention. Constraint violations never are.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, common.ErrTransient) {
		return true
	}
	return sentinelFor(err) == common.ErrTransient
}

func sentinelFor(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return common.ErrTransient
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPostgres(pgErr.Code)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return classifySQLite(liteErr.Code(), liteErr.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return common.ErrTransient
	}

	return nil
}

func classifyPostgres(code string) error {
	switch code {
	case pgUniqueViolation:
		return common.ErrConflict
	case pgForeignKeyViolation:
		return common.ErrForeignKeyViolation
	case pgSerializationFailure, pgDeadlockDetected, pgAdminShutdown, pgCannotConnectNow, pgTooManyConnections:
		return common.ErrTransient
	}
	// Class 08: connection exception.
	if strings.HasPrefix(code, "08") {
		return common.ErrTransient
	}
	return nil
}

func classifySQLite(code int, msg string) error {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return common.ErrConflict
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return common.ErrForeignKeyViolation
	}

	switch code & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return common.ErrTransient
	case sqlite3.SQLITE_CONSTRAINT:
		// Extended codes may be disabled on the connection.
		switch {
		case strings.Contains(msg, "FOREIGN KEY"):
			return common.ErrForeignKeyViolation
		case strings.Contains(msg, "UNIQUE"):
			return common.ErrConflict
		}
	}
	return nil
}
