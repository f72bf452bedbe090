// Package repomanager provides a concrete RepositoryManager for the SQL
// backends, wiring together repository constructors and database
// migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/coinleague/internal/dbx"
	"github.com/dmitrijs2005/coinleague/internal/migrations"
	"github.com/dmitrijs2005/coinleague/internal/repositories/accounts"
	"github.com/dmitrijs2005/coinleague/internal/repositories/purge"
	"github.com/dmitrijs2005/coinleague/internal/repositories/tokens"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends SQL-backed repository implementations and
// exposes a schema migration hook for its goose dialect.
type SQLRepositoryManager struct {
	dialect string
}

// Tokens returns a tokens.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	return tokens.NewSQLRepository(db)
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLRepository(db)
}

// Purge returns a purge.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Purge(db dbx.DBTX) purge.Repository {
	return purge.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewRepositoryManager constructs a RepositoryManager for the configured
// database driver ("pgx"/"postgres" or "sqlite").
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	name, err := dbx.DriverName(driver)
	if err != nil {
		return nil, err
	}

	switch name {
	case "pgx":
		return &SQLRepositoryManager{dialect: "pgx"}, nil
	case "sqlite":
		return &SQLRepositoryManager{dialect: "sqlite3"}, nil
	default:
		return nil, fmt.Errorf("no migrations dialect for driver %q", driver)
	}
}
