package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/coinleague/internal/dbx"
	"github.com/dmitrijs2005/coinleague/internal/models"
	"github.com/dmitrijs2005/coinleague/internal/repositories/accounts"
	"github.com/dmitrijs2005/coinleague/internal/repositories/purge"
	"github.com/dmitrijs2005/coinleague/internal/repositories/tokens"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewRepositoryManager_Dialects(t *testing.T) {
	tests := []struct {
		driver  string
		dialect string
	}{
		{"pgx", "pgx"},
		{"postgres", "pgx"},
		{"sqlite", "sqlite3"},
	}
	for _, tt := range tests {
		m, err := NewRepositoryManager(tt.driver)
		require.NoError(t, err)
		assert.Equal(t, tt.dialect, m.(*SQLRepositoryManager).dialect)
	}

	_, err := NewRepositoryManager("mysql")
	assert.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &SQLRepositoryManager{dialect: "pgx"}

	var _ tokens.Repository = m.Tokens(db)
	var _ accounts.Repository = m.Accounts(db)
	var _ purge.Repository = m.Purge(db)

	assert.NotNil(t, m.Tokens(db))
	assert.NotNil(t, m.Accounts(db))
	assert.NotNil(t, m.Purge(db))
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &SQLRepositoryManager{dialect: "pgx"}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &SQLRepositoryManager{dialect: "pgx"}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestRunMigrations_BadDialect(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &SQLRepositoryManager{dialect: "nope"}
	assert.Error(t, m.RunMigrations(context.Background(), db))
}

// Runs the real schema against SQLite and exercises every repository.
func TestRunMigrations_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := dbx.Open(ctx, "sqlite", "file:"+filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	defer db.Close()

	m, err := NewRepositoryManager("sqlite")
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))
	// Up is idempotent.
	require.NoError(t, m.RunMigrations(ctx, db))

	tok, err := m.Tokens(db).Upsert(ctx, &models.Token{
		ChainID: 137,
		Address: "0x7ceb23fd6bc0add59e62ac25578270cff1b9f619",
		Symbol:  "ETH",
		Name:    "Ethereum",
		TV:      "BINANCE:ETHUSDT",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)

	acc, created, err := m.Accounts(db).CreateOrGet(ctx, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	assert.True(t, created)

	_, err = m.Accounts(db).SetUsername(ctx, acc.Address, "Alice")
	require.NoError(t, err)

	taken, err := m.Accounts(db).UsernameExists(ctx, "ALICE")
	require.NoError(t, err)
	assert.True(t, taken)

	n, err := m.Purge(db).DeleteAll(ctx, models.EntityToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
