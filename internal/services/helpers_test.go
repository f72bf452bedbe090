package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/coinleague/internal/common"
	"github.com/dmitrijs2005/coinleague/internal/config"
	"github.com/dmitrijs2005/coinleague/internal/dbx"
	"github.com/dmitrijs2005/coinleague/internal/logging"
	"github.com/dmitrijs2005/coinleague/internal/models"
	"github.com/dmitrijs2005/coinleague/internal/repositories/accounts"
	"github.com/dmitrijs2005/coinleague/internal/repositories/purge"
	"github.com/dmitrijs2005/coinleague/internal/repositories/repomanager"
	"github.com/dmitrijs2005/coinleague/internal/repositories/tokens"
	"github.com/stretchr/testify/require"
)

var errLostConn = fmt.Errorf("%w: connection reset", common.ErrTransient)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreTimeout = 2 * time.Second
	cfg.StoreRetries = 2
	return cfg
}

var nopLog = logging.NewNopLogger()

// newSQLiteStore returns a migrated, file-backed SQLite database.
func newSQLiteStore(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	ctx := context.Background()

	db, err := dbx.Open(ctx, "sqlite", "file:"+filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := repomanager.NewRepositoryManager("sqlite")
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))
	return db, m
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// --- fakes ---

type fakeManager struct {
	tokens   *fakeTokens
	accounts *fakeAccounts
	purge    *fakePurge
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Tokens(dbx.DBTX) tokens.Repository            { return m.tokens }
func (m *fakeManager) Accounts(dbx.DBTX) accounts.Repository        { return m.accounts }
func (m *fakeManager) Purge(dbx.DBTX) purge.Repository              { return m.purge }

type fakeTokens struct {
	mu     sync.Mutex
	calls  int
	upsert func(call int, t *models.Token) error
}

func (f *fakeTokens) Upsert(ctx context.Context, t *models.Token) (*models.Token, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if f.upsert != nil {
		if err := f.upsert(n, t); err != nil {
			return nil, err
		}
	}
	out := *t
	out.ID = fmt.Sprintf("tok-%d", n)
	return &out, nil
}

func (f *fakeTokens) FindByAddress(context.Context, int64, string) (*models.Token, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeTokens) ListByChain(context.Context, int64) ([]models.Token, error) {
	return nil, nil
}

func (f *fakeTokens) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAccounts struct {
	mu          sync.Mutex
	createCalls int
	createOrGet func(call int, address string) (*models.Account, bool, error)
	getByAddr   func(address string) (*models.Account, error)
	exists      func(username string) (bool, error)
	setUsername func(address, username string) (*models.Account, error)
}

func (f *fakeAccounts) CreateOrGet(ctx context.Context, address string) (*models.Account, bool, error) {
	f.mu.Lock()
	f.createCalls++
	n := f.createCalls
	f.mu.Unlock()
	return f.createOrGet(n, address)
}

func (f *fakeAccounts) GetByAddress(ctx context.Context, address string) (*models.Account, error) {
	return f.getByAddr(address)
}

func (f *fakeAccounts) UsernameExists(ctx context.Context, username string) (bool, error) {
	return f.exists(username)
}

func (f *fakeAccounts) SetUsername(ctx context.Context, address, username string) (*models.Account, error) {
	return f.setUsername(address, username)
}

type fakePurge struct {
	deleted []models.Entity
	failOn  models.Entity
	err     error
}

func (f *fakePurge) DeleteAll(ctx context.Context, entity models.Entity) (int64, error) {
	if entity == f.failOn {
		return 0, f.err
	}
	f.deleted = append(f.deleted, entity)
	return 1, nil
}
