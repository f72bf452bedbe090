package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/coinleague/internal/common"
	"github.com/dmitrijs2005/coinleague/internal/config"
	"github.com/dmitrijs2005/coinleague/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDriver = "sqlite"
	cfg.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "registry.db")
	cfg.StoreRetries = 0
	return cfg
}

func TestNewApp_BadCatalog(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.CatalogSource = filepath.Join(t.TempDir(), "missing.json")

	_, err := NewApp(context.Background(), cfg, logging.NewNopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog init error")
}

func TestApp_Lifecycle(t *testing.T) {
	ctx := context.Background()
	a, err := NewApp(ctx, newTestConfig(t), logging.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, a.Migrate(ctx))

	n, err := a.Sync(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = a.Sync(ctx, -5)
	assert.True(t, errors.Is(err, common.ErrInvalidChain))

	d, ok := a.Resolve("LINK", 1)
	require.True(t, ok)
	assert.Equal(t, "BINANCE:LINKUSDT", d.TV)

	require.NoError(t, a.Reset(ctx))
	require.NoError(t, a.Close())
}

func TestApp_CloseWithoutStore(t *testing.T) {
	a, err := NewApp(context.Background(), newTestConfig(t), logging.NewNopLogger())
	require.NoError(t, err)
	assert.NoError(t, a.Close())
	assert.Nil(t, a.db)
}

func TestApp_StoreOpenError(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")

	a, err := NewApp(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)

	_, err = a.Sync(context.Background(), 137)
	assert.Error(t, err)
}
