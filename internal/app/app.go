// Package app wires configuration, the feed catalog, the store and the
// services together for the registryctl maintenance commands.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coinleague/internal/catalog"
	"github.com/dmitrijs2005/coinleague/internal/common"
	"github.com/dmitrijs2005/coinleague/internal/config"
	"github.com/dmitrijs2005/coinleague/internal/dbx"
	"github.com/dmitrijs2005/coinleague/internal/logging"
	"github.com/dmitrijs2005/coinleague/internal/metrics"
	"github.com/dmitrijs2005/coinleague/internal/models"
	"github.com/dmitrijs2005/coinleague/internal/repositories/repomanager"
	"github.com/dmitrijs2005/coinleague/internal/resolver"
	"github.com/dmitrijs2005/coinleague/internal/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	metrics  *metrics.Metrics

	// Opened on first use; catalog-only commands never touch the store.
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	cat, err := catalog.Load(ctx, cfg.CatalogSource, catalog.S3Options{
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		AccessKey:    cfg.S3RootUser,
		SecretKey:    cfg.S3RootPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog init error: %w", err)
	}

	return &App{
		config:   cfg,
		logger:   logger,
		catalog:  cat,
		resolver: resolver.New(cat),
		metrics:  metrics.New(),
	}, nil
}

func (a *App) store(ctx context.Context) (*sql.DB, repomanager.RepositoryManager, error) {
	if a.db != nil {
		return a.db, a.repomanager, nil
	}

	m, err := repomanager.NewRepositoryManager(a.config.DatabaseDriver)
	if err != nil {
		return nil, nil, err
	}

	db, err := dbx.Open(ctx, a.config.DatabaseDriver, a.config.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	a.db, a.repomanager = db, m
	return db, m, nil
}

func (a *App) Migrate(ctx context.Context) error {
	db, m, err := a.store(ctx)
	if err != nil {
		return err
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	a.logger.Info(ctx, "migrations applied", "driver", a.config.DatabaseDriver)
	return nil
}

func (a *App) Sync(ctx context.Context, chainID int64) (int, error) {
	if chainID <= 0 {
		return 0, fmt.Errorf("%w: %d", common.ErrInvalidChain, chainID)
	}
	db, m, err := a.store(ctx)
	if err != nil {
		return 0, err
	}
	return services.NewSynchronizer(db, m, a.catalog, a.config, a.logger, a.metrics).Sync(ctx, chainID)
}

func (a *App) Reset(ctx context.Context) error {
	db, m, err := a.store(ctx)
	if err != nil {
		return err
	}
	return services.NewTeardown(db, m, a.config, a.logger, a.metrics).ResetAll(ctx)
}

// EnsureAccounts materializes accounts for a batch of addresses, sharing
// one session so repeated addresses hit the store once.
func (a *App) EnsureAccounts(ctx context.Context, addresses []string) ([]services.EnsureResult, []error, error) {
	db, m, err := a.store(ctx)
	if err != nil {
		return nil, nil, err
	}

	session, err := services.NewSession(a.config.SessionCacheSize)
	if err != nil {
		return nil, nil, err
	}

	svc := services.NewAccountService(db, m, a.config, a.logger, a.metrics)
	results := make([]services.EnsureResult, len(addresses))
	errs := make([]error, len(addresses))
	for i, addr := range addresses {
		results[i], errs[i] = svc.Ensure(ctx, session, addr)
	}
	return results, errs, nil
}

func (a *App) ChangeUsername(ctx context.Context, address, username string) (*models.Account, error) {
	db, m, err := a.store(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewIdentityService(db, m, a.config, a.logger, a.metrics).ChangeUsername(ctx, address, username)
}

func (a *App) Resolve(symbol string, chainID int64) (catalog.Descriptor, bool) {
	return a.resolver.Lookup(symbol, chainID)
}

func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Close writes the metrics textfile, if configured, and closes the store.
func (a *App) Close() error {
	var errs []error
	if err := a.metrics.WriteTextfile(a.config.MetricsFile); err != nil {
		errs = append(errs, fmt.Errorf("write metrics: %w", err))
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
