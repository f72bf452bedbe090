package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/coinleague/internal/catalog"
	"github.com/dmitrijs2005/coinleague/internal/config"
	"github.com/dmitrijs2005/coinleague/internal/logging"
	"github.com/dmitrijs2005/coinleague/internal/metrics"
	"github.com/dmitrijs2005/coinleague/internal/models"
	"github.com/dmitrijs2005/coinleague/internal/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

// Synchronizer reconciles one chain of the feed catalog into the token
// registry. Runs are idempotent: applying the same catalog twice leaves
// the registry unchanged, and a run after a partial failure converges.
type Synchronizer struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	catalog     *catalog.Catalog
	store       storeCaller
	concurrency int
	log         logging.Logger
	metrics     *metrics.Metrics
}

func NewSynchronizer(db *sql.DB, m repomanager.RepositoryManager, cat *catalog.Catalog, cfg *config.Config, log logging.Logger, mx *metrics.Metrics) *Synchronizer {
	concurrency := cfg.SyncConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Synchronizer{
		db:          db,
		repomanager: m,
		catalog:     cat,
		store:       newStoreCaller(cfg, mx),
		concurrency: concurrency,
		log:         log.With("component", "registry"),
		metrics:     mx,
	}
}

// Sync upserts every catalog entry of chainID, keyed by (chain, address),
// and returns how many entries were written. A chain with no catalog
// entries is a no-op. The first failing upsert aborts the run; entries
// already written stay written and the count reflects them.
func (s *Synchronizer) Sync(ctx context.Context, chainID int64) (int, error) {
	entries := s.catalog.ForChain(chainID)
	if len(entries) == 0 {
		s.log.Info(ctx, "no catalog entries for chain, nothing to sync", "chain_id", chainID)
		return 0, nil
	}

	started := time.Now()
	s.log.Info(ctx, "sync started", "chain_id", chainID, "entries", len(entries))

	repo := s.repomanager.Tokens(s.db)
	var written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, d := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			token := tokenFromDescriptor(d)

			err := s.store.call(gctx, func(ctx context.Context) error {
				_, err := repo.Upsert(ctx, token)
				return err
			})
			if err != nil {
				return fmt.Errorf("upsert %s on chain %d: %w", d.Address, chainID, err)
			}

			written.Add(1)
			s.metrics.TokenUpserted(chainID)
			s.log.Debug(gctx, "token upserted", "chain_id", chainID, "symbol", token.Symbol, "address", token.Address)
			return nil
		})
	}

	err := g.Wait()
	n := int(written.Load())
	s.metrics.SyncFinished(chainID, n, time.Since(started), err)

	if err != nil {
		s.log.Error(ctx, "sync failed", "chain_id", chainID, "written", n, "error", err)
		return n, err
	}

	s.log.Info(ctx, "sync finished", "chain_id", chainID, "tokens", n, "elapsed", time.Since(started))
	return n, nil
}

// The catalog is authoritative for the address text; it is stored as given.
func tokenFromDescriptor(d catalog.Descriptor) *models.Token {
	return &models.Token{
		ChainID:  d.ChainID,
		Address:  strings.TrimSpace(d.Address),
		Symbol:   strings.TrimSpace(d.Base),
		Name:     strings.TrimSpace(d.BaseName),
		Quote:    d.Quote,
		Logo:     d.Logo,
		TV:       d.TV,
		IsActive: true,
	}
}
