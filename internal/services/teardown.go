package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/coinleague/internal/config"
	"github.com/dmitrijs2005/coinleague/internal/logging"
	"github.com/dmitrijs2005/coinleague/internal/metrics"
	"github.com/dmitrijs2005/coinleague/internal/models"
	"github.com/dmitrijs2005/coinleague/internal/repositories/repomanager"
)

// TeardownStep deletes every record of one entity.
type TeardownStep struct {
	Entity models.Entity
}

// TeardownPlan returns the deletion pipeline for a full registry reset.
// Children come before the records they reference.
func TeardownPlan() []TeardownStep {
	return []TeardownStep{
		{Entity: models.EntityAffiliateEntry},
		{Entity: models.EntityGameResult},
		{Entity: models.EntityGameParticipantCoinFeed},
		{Entity: models.EntityGameParticipant},
		{Entity: models.EntityGameCoinFeed},
		{Entity: models.EntityGame},
		{Entity: models.EntityToken},
		{Entity: models.EntityAccount},
	}
}

// StepError reports which teardown step failed. Steps before it have
// already been applied.
type StepError struct {
	Index  int
	Entity models.Entity
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("teardown step %d (%s): %v", e.Index+1, e.Entity, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type Teardown struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storeCaller
	log         logging.Logger
	metrics     *metrics.Metrics
}

func NewTeardown(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger, mx *metrics.Metrics) *Teardown {
	return &Teardown{
		db:          db,
		repomanager: m,
		store:       newStoreCaller(cfg, mx),
		log:         log.With("component", "teardown"),
		metrics:     mx,
	}
}

// ResetAll deletes all registry data, dependents first.
func (t *Teardown) ResetAll(ctx context.Context) error {
	return t.Run(ctx, TeardownPlan())
}

// Run executes plan strictly in order and stops at the first failing
// step, returning a *StepError. Nothing is rolled back.
func (t *Teardown) Run(ctx context.Context, plan []TeardownStep) error {
	repo := t.repomanager.Purge(t.db)

	for i, step := range plan {
		var deleted int64
		err := t.store.call(ctx, func(ctx context.Context) error {
			n, err := repo.DeleteAll(ctx, step.Entity)
			deleted = n
			return err
		})
		if err != nil {
			t.metrics.TeardownStepFailed(step.Entity.String())
			t.log.Error(ctx, "teardown step failed", "step", i+1, "entity", step.Entity, "error", err)
			return &StepError{Index: i, Entity: step.Entity, Err: err}
		}

		t.metrics.RowsDeleted(step.Entity.String(), deleted)
		t.log.Info(ctx, "teardown step done", "step", i+1, "entity", step.Entity, "deleted", deleted)
	}
	return nil
}
