// Package services contains the registry business logic: catalog sync,
// teardown, username uniqueness and account materialization. Every store
// call goes through storeCaller so it is time-bounded and retried on
// transient failures.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/coinleague/internal/config"
	"github.com/dmitrijs2005/coinleague/internal/dbx"
	"github.com/dmitrijs2005/coinleague/internal/metrics"
)

type storeCaller struct {
	timeout time.Duration
	retries int
	metrics *metrics.Metrics
}

func newStoreCaller(cfg *config.Config, m *metrics.Metrics) storeCaller {
	return storeCaller{timeout: cfg.StoreTimeout, retries: cfg.StoreRetries, metrics: m}
}

func (c storeCaller) call(ctx context.Context, fn func(ctx context.Context) error) error {
	attempt := 0
	return dbx.Retry(ctx, c.retries, c.timeout, func(ctx context.Context) error {
		if attempt > 0 {
			c.metrics.StoreRetried()
		}
		attempt++
		return fn(ctx)
	})
}
