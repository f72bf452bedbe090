// Package purge deletes whole entity tables for registry teardown.
package purge

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/coinleague/internal/dbx"
	"github.com/dmitrijs2005/coinleague/internal/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) DeleteAll(ctx context.Context, entity models.Entity) (int64, error) {
	table, ok := entity.Table()
	if !ok {
		return 0, fmt.Errorf("unknown entity %q", entity)
	}

	// table comes from a fixed whitelist, never from input.
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return n, nil
}
