package purge

import (
	"context"

	"github.com/dmitrijs2005/coinleague/internal/models"
)

type Repository interface {
	// DeleteAll removes every row of the entity and returns how many went.
	DeleteAll(ctx context.Context, entity models.Entity) (int64, error)
}
