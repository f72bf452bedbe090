package tokens

import (
	"context"

	"github.com/dmitrijs2005/coinleague/internal/models"
)

type Repository interface {
	Upsert(ctx context.Context, token *models.Token) (*models.Token, error)
	FindByAddress(ctx context.Context, chainID int64, address string) (*models.Token, error)
	ListByChain(ctx context.Context, chainID int64) ([]models.Token, error)
}
