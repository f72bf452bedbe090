package accounts

import (
	"context"

	"github.com/dmitrijs2005/coinleague/internal/models"
)

type Repository interface {
	// CreateOrGet returns the account for address, creating it when absent.
	// created reports whether this call inserted the row.
	CreateOrGet(ctx context.Context, address string) (account *models.Account, created bool, err error)
	GetByAddress(ctx context.Context, address string) (*models.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	SetUsername(ctx context.Context, address, username string) (*models.Account, error)
}
