package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/coinleague/internal/dbx"
	"github.com/dmitrijs2005/coinleague/internal/repositories/accounts"
	"github.com/dmitrijs2005/coinleague/internal/repositories/purge"
	"github.com/dmitrijs2005/coinleague/internal/repositories/tokens"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Tokens(db dbx.DBTX) tokens.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	Purge(db dbx.DBTX) purge.Repository
}
