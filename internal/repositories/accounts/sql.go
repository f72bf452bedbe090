// Package accounts stores Account Records. Addresses are expected in
// canonical lower-case form; usernames are unique ignoring case.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coinleague/internal/common"
	"github.com/dmitrijs2005/coinleague/internal/dbx"
	"github.com/dmitrijs2005/coinleague/internal/models"
	"github.com/google/uuid"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) CreateOrGet(ctx context.Context, address string) (*models.Account, bool, error) {
	query :=
		`INSERT INTO accounts (id, address)
		 VALUES ($1, $2)
		 ON CONFLICT (address) DO NOTHING
		 `

	id := uuid.NewString()
	res, err := r.db.ExecContext(ctx, query, id, address)
	if err != nil {
		return nil, false, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	if n == 1 {
		return &models.Account{ID: id, Address: address}, true, nil
	}

	acc, err := r.GetByAddress(ctx, address)
	if err != nil {
		return nil, false, err
	}
	return acc, false, nil
}

func (r *SQLRepository) GetByAddress(ctx context.Context, address string) (*models.Account, error) {
	query :=
		`SELECT id, address, username FROM accounts
		 WHERE address = $1
		 `

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, address))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return acc, nil
}

func (r *SQLRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE LOWER(username) = LOWER($1))`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return exists, nil
}

// SetUsername commits a username change. A clash with another account's
// username surfaces as common.ErrConflict from the unique index.
func (r *SQLRepository) SetUsername(ctx context.Context, address, username string) (*models.Account, error) {
	query :=
		`UPDATE accounts SET username = $1
		 WHERE address = $2
		 RETURNING id, address, username
		 `

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, username, address))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return acc, nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		acc      models.Account
		username sql.NullString
	)
	if err := row.Scan(&acc.ID, &acc.Address, &username); err != nil {
		return nil, err
	}
	acc.Username = username.String
	return &acc, nil
}
