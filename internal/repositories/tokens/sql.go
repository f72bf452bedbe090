// Package tokens stores Token Registry Records keyed by (chain_id, address).
package tokens

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

// Upsert inserts the token or, when (chain_id, address) already exists,
// overwrites its descriptive fields and marks it active. The returned
// token carries the stored ID.
func (r *SQLRepository) Upsert(ctx context.Context, token *models.Token) (*models.Token, error) {
	query :=
		`INSERT INTO tokens (id, chain_id, address, symbol, name, quote, logo, tv, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		 ON CONFLICT (chain_id, address) DO UPDATE SET
		   symbol = EXCLUDED.symbol,
		   name = EXCLUDED.name,
		   quote = EXCLUDED.quote,
		   logo = EXCLUDED.logo,
		   tv = EXCLUDED.tv,
		   is_active = TRUE
		 RETURNING id
		 `

	out := *token
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), token.ChainID, token.Address, token.Symbol, token.Name,
		nullable(token.Quote), nullable(token.Logo), nullable(token.TV)).Scan(&out.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	out.IsActive = true
	return &out, nil
}

func (r *SQLRepository) FindByAddress(ctx context.Context, chainID int64, address string) (*models.Token, error) {
	query :=
		`SELECT id, chain_id, address, symbol, name, quote, logo, tv, is_active FROM tokens
		 WHERE chain_id = $1 AND address = $2
		 `

	t, err := scanToken(r.db.QueryRowContext(ctx, query, chainID, address))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return t, nil
}

func (r *SQLRepository) ListByChain(ctx context.Context, chainID int64) ([]models.Token, error) {
	query :=
		`SELECT id, chain_id, address, symbol, name, quote, logo, tv, is_active FROM tokens
		 WHERE chain_id = $1
		 ORDER BY symbol, address
		 `

	rows, err := r.db.QueryContext(ctx, query, chainID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	var result []models.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
		}
		result = append(result, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanToken(s scanner) (*models.Token, error) {
	var (
		t               models.Token
		quote, logo, tv sql.NullString
	)
	err := s.Scan(&t.ID, &t.ChainID, &t.Address, &t.Symbol, &t.Name, &quote, &logo, &tv, &t.IsActive)
	if err != nil {
		return nil, err
	}
	t.Quote, t.Logo, t.TV = quote.String, logo.String, tv.String
	return &t, nil
}

// nullable stores optional descriptor fields as NULL rather than "".
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
