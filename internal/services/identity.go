package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/coinleague/internal/common"
	"github.com/dmitrijs2005/coinleague/internal/config"
	"github.com/dmitrijs2005/coinleague/internal/cryptox"
	"github.com/dmitrijs2005/coinleague/internal/dbx"
	"github.com/dmitrijs2005/coinleague/internal/logging"
	"github.com/dmitrijs2005/coinleague/internal/metrics"
	"github.com/dmitrijs2005/coinleague/internal/models"
	"github.com/dmitrijs2005/coinleague/internal/repositories/accounts"
	"github.com/dmitrijs2005/coinleague/internal/repositories/repomanager"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// IdentityService guards case-insensitive username uniqueness. The check
// is advisory; the unique index on LOWER(username) decides at commit.
type IdentityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storeCaller
	log         logging.Logger
}

func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger, mx *metrics.Metrics) *IdentityService {
	return &IdentityService{
		db:          db,
		repomanager: m,
		store:       newStoreCaller(cfg, mx),
		log:         log.With("component", "identity"),
	}
}

// IsUsernameTaken reports whether another account already uses candidate,
// ignoring case. Blank candidates and the caller's own current name are
// never taken. Store failures are logged and read as "not taken".
func (s *IdentityService) IsUsernameTaken(ctx context.Context, candidate, current string) bool {
	repo := s.repomanager.Accounts(s.db)

	var taken bool
	err := s.store.call(ctx, func(ctx context.Context) error {
		var err error
		taken, err = usernameTaken(ctx, repo, candidate, current)
		return err
	})
	if err != nil {
		s.log.Warn(ctx, "username check failed, assuming free", "username", candidate, "error", err)
		return false
	}
	return taken
}

func usernameTaken(ctx context.Context, repo accounts.Repository, candidate, current string) (bool, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false, nil
	}
	if strings.EqualFold(candidate, strings.TrimSpace(current)) {
		return false, nil
	}
	return repo.UsernameExists(ctx, candidate)
}

// ChangeUsername sets the username of the account at address. The
// pre-check and the update share one transaction; a concurrent writer
// that wins the name is still caught by the unique index at commit.
func (s *IdentityService) ChangeUsername(ctx context.Context, address, username string) (*models.Account, error) {
	address, err := cryptox.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidUsername, username)
	}

	var acc *models.Account
	err = s.store.call(ctx, func(ctx context.Context) error {
		return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.repomanager.Accounts(tx)

			current, err := repo.GetByAddress(ctx, address)
			if err != nil {
				return err
			}
			// A failed statement poisons a Postgres transaction, so the
			// whole transaction is retried instead of pressing on.
			taken, err := usernameTaken(ctx, repo, username, current.Username)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: %q", common.ErrUsernameTaken, username)
			}

			acc, err = repo.SetUsername(ctx, address, username)
			if errors.Is(err, common.ErrConflict) {
				return fmt.Errorf("%w: %q", common.ErrUsernameTaken, username)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "username changed", "address", address, "username", username)
	return acc, nil
}
