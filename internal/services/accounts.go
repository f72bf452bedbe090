package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/coinleague/internal/config"
	"github.com/dmitrijs2005/coinleague/internal/cryptox"
	"github.com/dmitrijs2005/coinleague/internal/dbx"
	"github.com/dmitrijs2005/coinleague/internal/logging"
	"github.com/dmitrijs2005/coinleague/internal/metrics"
	"github.com/dmitrijs2005/coinleague/internal/models"
	"github.com/dmitrijs2005/coinleague/internal/repositories/repomanager"
	lru "github.com/hashicorp/golang-lru/v2"
)

// EnsureStatus is the outcome of AccountService.Ensure.
type EnsureStatus int

const (
	StatusCreated EnsureStatus = iota + 1
	StatusExisted
	StatusRetryableFailure
	StatusPermanentFailure
)

func (s EnsureStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusExisted:
		return "existed"
	case StatusRetryableFailure:
		return "retryable_failure"
	case StatusPermanentFailure:
		return "permanent_failure"
	default:
		return "unknown"
	}
}

type EnsureResult struct {
	Status  EnsureStatus
	Account *models.Account
}

// Session remembers which addresses were already materialized for one
// caller (a wallet connection, a batch job) so repeated ensures skip the
// store. It is bounded and safe for concurrent use.
type Session struct {
	seen *lru.Cache[string, models.Account]
}

func NewSession(size int) (*Session, error) {
	c, err := lru.New[string, models.Account](size)
	if err != nil {
		return nil, err
	}
	return &Session{seen: c}, nil
}

func (s *Session) lookup(address string) (models.Account, bool) {
	if s == nil {
		return models.Account{}, false
	}
	return s.seen.Get(address)
}

func (s *Session) remember(acc *models.Account) {
	if s == nil || acc == nil {
		return
	}
	s.seen.Add(acc.Address, *acc)
}

// AccountService creates account records for verified wallet addresses.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storeCaller
	log         logging.Logger
	metrics     *metrics.Metrics
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger, mx *metrics.Metrics) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		store:       newStoreCaller(cfg, mx),
		log:         log.With("component", "accounts"),
		metrics:     mx,
	}
}

// Ensure makes sure an account exists for address. session may be nil.
// Failures are always reported: the status tells the caller whether trying
// again later can help.
func (s *AccountService) Ensure(ctx context.Context, session *Session, address string) (EnsureResult, error) {
	address, err := cryptox.NormalizeAddress(address)
	if err != nil {
		return s.finish(ctx, EnsureResult{Status: StatusPermanentFailure}, err)
	}

	if acc, ok := session.lookup(address); ok {
		return s.finish(ctx, EnsureResult{Status: StatusExisted, Account: &acc}, nil)
	}

	repo := s.repomanager.Accounts(s.db)

	var (
		acc     *models.Account
		created bool
	)
	err = s.store.call(ctx, func(ctx context.Context) error {
		var err error
		acc, created, err = repo.CreateOrGet(ctx, address)
		return err
	})
	if err != nil {
		status := StatusPermanentFailure
		if dbx.IsTransient(err) {
			status = StatusRetryableFailure
		}
		return s.finish(ctx, EnsureResult{Status: status}, err)
	}

	session.remember(acc)

	status := StatusExisted
	if created {
		status = StatusCreated
	}
	return s.finish(ctx, EnsureResult{Status: status, Account: acc}, nil)
}

func (s *AccountService) finish(ctx context.Context, res EnsureResult, err error) (EnsureResult, error) {
	s.metrics.AccountEnsured(res.Status.String())
	if err != nil {
		s.log.Warn(ctx, "ensure account failed", "status", res.Status, "error", err)
		return res, err
	}
	s.log.Debug(ctx, "account ensured", "status", res.Status, "address", res.Account.Address)
	return res, nil
}
