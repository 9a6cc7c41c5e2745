// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"horizons/config"
	"horizons/internal/domain/entity"
	"horizons/internal/domain/repository"
	"horizons/internal/errors"
	"horizons/internal/infra/persistence/model"
	"horizons/internal/infra/persistence/postgres/query"

	"gorm.io/gorm"
)

const defaultQueryTimeout = 5 * time.Second

// accountRepository implements the repository.AccountRepository interface using GORM.
type accountRepository struct {
	q       *query.Query
	timeout time.Duration
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB, cfg *config.Config) repository.AccountRepository {
	return newAccountRepository(db, queryTimeout(cfg))
}

func newAccountRepository(db *gorm.DB, timeout time.Duration) *accountRepository {
	return &accountRepository{
		q:       query.Use(db),
		timeout: timeout,
	}
}

func queryTimeout(cfg *config.Config) time.Duration {
	if cfg != nil && cfg.Store != nil && cfg.Store.QueryTimeout > 0 {
		return cfg.Store.QueryTimeout
	}

	return defaultQueryTimeout
}

// withTimeout bounds every statement so a hung connection surfaces as ErrStoreUnavailable.
func (repo *accountRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if repo.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, repo.timeout)
}

// FindByUsernameOrEmail retrieves the first account whose username or email matches.
func (repo *accountRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.Account, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	a := repo.q.AccountModel
	accountM, err := a.WithContext(ctx).
		Where(a.Username.Eq(username)).
		Or(a.Email.Eq(email)).
		Order(a.ID).
		First()
	if err != nil {
		return nil, translateReadError(err, "failed to find account by username or email")
	}

	return toAccountDomain(accountM), nil
}

// Create inserts a new account in a single statement. The row either exists
// completely after the call or not at all.
func (repo *accountRepository) Create(ctx context.Context, draft *entity.AccountDraft) (*entity.Account, error) {
	if draft == nil {
		return nil, errors.New("account draft is nil")
	}

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	accountM := fromAccountDraft(draft)
	// Microsecond precision matches PostgreSQL TIMESTAMPTZ, so the returned
	// value equals what later reads observe.
	accountM.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := repo.q.AccountModel.WithContext(ctx).Create(accountM); err != nil {
		if isUniqueConstraintViolation(err) {
			return nil, errors.Wrap(repository.ErrAccountConflict, "failed to create account")
		}

		return nil, translateStoreError(err, "failed to create account")
	}

	return toAccountDomain(accountM), nil
}

// FindByID retrieves a single account by its ID.
func (repo *accountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	accountM, err := repo.q.AccountModel.WithContext(ctx).
		Where(repo.q.AccountModel.ID.Eq(id)).
		First()
	if err != nil {
		return nil, translateReadError(err, "failed to find account by id")
	}

	return toAccountDomain(accountM), nil
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	accountM, err := repo.q.AccountModel.WithContext(ctx).
		Where(repo.q.AccountModel.Email.Eq(email)).
		First()
	if err != nil {
		return nil, translateReadError(err, "failed to find account by email")
	}

	return toAccountDomain(accountM), nil
}

// --- Mapper Functions ---

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt.UTC(),
	}
}

// fromAccountDraft converts a domain AccountDraft to a GORM AccountModel for insertion.
func fromAccountDraft(data *entity.AccountDraft) *model.AccountModel {
	return &model.AccountModel{
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
	}
}
