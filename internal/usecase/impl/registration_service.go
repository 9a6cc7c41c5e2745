// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "horizons/internal/delivery/context"
	"horizons/internal/domain/entity"
	domainerrors "horizons/internal/domain/errors"
	"horizons/internal/domain/repository"
	"horizons/internal/domain/service"
	"horizons/internal/errors"
	"horizons/internal/usecase"

	"go.uber.org/fx"
)

// registrationService implements the RegistrationUsecase interface.
type registrationService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	logger      *slog.Logger
}

// RegistrationServiceParams holds dependencies for RegistrationService, injected by Fx.
type RegistrationServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Logger      *slog.Logger
}

// NewRegistrationService is the constructor for registrationService.
func NewRegistrationService(params RegistrationServiceParams) usecase.RegistrationUsecase {
	return &registrationService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *registrationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account after checking that neither the username nor the email is taken.
// A registration that loses a race to a concurrent one fails the same way as one caught by
// the pre-check, and no partial account is ever left behind.
func (srv *registrationService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AccountOutput, error) {
	reg, err := validateRegistration(input)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	srv.log(ctx).Debug("Starting registration", slog.String("username", reg.username))

	// The pre-check runs on the primary so a just-committed account is always seen.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		existing, err := repoFactory.AccountRepo().FindByUsernameOrEmail(ctx, reg.username, reg.email)
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		srv.log(ctx).Info("Registration rejected, account exists",
			slog.String("username", reg.username),
			slog.Int64("existing_account_id", existing.ID),
		)

		return domainerrors.ErrAccountAlreadyExists
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountAlreadyExists) {
			return nil, errors.WithStack(err)
		}

		return nil, storeFailure(err, "failed to check for existing account")
	}

	hash, err := srv.hasher.Hash(reg.password)
	if err != nil {
		return nil, errors.Wrapf(domainerrors.ErrPasswordHashFailed, "failed to hash password: %v", err)
	}

	account, err := srv.accountRepo.Create(ctx, &entity.AccountDraft{
		Username:     reg.username,
		Email:        reg.email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAccountConflict) {
			srv.log(ctx).Info("Registration lost race to a concurrent one", slog.String("username", reg.username))

			return nil, errors.WithStack(domainerrors.ErrAccountAlreadyExists)
		}

		return nil, storeFailure(err, "failed to create account")
	}

	srv.log(ctx).Info("Account registered", slog.Int64("account_id", account.ID))

	return usecase.NewAccountOutput(account), nil
}
