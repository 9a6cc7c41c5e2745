package impl

import (
	"context"
	"log/slog"

	deliverycontext "horizons/internal/delivery/context"
	domainerrors "horizons/internal/domain/errors"
	"horizons/internal/domain/repository"
	"horizons/internal/errors"
	"horizons/internal/usecase"

	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo: params.AccountRepo,
		logger:      params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetByID returns the account with the given ID. Reads may be served by a replica.
func (srv *accountService) GetByID(ctx context.Context, id int64) (*usecase.AccountOutput, error) {
	if id <= 0 {
		return nil, errors.WithStack(domainerrors.ErrAccountNotFound)
	}

	account, err := srv.accountRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.log(ctx).Debug("Account not found", slog.Int64("account_id", id))

		return nil, errors.WithStack(domainerrors.ErrAccountNotFound)
	}
	if err != nil {
		return nil, storeFailure(err, "failed to find account by id")
	}

	return usecase.NewAccountOutput(account), nil
}
