package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "horizons/internal/delivery/context"
	"horizons/internal/domain/entity"
	domainerrors "horizons/internal/domain/errors"
	"horizons/internal/domain/repository"
	"horizons/internal/domain/service"
	"horizons/internal/errors"
	"horizons/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// authenticationService implements the AuthenticationUsecase interface.
type authenticationService struct {
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	// decoyHash is verified against when the email is unknown, so that path costs
	// one bcrypt comparison like a wrong password does.
	decoyHash string
	logger    *slog.Logger
}

// AuthenticationServiceParams holds dependencies for AuthenticationService, injected by Fx.
type AuthenticationServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// NewAuthenticationService is the constructor for authenticationService.
// The decoy hash uses the configured hasher so its cost matches real accounts.
func NewAuthenticationService(params AuthenticationServiceParams) (usecase.AuthenticationUsecase, error) {
	decoyHash, err := params.Hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare decoy password hash")
	}

	return &authenticationService{
		txManager: params.TxManager,
		hasher:    params.Hasher,
		decoyHash: decoyHash,
		logger:    params.Logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authenticationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Authenticate returns the account whose email and password match. Unknown emails and
// wrong passwords both return ErrInvalidCredentials.
func (srv *authenticationService) Authenticate(ctx context.Context, input *usecase.LoginInput) (*usecase.AccountOutput, error) {
	if input == nil {
		return nil, srv.reject(ctx, "")
	}

	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, srv.reject(ctx, input.Password)
	}

	// No registered password is this long, and bcrypt would compare only its first 72 bytes.
	if len(input.Password) > service.MaxPasswordBytes {
		return nil, srv.reject(ctx, input.Password)
	}

	var account *entity.Account
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		account, err = repoFactory.AccountRepo().FindByEmail(ctx, email)

		return err
	})
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, srv.reject(ctx, input.Password)
	}
	if err != nil {
		return nil, storeFailure(err, "failed to look up account by email")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Debug("Login failed")

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	srv.log(ctx).Info("Login succeeded", slog.Int64("account_id", account.ID))

	return usecase.NewAccountOutput(account), nil
}

// reject fails a login that has no account to verify against. The decoy comparison
// keeps it as slow as a wrong password.
func (srv *authenticationService) reject(ctx context.Context, password string) error {
	srv.hasher.Check(password, srv.decoyHash)
	srv.log(ctx).Debug("Login failed")

	return errors.WithStack(domainerrors.ErrInvalidCredentials)
}
