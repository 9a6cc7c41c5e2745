// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"horizons/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput defines the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// AccountOutput is the public view of an account. It has no credential field.
type AccountOutput struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
}

// NewAccountOutput maps a stored account to its public view.
func NewAccountOutput(account *entity.Account) *AccountOutput {
	if account == nil {
		return nil
	}

	return &AccountOutput{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}
}

// RegistrationUsecase creates accounts with unique usernames and emails.
type RegistrationUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*AccountOutput, error)
}

// AuthenticationUsecase verifies email and password credentials.
// Unknown emails and wrong passwords fail identically.
type AuthenticationUsecase interface {
	Authenticate(ctx context.Context, input *LoginInput) (*AccountOutput, error)
}

// AccountUsecase defines read access to accounts.
type AccountUsecase interface {
	GetByID(ctx context.Context, id int64) (*AccountOutput, error)
}
