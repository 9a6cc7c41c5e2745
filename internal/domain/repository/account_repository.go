// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"horizons/internal/domain/entity"
)

var (
	// ErrAccountNotFound is returned when no account matches a lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountConflict is returned by Create when the username or email is already taken.
	// The store's unique constraints are the source of truth for this error.
	ErrAccountConflict = errors.New("account conflicts with an existing username or email")

	// ErrStoreUnavailable is returned on connectivity, timeout, or transaction failures.
	ErrStoreUnavailable = errors.New("account store unavailable")
)

// AccountRepository defines the persistence operations for accounts.
// Accounts are append-only: there is no update or delete.
type AccountRepository interface {
	// FindByUsernameOrEmail returns an account whose username or email matches.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.Account, error)

	// Create atomically inserts the draft, assigning ID and CreatedAt.
	Create(ctx context.Context, draft *entity.AccountDraft) (*entity.Account, error)

	// FindByID retrieves a single account by its ID.
	FindByID(ctx context.Context, id int64) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
}
