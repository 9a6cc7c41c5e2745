package postgres

import (
	"context"
	"testing"
	"time"

	"horizons/config"
	"horizons/internal/domain/entity"
	"horizons/internal/domain/repository"
	"horizons/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccountRepository(t *testing.T) repository.AccountRepository {
	t.Helper()

	return NewAccountRepository(testutil.NewSQLiteDB(t), nil)
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	repo := newTestAccountRepository(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	created, err := repo.Create(ctx, &entity.AccountDraft{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$04$hash",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Positive(t, created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, "$2a$04$hash", created.PasswordHash)
	assert.True(t, created.CreatedAt.After(before))
	assert.Equal(t, time.UTC, created.CreatedAt.Location())

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)
	assert.Equal(t, created.Username, byID.Username)
	assert.True(t, created.CreatedAt.Equal(byID.CreatedAt))

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "$2a$04$hash", byEmail.PasswordHash)
}

func TestAccountRepository_IDsAreDistinct(t *testing.T) {
	repo := newTestAccountRepository(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, &entity.AccountDraft{Username: "alice", Email: "alice@example.com", PasswordHash: "h1"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &entity.AccountDraft{Username: "bob", Email: "bob@example.com", PasswordHash: "h2"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Positive(t, second.ID)
}

func TestAccountRepository_Create_Conflict(t *testing.T) {
	tests := []struct {
		name  string
		draft entity.AccountDraft
	}{
		{
			name:  "duplicate username",
			draft: entity.AccountDraft{Username: "alice", Email: "other@example.com", PasswordHash: "h"},
		},
		{
			name:  "duplicate email",
			draft: entity.AccountDraft{Username: "other", Email: "alice@example.com", PasswordHash: "h"},
		},
		{
			name:  "duplicate both",
			draft: entity.AccountDraft{Username: "alice", Email: "alice@example.com", PasswordHash: "h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestAccountRepository(t)
			ctx := context.Background()

			_, err := repo.Create(ctx, &entity.AccountDraft{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
			require.NoError(t, err)

			draft := tt.draft
			account, err := repo.Create(ctx, &draft)

			require.ErrorIs(t, err, repository.ErrAccountConflict)
			assert.Nil(t, account)
		})
	}
}

func TestAccountRepository_Create_NilDraft(t *testing.T) {
	repo := newTestAccountRepository(t)

	account, err := repo.Create(context.Background(), nil)

	require.Error(t, err)
	assert.Nil(t, account)
}

func TestAccountRepository_FindByUsernameOrEmail(t *testing.T) {
	repo := newTestAccountRepository(t)
	ctx := context.Background()

	alice, err := repo.Create(ctx, &entity.AccountDraft{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	bob, err := repo.Create(ctx, &entity.AccountDraft{Username: "bob", Email: "bob@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		email    string
		wantID   int64
		wantErr  error
	}{
		{name: "username match", username: "alice", email: "nobody@example.com", wantID: alice.ID},
		{name: "email match", username: "nobody", email: "bob@example.com", wantID: bob.ID},
		{name: "both match different rows returns lowest id", username: "bob", email: "alice@example.com", wantID: alice.ID},
		{name: "no match", username: "carol", email: "carol@example.com", wantErr: repository.ErrAccountNotFound},
		{name: "email match is case sensitive", username: "carol", email: "ALICE@example.com", wantErr: repository.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account, err := repo.FindByUsernameOrEmail(ctx, tt.username, tt.email)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, account)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, account.ID)
		})
	}
}

func TestAccountRepository_NotFound(t *testing.T) {
	repo := newTestAccountRepository(t)
	ctx := context.Background()

	account, err := repo.FindByID(ctx, 42)
	require.ErrorIs(t, err, repository.ErrAccountNotFound)
	assert.Nil(t, account)

	account, err = repo.FindByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, repository.ErrAccountNotFound)
	assert.Nil(t, account)
}

func TestAccountRepository_ExpiredDeadlineIsStoreUnavailable(t *testing.T) {
	repo := newTestAccountRepository(t)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := repo.FindByID(ctx, 1)

	require.ErrorIs(t, err, repository.ErrStoreUnavailable)
}

func TestAccountRepository_CanceledContextIsNotStoreUnavailable(t *testing.T) {
	repo := newTestAccountRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindByID(ctx, 1)

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, repository.ErrStoreUnavailable)
}

func TestQueryTimeout(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want time.Duration
	}{
		{name: "nil config", cfg: nil, want: defaultQueryTimeout},
		{name: "no store section", cfg: &config.Config{}, want: defaultQueryTimeout},
		{name: "zero timeout", cfg: &config.Config{Store: &config.StoreConfig{}}, want: defaultQueryTimeout},
		{name: "configured", cfg: &config.Config{Store: &config.StoreConfig{QueryTimeout: 2 * time.Second}}, want: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queryTimeout(tt.cfg))
		})
	}
}
