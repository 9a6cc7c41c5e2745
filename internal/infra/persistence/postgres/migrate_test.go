package postgres

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	"horizons/internal/errors"
	"horizons/internal/infra/persistence/migrations"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubGooseUp(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()

	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestRunMigrations_AppliesEmbeddedDir(t *testing.T) {
	var gotDir string
	stubGooseUp(t, func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir

		return nil
	})

	require.NoError(t, runMigrations(context.Background(), &sql.DB{}))
	assert.Equal(t, ".", gotDir)
}

func TestRunMigrations_WrapsFailure(t *testing.T) {
	cause := errors.New("relation already exists")
	stubGooseUp(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return cause
	})

	err := runMigrations(context.Background(), &sql.DB{})

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to apply migrations")
}

func TestMigrations_EmbedUsersTable(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(migrations.FS, "00001_create_users.sql")
	require.NoError(t, err)

	sqlText := string(body)
	assert.Contains(t, sqlText, "-- +goose Up")
	assert.Contains(t, sqlText, "-- +goose Down")
	assert.Contains(t, sqlText, "CREATE TABLE")
	assert.Contains(t, sqlText, "users_username_key")
	assert.Contains(t, sqlText, "users_email_key")
}
