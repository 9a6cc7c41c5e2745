package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/slighter12/go-lib/database/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testYAML = `
env:
  env: test
  serviceName: horizons-test
  log:
    level: debug
http:
  port: 9090
  timeouts:
    readTimeout: 3s
postgres:
  master:
    host: db.internal
    port: "5432"
store:
  queryTimeout: 2s
  autoMigrate: false
auth:
  bcryptCost: 12
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))

	return dir
}

func TestLoadWithEnv_AbsolutePath(t *testing.T) {
	dir := writeConfig(t, testYAML)

	cfg, err := LoadWithEnv[Config]("config", dir)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env.Env)
	assert.Equal(t, "horizons-test", cfg.Env.ServiceName)
	assert.Equal(t, "debug", cfg.Env.Log.Level)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeouts.ReadTimeout)
	require.NotNil(t, cfg.Postgres)
	require.NotNil(t, cfg.Store)
	assert.Equal(t, 2*time.Second, cfg.Store.QueryTimeout)
	assert.False(t, cfg.Store.ShouldAutoMigrate())
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadWithEnv_EnvironmentOverrides(t *testing.T) {
	dir := writeConfig(t, testYAML)
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("STORE_QUERYTIMEOUT", "750ms")
	t.Setenv("HTTP_CORS_ALLOWORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadWithEnv[Config]("config", dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Store.QueryTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORS.AllowOrigins)
}

func TestLoadWithEnv_ExplicitPathWinsOverWorkingDirectory(t *testing.T) {
	t.Chdir(writeConfig(t, "env:\n  env: local\nhttp:\n  port: 8080\n"))
	dir := writeConfig(t, testYAML)

	cfg, err := LoadWithEnv[Config]("config", dir)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env.Env)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoadWithEnv_FallsBackToWorkingDirectory(t *testing.T) {
	t.Chdir(writeConfig(t, testYAML))

	cfg, err := LoadWithEnv[Config]("config", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env.Env)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("config", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Postgres: &postgres.DBConn{}}

	applyDefaults(cfg)

	assert.Equal(t, defaultServiceName, cfg.Env.ServiceName)
	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORS.AllowOrigins)
	require.NotNil(t, cfg.Store)
	assert.Equal(t, defaultQueryTimeout, cfg.Store.QueryTimeout)
	assert.True(t, cfg.Store.ShouldAutoMigrate())
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
}

func TestApplyDefaults_KeepsConfiguredValues(t *testing.T) {
	migrate := false
	cfg := &Config{
		HTTP: HTTPConfig{
			Port:               9000,
			MaxRequestBodySize: "1MB",
			CORS:               CORSConfig{AllowOrigins: []string{"https://app.example"}},
		},
		Store: &StoreConfig{QueryTimeout: time.Second, AutoMigrate: &migrate},
		Auth:  &AuthConfig{BcryptCost: 11},
	}

	applyDefaults(cfg)

	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "1MB", cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, []string{"https://app.example"}, cfg.HTTP.CORS.AllowOrigins)
	assert.Equal(t, time.Second, cfg.Store.QueryTimeout)
	assert.False(t, cfg.Store.ShouldAutoMigrate())
	assert.Equal(t, 11, cfg.Auth.BcryptCost)
}

func TestBuildReplicasFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_REPLICAS_0_HOST", "replica-a")
	t.Setenv("POSTGRES_REPLICAS_0_PORT", "5432")
	t.Setenv("POSTGRES_REPLICAS_0_USERNAME", "reader")
	t.Setenv("POSTGRES_REPLICAS_1_HOST", "replica-b")
	t.Setenv("POSTGRES_REPLICAS_1_PORT", "5433")

	replicas := buildReplicasFromEnv()

	require.Len(t, replicas, 2)
	assert.Equal(t, "replica-a", replicas[0].Host)
	assert.Equal(t, "reader", replicas[0].UserName)
	assert.Equal(t, "5433", replicas[1].Port)
}
