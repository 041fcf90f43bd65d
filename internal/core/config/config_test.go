package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://qc:qc@localhost:5432/qc")
	t.Setenv("OPTIMOROUTE_API_KEY", "key_default")
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	setRequired(t)

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "*", cfg.CORSAllowOrigins)
	assert.Equal(t, "https://api.optimoroute.com/v1", cfg.OptimoRoute.URL)
	assert.Equal(t, 30*time.Second, cfg.OptimoRoute.Timeout())
	assert.Equal(t, 500, cfg.OptimoRoute.CompletionBatch)
	assert.Equal(t, 200, cfg.BulkOrders.MaxPages)
	assert.Equal(t, 2*time.Hour, cfg.BulkOrders.SessionTTL())
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.True(t, cfg.Database.MigrateOnStart)
	assert.Empty(t, cfg.Kafka.BrokerList())
	assert.Equal(t, "work-orders", cfg.Kafka.WorkOrderTopic)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OPTIMOROUTE_URL", "https://optimo.test/v1")
	t.Setenv("BULK_PAGE_DELAY_MS", "250")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DB_MIGRATE_ON_START", "false")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "https://optimo.test/v1", cfg.OptimoRoute.URL)
	assert.Equal(t, "key_default", cfg.OptimoRoute.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.BulkOrders.PageDelay())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.BrokerList())
	assert.False(t, cfg.Database.MigrateOnStart)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")

	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
DATABASE_URL=postgres://staging
OPTIMOROUTE_API_KEY=key_staging
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "key_staging", cfg.OptimoRoute.APIKey)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("OPTIMOROUTE_API_KEY")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}

func TestLoad_InvalidCompletionBatch(t *testing.T) {
	setRequired(t)
	t.Setenv("OPTIMOROUTE_COMPLETION_BATCH", "0")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
}
