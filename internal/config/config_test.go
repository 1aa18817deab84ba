package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"laklight-scheduling/internal/config"
)

func resetFlags(t *testing.T) {
	t.Helper()
	old := pflag.CommandLine
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	t.Cleanup(func() {
		pflag.CommandLine = old
	})
}

func TestLoad_Defaults(t *testing.T) {
	resetFlags(t)

	t.Setenv("PORT", "")
	t.Setenv("POSTGRES_HOST", "")
	t.Setenv("POSTGRES_PORT", "")
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("POSTGRES_DB", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("SCHEDULING_OPERATION_TIMEOUT", "")
	t.Setenv("SCHEDULING_CONFLICT_RETRIES", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 8080, cfg.Port)

	require.Equal(t, "127.0.0.1", cfg.DB.Host)
	require.Equal(t, "5432", cfg.DB.Port)
	require.Equal(t, "scheduling", cfg.DB.Name)

	require.Empty(t, cfg.Kafka.Brokers)
	require.Equal(t, "supplier-applications", cfg.Kafka.Topic)

	require.Equal(t, 3*time.Second, cfg.Scheduling.OperationTimeout)
	require.Equal(t, 3, cfg.Scheduling.ConflictRetries)
	require.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetFlags(t)

	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "15432")
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")
	t.Setenv("POSTGRES_DB", "service")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SCHEDULING_OPERATION_TIMEOUT", "5s")
	t.Setenv("SCHEDULING_CONFLICT_RETRIES", "7")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("IDENTITY_BASE_URL", "http://sessions:8081")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "postgres://u:p@db:15432/service?sslmode=disable", cfg.DB.DSN())
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, 5*time.Second, cfg.Scheduling.OperationTimeout)
	require.Equal(t, 7, cfg.Scheduling.ConflictRetries)
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, "http://sessions:8081", cfg.Identity.BaseURL)
}

func TestLoad_InvalidPort(t *testing.T) {
	resetFlags(t)

	t.Setenv("PORT", "70000")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_InvalidRetries(t *testing.T) {
	resetFlags(t)

	t.Setenv("PORT", "")
	t.Setenv("SCHEDULING_CONFLICT_RETRIES", "0")

	_, err := config.Load()
	require.Error(t, err)
}
