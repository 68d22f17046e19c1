package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("WORKTIME_TX_MAX_ATTEMPTS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.WorkTime.TxMaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.WorkTime.TxBackoff)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("WORKTIME_TX_BACKOFF", "10ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local, http://b.local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Millisecond, cfg.WorkTime.TxBackoff)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "неизвестный драйвер", key: "STORAGE_DRIVER", val: "sqlite"},
		{name: "ноль попыток", key: "WORKTIME_TX_MAX_ATTEMPTS", val: "0"},
		{name: "доля сэмплирования вне диапазона", key: "OTEL_TRACES_SAMPLE_RATIO", val: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: "5432", Database: "st", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/st?sslmode=disable", c.DSN())
}
