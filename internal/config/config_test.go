package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "./debt_management.db", cfg.SQLitePath)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "debt_ledger_", cfg.Redis.Prefix)
	assert.False(t, cfg.S3.Enabled)
	assert.Equal(t, 30, cfg.S3.URLTTLMinutes)
	assert.Equal(t, 30*time.Minute, cfg.ExportRetention)
	assert.Equal(t, "/files", cfg.FilesPublicPrefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("PG_PORT", "6543")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("S3_USE_SSL", "1")
	t.Setenv("EXPORT_RETENTION_MINUTES", "5")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.True(t, cfg.S3.UseSSL)
	assert.Equal(t, 5*time.Minute, cfg.ExportRetention)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"PG_PORT", "five", "PG_PORT"},
		{"REDIS_ENABLED", "sometimes", "REDIS_ENABLED"},
		{"DB_DRIVER", "mysql", "DB_DRIVER"},
		{"EXPORT_RETENTION_MINUTES", "0", "EXPORT_RETENTION_MINUTES"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	found, err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, found)

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LEDGER_TEST_VALUE=from-file\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("LEDGER_TEST_VALUE") })

	found, err = LoadDotEnv(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "from-file", os.Getenv("LEDGER_TEST_VALUE"))
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, LogConfig{Level: "warn", Format: "json"}))

	slog.Info("hidden")
	slog.Warn("shown", "metric", "totalDebtors")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"metric":"totalDebtors"`)

	assert.Error(t, SetupLogger(&buf, LogConfig{Level: "loud"}))
	assert.Error(t, SetupLogger(&buf, LogConfig{Format: "xml"}))
}
