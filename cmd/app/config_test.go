package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, driverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Audit.Interval)
	assert.True(t, cfg.Seed.Enabled)
	assert.True(t, cfg.Database.Migrate)
	assert.Len(t, cfg.Server.AllowedOrigins, 4)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := `
database:
  host: db.internal
  port: "6543"
  maxOpenConns: 7
server:
  port: "8080"
storage:
  driver: memory
audit:
  interval: 30s
logLevel: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_SEED_ENABLED", "false")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "6543", cfg.Database.Port)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, driverMemory, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.Audit.Interval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Seed.Enabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Unknown driver", content: "storage:\n  driver: mongo\n"},
		{name: "Zero audit interval", content: "audit:\n  enabled: true\n  interval: 0s\n"},
		{name: "Broken yaml", content: "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.content), 0o600))

			_, err := LoadConfig(dir)
			assert.Error(t, err)
		})
	}
}
