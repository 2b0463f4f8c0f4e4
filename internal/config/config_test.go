package config

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
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 8, cfg.Sync.MaxConcurrency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Journal.Enabled)
	assert.Equal(t, "fitness_sync", cfg.Journal.Database)
	assert.Equal(t, "sync_journal", cfg.Journal.Collection)
	assert.True(t, cfg.Snapshots.UseSSL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
api:
  base_url: http://api.test:9000
  timeout: 2s
sync:
  max_concurrency: 3
snapshots:
  enabled: true
  bucket_name: snaps
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SYNC_MAX_CONCURRENCY", "5")

	cfg, err := LoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, "http://api.test:9000", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.Sync.MaxConcurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Snapshots.Enabled)
	assert.Equal(t, "snaps", cfg.Snapshots.BucketName)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api: [unclosed"), 0o600))

	_, err := LoadConfig(dir)

	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		return Config{
			API:  APIConfig{BaseURL: "http://x", Timeout: time.Second},
			Sync: SyncConfig{MaxConcurrency: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty base url", mutate: func(c *Config) { c.API.BaseURL = " " }, errMsg: "api.base_url"},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }, errMsg: "api.timeout"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Sync.MaxConcurrency = 0 }, errMsg: "max_concurrency"},
		{name: "journal without uri", mutate: func(c *Config) { c.Journal.Enabled = true }, errMsg: "journal.uri"},
		{name: "snapshots without bucket", mutate: func(c *Config) { c.Snapshots.Enabled = true }, errMsg: "bucket_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
