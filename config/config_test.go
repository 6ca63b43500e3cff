package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  dsn: \"sqlite:test.db\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Monitor.Interval)
	assert.Equal(t, 60, cfg.Monitor.HealthScoreThreshold)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.False(t, cfg.Push.Enabled())
}

func TestLoad_ReadsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 8081
  cache_ttl_seconds: 5
cache:
  backend: Redis
  redis_addr: "cache:6379"
monitor:
  interval_seconds: 15
  health_score_threshold: 75
push:
  vapid_public_key: pub
  vapid_private_key: priv
worker_pool:
  size: 3
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 15*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 75, cfg.Monitor.HealthScoreThreshold)
	assert.Equal(t, 3, cfg.WorkerPool.Size)
	assert.True(t, cfg.Push.Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
