package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL)
	assert.Equal(t, 200, cfg.Cache.MaxSize)
	assert.Equal(t, 3*time.Second, cfg.Refresh.Guard)
	assert.Equal(t, "go-cache", cfg.Snapshot.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Snapshot.TTL)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotcache.yaml")
	content := "cache:\n  default_ttl: 90s\n  max_size: 10\nqueue:\n  failure_rate: 0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Cache.DefaultTTL)
	assert.Equal(t, 10, cfg.Cache.MaxSize)
	assert.Equal(t, 0.5, cfg.Queue.FailureRate)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("HOTCACHE_CACHE_MAX_SIZE", "7")
	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Cache.MaxSize)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Cache:  CacheConfig{DefaultTTL: 0, MaxSize: -1},
		Loader: LoaderConfig{RefreshFactor: 1.5},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_ttl")
	assert.Contains(t, err.Error(), "max_size")
	assert.Contains(t, err.Error(), "refresh_factor")
}

func TestValidateSnapshotBackend(t *testing.T) {
	t.Setenv("HOTCACHE_SNAPSHOT_BACKEND", "redis")
	_, err := Load(nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot.backend")

	t.Setenv("HOTCACHE_SNAPSHOT_BACKEND", "fastcache")
	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "fastcache", cfg.Snapshot.Backend)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
