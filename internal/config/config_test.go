package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CLIENT_ORIGIN", "")
	t.Setenv("REDIS_ADDR", "")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.ClientOrigin)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, "sessions", cfg.Redis.Channel)
	assert.Equal(t, 10*time.Second, cfg.Sandbox.WallTime)
	assert.Equal(t, int64(512), cfg.Sandbox.MemoryMB)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: \"9000\"\nredis:\n  addr: localhost:6379\nsandbox:\n  wall_time: 5s\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.Sandbox.WallTime)
	// untouched keys keep defaults
	assert.Equal(t, "*", cfg.Server.ClientOrigin)
	assert.Equal(t, "sessions", cfg.Redis.Channel)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4321")
	t.Setenv("REDIS_ADDR", "redis:6379")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9000\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "4321", cfg.Server.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
