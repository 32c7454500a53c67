package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "LOG_LEVEL", "LOG_DEV", "DATABASE_URL", "REDIS_ADDR", "REDIS_DB", "REDIS_QUEUE", "MAX_ROUNDS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDev)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "sniper_keeper_actions", cfg.RedisQueue)
	assert.Zero(t, cfg.MaxRounds)
}

func TestLoad_DotenvDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ADDR=:9999\nMAX_ROUNDS=5\n"), 0o600))

	t.Setenv("ADDR", ":7000")
	t.Setenv("MAX_ROUNDS", "")
	require.NoError(t, os.Unsetenv("MAX_ROUNDS"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 5, cfg.MaxRounds)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestParse_BadValue(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Parse()
	assert.Error(t, err)
}
