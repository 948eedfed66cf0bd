package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 1<<16, cfg.SortRunSize)
	assert.Empty(t, cfg.TempDir)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	file := filepath.Join(t.TempDir(), "wpilog.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"logLevel":"debug","sortRunSize":128}`), 0o644))

	cfg, err = Load(file)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 128, cfg.SortRunSize)
	assert.Equal(t, "console", cfg.LogFormat)

	require.NoError(t, os.WriteFile(file, []byte(`{"logLevel":`), 0o644))
	_, err = Load(file)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("WPILOG_LOG_LEVEL", "error")
	t.Setenv("WPILOG_LOG_FORMAT", "json")
	t.Setenv("WPILOG_SORT_RUN_SIZE", "4096")
	t.Setenv("WPILOG_TEMP_DIR", "/scratch")

	cfg := Default()
	FromEnv(&cfg)

	assert.Equal(t, Config{
		LogLevel:    "error",
		LogFormat:   "json",
		SortRunSize: 4096,
		TempDir:     "/scratch",
	}, cfg)
}

func TestFromEnvIgnoresBadValues(t *testing.T) {
	t.Setenv("WPILOG_SORT_RUN_SIZE", "lots")

	cfg := Default()
	FromEnv(&cfg)
	assert.Equal(t, Default().SortRunSize, cfg.SortRunSize)

	t.Setenv("WPILOG_SORT_RUN_SIZE", "-3")
	FromEnv(&cfg)
	assert.Equal(t, Default().SortRunSize, cfg.SortRunSize)
}
