package config

import (
	"os"
	"strconv"
)

// FromEnv overlays WPILOG_* environment variables onto cfg. Values that do
// not parse are ignored.
func FromEnv(cfg *Config) {
	if v := os.Getenv("WPILOG_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WPILOG_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("WPILOG_SORT_RUN_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SortRunSize = n
		}
	}
	if v := os.Getenv("WPILOG_TEMP_DIR"); v != "" {
		cfg.TempDir = v
	}
}
