package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the settings of the wpilog command.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"logLevel"`
	// LogFormat is console or json.
	LogFormat string `json:"logFormat"`
	// SortRunSize is the number of frames sorted in memory per run when
	// replaying a log in timestamp order.
	SortRunSize int `json:"sortRunSize"`
	// TempDir receives spilled sort runs. Empty means the system default.
	TempDir string `json:"tempDir"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		LogLevel:    "warn",
		LogFormat:   "console",
		SortRunSize: 1 << 16,
	}
}

// Load reads a JSON configuration file over the defaults. If path is empty,
// returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
