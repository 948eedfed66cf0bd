// Package config loads settings for the wpilog command: built-in defaults,
// an optional JSON file, then WPILOG_* environment variables. Command line
// flags are applied last by the command itself.
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	config.FromEnv(&cfg)
package config
