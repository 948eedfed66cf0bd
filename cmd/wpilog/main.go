package main

import (
	"fmt"
	"io"
	"os"

	"github.com/PotentialStyx/wpilog/datalog"
	"github.com/PotentialStyx/wpilog/internal/config"
	"github.com/PotentialStyx/wpilog/monitoring"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags have been parsed.
type app struct {
	cfg    config.Config
	logger monitoring.Logger

	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	a := &app{logger: monitoring.Nop()}

	rootCmd := &cobra.Command{
		Use:           "wpilog",
		Short:         "Write and inspect WPILOG files",
		Long:          "wpilog writes sample WPILOG telemetry logs and prints the records, entries and frame counts of existing ones.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("WPILOG_CONFIG"), "JSON config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: console|json")

	rootCmd.AddCommand(
		a.generateCmd(),
		a.dumpCmd(),
		a.entriesCmd(),
		a.countCmd(),
	)
	return rootCmd
}

// setup resolves configuration in order defaults, file, environment, flags.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	config.FromEnv(&cfg)
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}

	level, ok := monitoring.ParseLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q; use debug|info|warn|error", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "console", "":
		a.logger = monitoring.NewConsoleLogger(cmd.ErrOrStderr(), "wpilog", level)
	case "json":
		a.logger = monitoring.NewLoggerTo(cmd.ErrOrStderr(), "wpilog", level)
	default:
		return fmt.Errorf("invalid log format %q; use console|json", cfg.LogFormat)
	}

	a.cfg = cfg
	return nil
}

// openLog opens path and validates its header. The returned closer must be
// called when the reader is no longer needed.
func openLog(path string) (*datalog.Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := datalog.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, f, nil
}
