/*
PURPOSE:
  Defines the root Cobra command for the Telemetry Report CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose ExecuteContext() so main.go can pass a signal context.
  - Logger must be configured before any subcommand runs.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/telemetry-report/main.go
  - Calls: Child commands (report, list-files, anomalies)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands, Root is usually empty or helps.

RELATED FILES:
  - cmd/telemetry-report/main.go
*/

package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/telemetry-report/internal/config"
	"github.com/daryltucker/telemetry-report/internal/output"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile          string
	logLevelOverride string
	patternOverride  string
	workersOverride  int

	rootCmd = &cobra.Command{
		Use:   "telemetry-report",
		Short: "Consolidates ML inference benchmark telemetry into report tables",
		Long: `Reads telemetry_*.json snapshots captured on benchmark machines and builds
machine, per-model and per-digit tables with speedup, throughput, latency
percentiles and mode-collapse anomaly flags. Use 'report --help' for options.`,
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext executes the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./telemetry_report.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&patternOverride, "pattern", "", "glob for telemetry files (default telemetry_*.json)")
	rootCmd.PersistentFlags().IntVar(&workersOverride, "workers", 0, "number of files parsed concurrently")
}

// loadConfig loads the config file, applies global overrides and positional
// input directories, and configures the logger.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if logLevelOverride != "" {
		cfg.LogLevel = logLevelOverride
	}
	if patternOverride != "" {
		cfg.FilePattern = patternOverride
	}
	if workersOverride > 0 {
		cfg.Workers = workersOverride
	}
	if len(args) > 0 {
		cfg.InputDirs = args
	}
	cfg.Validate()

	if err := output.Configure(cfg.LogLevel, cfg.LogFormat, os.Stderr); err != nil {
		return nil, err
	}
	return cfg, nil
}
