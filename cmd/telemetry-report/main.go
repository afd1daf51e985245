/*
PURPOSE:
  Entry point for the Telemetry Report application.
  Initializes the CLI root command and executes it.

REQUIREMENTS:
  User-specified:
  - Must serve as the single binary entry point.
  - Must exit non-zero when no telemetry could be loaded.

  Implementation-discovered:
  - Uses cobra for CLI command management.
  - Ctrl-C should stop file parsing cleanly, so a signal-aware context is passed down.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.ExecuteContext()
  - Depends on: internal/cli package

ERROR HANDLING:
  - Explicit error check on ExecuteContext(); exit code 1 on failure.

IMPLEMENTATION RULES:
  - Critical: Keep main() minimal. All logic belongs in internal/ packages.
  - Do not put business logic here.

USAGE:
  go build -o telemetry-report ./cmd/telemetry-report
  ./telemetry-report [command] [flags]

RELATED FILES:
  - internal/cli/root.go - The actual root command definition.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/daryltucker/telemetry-report/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
