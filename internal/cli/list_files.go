/*
PURPOSE:
  Defines the 'list-files' subcommand.
  Shows which snapshots a report run would read.

REQUIREMENTS:
  User-specified:
  - List discovered telemetry files.

  Implementation-discovered:
  - Useful to check deduplication across folders before a full run.

ARCHITECTURE INTEGRATION:
  - Calls: internal/loader.Discover()

USAGE:
  telemetry-report list-files public/reports public/reports_local
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/telemetry-report/internal/loader"
)

var listFilesCmd = &cobra.Command{
	Use:   "list-files [dirs...]",
	Short: "List telemetry files that would be loaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}

		files, err := loader.Discover(cfg.InputDirs, cfg.FilePattern)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, f := range files {
			fmt.Fprintln(out, f.Path)
		}
		if len(files) == 0 {
			return fmt.Errorf("%w: nothing matches %s", loader.ErrNoInputData, cfg.FilePattern)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listFilesCmd)
}
