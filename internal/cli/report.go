/*
PURPOSE:
  Defines the 'report' subcommand.
  Runs the full pipeline and writes the report folder.

REQUIREMENTS:
  User-specified:
  - Extra input folders can be given as arguments.
  - Fails when no telemetry file could be read at all.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load fails or engine run fails.

USAGE:
  telemetry-report report public/reports public/reports_local -o ./out
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/telemetry-report/internal/engine"
)

var (
	outputOverride string
	noJSONL        bool
)

var reportCmd = &cobra.Command{
	Use:   "report [dirs...]",
	Short: "Build the telemetry report tables",
	Long: `Loads every telemetry_*.json snapshot from the given directories (default:
public/reports and public/reports_local), normalizes them and writes a new
report_YYYYMMDD_HHMMSS folder containing:

  specs.csv      one row per machine snapshot
  summary.csv    one row per machine+model with speedup, throughput, P50/P90/P99
  digits.csv     one row per digit sample
  anomalies.csv  mode-collapse flags
  all_rows.csv   summary and digit rows together
  summary.jsonl  summary rows as JSON Lines
  report.json    run manifest

Files that cannot be parsed are skipped with a warning. If no file can be
loaded the command fails.`,
	Example: `  # Scan the default folders
  telemetry-report report

  # Scan specific folders, earlier folders win on duplicate snapshots
  telemetry-report report public/reports /mnt/lab/reports -o ./reports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		if outputOverride != "" {
			cfg.OutputDir = outputOverride
		}
		if noJSONL {
			cfg.WriteJSONL = false
		}

		dir, err := engine.Run(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Directory that receives the report_* folder")
	reportCmd.Flags().BoolVar(&noJSONL, "no-jsonl", false, "Skip writing summary.jsonl")
}
