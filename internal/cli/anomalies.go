package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daryltucker/telemetry-report/internal/engine"
)

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies [dirs...]",
	Short: "Print mode-collapse anomalies without writing a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}

		rep, err := engine.Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MACHINE\tMODEL\tKIND\tSNAPSHOT")
		for _, a := range rep.Anomalies {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.MachineName, a.ModelFile, a.Kind, a.Snapshot)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(anomaliesCmd)
}
