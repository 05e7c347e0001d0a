// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/heic-convert/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversion runs",
	Long: `History lists past conversion runs from the local run journal. Use
--run with a run ID to see the per-file outcomes of one run.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show per-file detail for one run ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := conversionFromConfig()
	store, err := history.Open(cfg.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if runID, _ := cmd.Flags().GetInt64("run"); runID > 0 {
		files, err := store.RunFiles(cmd.Context(), runID)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintf(out, "No files recorded for run %d.\n", runID)
			return nil
		}
		fmt.Fprintf(out, "%-10s  %-50s  %s\n", "Status", "Source", "Output / Reason")
		fmt.Fprintln(out, strings.Repeat("-", 90))
		for _, f := range files {
			detail := f.Output
			if f.Reason != "" {
				detail = f.Reason
			}
			fmt.Fprintf(out, "%-10s  %-50s  %s\n", f.Status, f.Source, detail)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-4s  %-8s  %-20s  %-9s  %-7s  %s\n",
		"ID", "Mode", "Started", "Converted", "Skipped", "Failed")
	fmt.Fprintln(out, strings.Repeat("-", 70))
	for _, r := range runs {
		fmt.Fprintf(out, "%-4d  %-8s  %-20s  %-9d  %-7d  %d\n",
			r.ID, r.Mode, r.Started.Local().Format(time.DateTime), r.Converted, r.Skipped, r.Failed)
	}
	return nil
}
