// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/heic-convert/internal/plugin"
	"github.com/pdiddy/heic-convert/internal/stash"
	"github.com/pdiddy/heic-convert/internal/task"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Dry run: list HEIC/HEIF files without converting",
	Long: `Scan performs discovery only: it queries Stash for the library paths,
walks them, and lists every HEIC/HEIF file found. Nothing is converted,
deleted, or re-indexed.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("format", "text", "output format: text or yaml")

	rootCmd.AddCommand(scanCmd)
}

// scanReport is the machine-readable shape of a dry run.
type scanReport struct {
	Count int      `yaml:"count"`
	Files []string `yaml:"files"`
}

func runScan(cmd *cobra.Command, args []string) error {
	log := plugin.CLILogger()
	client := stash.NewClient(connectionFromConfig())

	files := task.Discover(cmd.Context(), client, log)

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml":
		report := scanReport{Count: len(files), Files: make([]string, 0, len(files))}
		for _, f := range files {
			report.Files = append(report.Files, f.Path)
		}
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encoding scan report: %w", err)
		}
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return fmt.Errorf("writing scan report: %w", err)
		}
	case "text":
		if len(files) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No HEIC/HEIF files found")
			return nil
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f.Path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Found %d HEIC/HEIF file(s)\n", len(files))
	default:
		return fmt.Errorf("unknown format %q: use text or yaml", format)
	}
	return nil
}
