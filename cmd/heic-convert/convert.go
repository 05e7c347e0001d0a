// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/heic-convert/internal/magick"
	"github.com/pdiddy/heic-convert/internal/plugin"
	"github.com/pdiddy/heic-convert/internal/stash"
	"github.com/pdiddy/heic-convert/internal/task"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert all HEIC/HEIF files in the library to JPEG",
	Long: `Convert queries Stash for the configured library paths, walks them for
HEIC/HEIF files, converts each to a sibling full-quality JPEG with
ImageMagick, deletes the original on success, and triggers a metadata
scan so the new files get indexed.

Files that fail to convert are logged and left in place. A sibling .jpg
that already exists causes the file to be skipped.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Int("quality", 0, "JPEG quality, 1-100 (default from config: 100)")
	convertCmd.Flags().Bool("scan-always", false, "trigger a metadata scan even when nothing was converted")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := plugin.CLILogger()

	cfg := conversionFromConfig()
	if q, _ := cmd.Flags().GetInt("quality"); q > 0 {
		cfg.Quality = q
	}
	if always, _ := cmd.Flags().GetBool("scan-always"); always {
		cfg.ScanAlways = true
	}

	// Resolve the binary up front: without ImageMagick no file can succeed.
	tool, err := magick.Resolve(cfg.Quality)
	if err != nil {
		return err
	}
	log.Infof("Using ImageMagick command: %s", tool.Name())

	client := stash.NewClient(connectionFromConfig())

	hist := openHistory(cfg.StateDir, log)
	if hist != nil {
		defer hist.Close()
	}

	msg, err := task.Convert(cmd.Context(), client, tool, hist, cfg.ScanAlways, log)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
