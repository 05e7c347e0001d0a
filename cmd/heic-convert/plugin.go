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

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Run as a Stash external plugin",
	Long: `Plugin reads the Stash task payload from stdin, runs the requested mode
("convert" or "scan"), and writes the JSON result on stdout. Log lines go
to stderr in the host's framed format. Stash invokes this subcommand via
the plugin manifest; it is not meant for interactive use.`,
	RunE: runPlugin,
}

func init() {
	rootCmd.AddCommand(pluginCmd)
}

func runPlugin(cmd *cobra.Command, args []string) error {
	in, err := plugin.ReadInput(cmd.InOrStdin())
	if err != nil {
		plugin.WriteError(cmd.OutOrStdout(), err)
		return err
	}

	log := plugin.HostLogger()
	mode := in.Mode()
	log.Infof("HEIC Converter starting (mode: %s)", mode)

	// Connection details come from the host payload; the API key, if any,
	// still comes from local configuration.
	conn := in.ServerConnection.Connection(connectionFromConfig().Timeout)
	if conn.SessionCookieValue == "" {
		conn.APIKey = connectionFromConfig().APIKey
	}
	client := stash.NewClient(conn)

	var msg string
	switch mode {
	case plugin.ModeScan:
		msg, _ = task.Scan(cmd.Context(), client, log)

	case plugin.ModeConvert:
		cfg := conversionFromConfig()

		tool, err := magick.Resolve(cfg.Quality)
		if err != nil {
			log.Errorf("Plugin failed: %v", err)
			plugin.WriteError(cmd.OutOrStdout(), err)
			return err
		}
		log.Infof("Using ImageMagick command: %s", tool.Name())

		hist := openHistory(cfg.StateDir, log)
		if hist != nil {
			defer hist.Close()
		}

		msg, err = task.Convert(cmd.Context(), client, tool, hist, cfg.ScanAlways, log)
		if err != nil {
			log.Errorf("Plugin failed: %v", err)
			plugin.WriteError(cmd.OutOrStdout(), err)
			return err
		}

	default:
		err := fmt.Errorf("unknown mode: %s", mode)
		log.Errorf("%v", err)
		plugin.WriteError(cmd.OutOrStdout(), err)
		return err
	}

	return plugin.WriteOutput(cmd.OutOrStdout(), msg)
}
