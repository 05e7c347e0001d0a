// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the heic-convert CLI and Stash
// plugin binary.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/heic-convert/internal/plugin"
	"github.com/pdiddy/heic-convert/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the heic-convert CLI.
var rootCmd = &cobra.Command{
	Use:   "heic-convert",
	Short: "HEIC/HEIF to JPEG converter plugin for Stash",
	Long: `heic-convert scans the Stash library paths for HEIC/HEIF image files and
converts them to full-quality JPEG using ImageMagick, deleting the originals
and triggering a metadata scan so the new files get indexed. Stash does not
read HEIC natively, so the plugin works at the filesystem level.

Run "convert" for the full pipeline, "scan" for a dry run that only lists
candidates, or "plugin" when invoked by Stash with a JSON payload on stdin.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log := commandLogger(cmd)
		if cf := viper.ConfigFileUsed(); cf != "" {
			log.Debugf("Using config file: %s", cf)
		}

		s, err := secrets.Load(".secrets/", log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debugf("Loaded secrets: %s", strings.Join(keys, ", "))
		}
		return nil
	},
}

// commandLogger picks the stderr format for a command: the host's framed
// protocol for plugin invocations, plain text otherwise.
func commandLogger(cmd *cobra.Command) *plugin.Logger {
	if cmd.Name() == "plugin" {
		return plugin.HostLogger()
	}
	return plugin.CLILogger()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./heic-convert.yaml or ~/.config/heic-convert/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("heic-convert")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "heic-convert"))
		}
	}

	viper.SetEnvPrefix("HEIC_CONVERT")
	viper.AutomaticEnv()

	viper.SetDefault("connection.scheme", "http")
	viper.SetDefault("connection.host", "localhost")
	viper.SetDefault("connection.port", 9999)
	viper.SetDefault("connection.timeout", "30s")
	viper.SetDefault("conversion.quality", 100)
	viper.SetDefault("conversion.scan_always", false)
	viper.SetDefault("conversion.state_dir", defaultStateDir())

	// The config-file notice is logged from PersistentPreRunE, where the
	// right stderr format for the invocation is known.
	viper.ReadInConfig()
}

// defaultStateDir places the run-history database under the user's state
// directory, falling back to the working directory.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".heic-convert"
	}
	return filepath.Join(home, ".local", "state", "heic-convert")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
