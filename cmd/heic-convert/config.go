// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/heic-convert/internal/history"
	"github.com/pdiddy/heic-convert/internal/plugin"
	"github.com/pdiddy/heic-convert/internal/secrets"
	"github.com/pdiddy/heic-convert/pkg/types"
)

// connectionFromConfig builds the host connection from viper settings,
// falling back to .secrets/ for the API key.
func connectionFromConfig() types.ConnectionConfig {
	conn := types.ConnectionConfig{
		Scheme:  viper.GetString("connection.scheme"),
		Host:    viper.GetString("connection.host"),
		Port:    viper.GetInt("connection.port"),
		APIKey:  viper.GetString("connection.api_key"),
		Timeout: viper.GetDuration("connection.timeout"),
	}
	if conn.APIKey == "" {
		conn.APIKey = loadedSecrets[secrets.StashAPIKey]
	}
	return conn
}

// conversionFromConfig builds the conversion settings from viper.
func conversionFromConfig() types.ConversionConfig {
	return types.ConversionConfig{
		Quality:    viper.GetInt("conversion.quality"),
		ScanAlways: viper.GetBool("conversion.scan_always"),
		StateDir:   viper.GetString("conversion.state_dir"),
	}
}

// openHistory opens the run journal, returning nil when it is unavailable.
// The journal is best-effort; the pipeline runs without it.
func openHistory(stateDir string, log *plugin.Logger) *history.Store {
	hist, err := history.Open(stateDir)
	if err != nil {
		log.Warnf("Run history unavailable: %v", err)
		return nil
	}
	return hist
}
