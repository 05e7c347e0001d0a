// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared configuration and data types used across
// the conversion pipeline.
package types

import (
	"fmt"
	"time"
)

// ConnectionConfig holds how to reach the Stash GraphQL endpoint. It is
// built once at startup, either from the CLI configuration or from the
// server_connection block of a plugin invocation, and passed explicitly
// to every component that talks to the host.
type ConnectionConfig struct {
	// Scheme is "http" or "https" (default "http").
	Scheme string `json:"scheme" yaml:"scheme"`

	// Host is the address Stash listens on (default "localhost").
	Host string `json:"host" yaml:"host"`

	// Port is the Stash port (default 9999).
	Port int `json:"port" yaml:"port"`

	// APIKey authenticates requests via the ApiKey header. Optional;
	// not needed when Stash runs without authentication.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// SessionCookieName and SessionCookieValue carry the session cookie
	// Stash hands to external plugins. Optional.
	SessionCookieName  string `json:"session_cookie_name,omitempty" yaml:"session_cookie_name,omitempty"`
	SessionCookieValue string `json:"session_cookie_value,omitempty" yaml:"session_cookie_value,omitempty"`

	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// GraphQLURL returns the full URL of the host's GraphQL endpoint, applying
// the defaults for any unset field.
func (c ConnectionConfig) GraphQLURL() string {
	scheme := c.Scheme
	if scheme == "" {
		scheme = "http"
	}
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 9999
	}
	return fmt.Sprintf("%s://%s:%d/graphql", scheme, host, port)
}

// ConversionConfig holds settings for the conversion pipeline.
type ConversionConfig struct {
	// Quality is the JPEG quality passed to ImageMagick (default 100).
	Quality int `json:"quality" yaml:"quality"`

	// ScanAlways triggers a metadata scan even when zero files were
	// converted. Off by default.
	ScanAlways bool `json:"scan_always" yaml:"scan_always"`

	// StateDir is the directory for the run-history database.
	StateDir string `json:"state_dir" yaml:"state_dir"`
}
