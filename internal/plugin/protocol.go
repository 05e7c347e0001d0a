// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugin

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/heic-convert/pkg/types"
)

// ModeConvert and ModeScan are the task modes the host may request.
const (
	ModeConvert = "convert"
	ModeScan    = "scan"
)

// Input is the payload Stash writes on the plugin's stdin.
type Input struct {
	ServerConnection ServerConnection `json:"server_connection"`
	Args             map[string]any   `json:"args"`
}

// ServerConnection describes how to call back into the host. Field names
// follow the host's JSON, which uses Go-style exported names.
type ServerConnection struct {
	Scheme        string         `json:"Scheme"`
	Host          string         `json:"Host"`
	Port          int            `json:"Port"`
	SessionCookie *SessionCookie `json:"SessionCookie"`
	Dir           string         `json:"Dir"`
	PluginDir     string         `json:"PluginDir"`
}

// SessionCookie is the session cookie the host hands to external plugins.
type SessionCookie struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// Output is the result object the host reads from the plugin's stdout.
// Exactly one of Output or Error is set.
type Output struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ReadInput decodes the host payload from r.
func ReadInput(r io.Reader) (Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Input{}, fmt.Errorf("parsing plugin input: %w", err)
	}
	return in, nil
}

// Mode returns the requested task mode, defaulting to convert.
func (in Input) Mode() string {
	if m, ok := in.Args["mode"].(string); ok && m != "" {
		return m
	}
	return ModeConvert
}

// Connection builds a ConnectionConfig from the server_connection block.
func (sc ServerConnection) Connection(timeout time.Duration) types.ConnectionConfig {
	conn := types.ConnectionConfig{
		Scheme:  sc.Scheme,
		Host:    sc.Host,
		Port:    sc.Port,
		Timeout: timeout,
	}
	if sc.SessionCookie != nil {
		conn.SessionCookieName = sc.SessionCookie.Name
		conn.SessionCookieValue = sc.SessionCookie.Value
	}
	return conn
}

// WriteOutput writes a success result to w.
func WriteOutput(w io.Writer, msg string) error {
	return json.NewEncoder(w).Encode(Output{Output: msg})
}

// WriteError writes a failure result to w.
func WriteError(w io.Writer, err error) error {
	return json.NewEncoder(w).Encode(Output{Error: err.Error()})
}
