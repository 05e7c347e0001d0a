// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Supported key file: stash-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/heic-convert/internal/plugin"
)

// StashAPIKey is the key file holding the Stash API key.
const StashAPIKey = "stash-api-key"

// Load reads the key files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map
// so an unauthenticated Stash setup needs no .secrets/ at all. Unreadable
// files are logged as warnings and skipped. Dotfiles, subdirectories, and
// empty values are ignored.
func Load(dir string, log *plugin.Logger) (map[string]string, error) {
	secrets := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return secrets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warnf("Could not read secret %s: %v", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
