// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover walks library directories looking for HEIC/HEIF files.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/heic-convert/internal/plugin"
	"github.com/pdiddy/heic-convert/pkg/types"
)

// heicExtensions are the extensions treated as convertible, lower-cased.
var heicExtensions = map[string]bool{
	".heic": true,
	".heif": true,
}

// Match reports whether path has a HEIC/HEIF extension, case-insensitively.
func Match(path string) bool {
	return heicExtensions[strings.ToLower(filepath.Ext(path))]
}

// Find walks each root recursively and returns every HEIC/HEIF file found,
// sorted by path. Roots that are missing or not directories are skipped
// with a warning, as are unreadable entries inside a root; neither aborts
// the walk. Symlinks are not followed.
func Find(roots []string, log *plugin.Logger) []types.CandidateFile {
	var found []types.CandidateFile

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			log.Warnf("Library path does not exist or is not a directory: %s", root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warnf("Skipping unreadable entry %s: %v", path, err)
				return nil
			}
			if !d.Type().IsRegular() || !Match(path) {
				return nil
			}
			found = append(found, types.CandidateFile{
				Path: path,
				Ext:  strings.ToLower(filepath.Ext(path)),
			})
			return nil
		})
		if err != nil {
			log.Warnf("Walking %s: %v", root, err)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found
}
