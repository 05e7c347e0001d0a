// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package task wires the pipeline stages together: resolve library paths,
// discover candidates, convert them, and trigger a host rescan. Both the
// CLI commands and the plugin entry point run through this package.
package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/heic-convert/internal/convert"
	"github.com/pdiddy/heic-convert/internal/discover"
	"github.com/pdiddy/heic-convert/internal/history"
	"github.com/pdiddy/heic-convert/internal/plugin"
	"github.com/pdiddy/heic-convert/pkg/types"
)

// HostAPI is the slice of the Stash client the pipeline needs.
// *stash.Client is the production implementation.
type HostAPI interface {
	LibraryPaths(ctx context.Context) ([]string, error)
	TriggerScan(ctx context.Context) error
}

// Discover asks the host for its library paths and walks them for
// candidates. A failed or empty path query is a "nothing to do" outcome,
// reported through log, never an error.
func Discover(ctx context.Context, api HostAPI, log *plugin.Logger) []types.CandidateFile {
	paths, err := api.LibraryPaths(ctx)
	if err != nil {
		log.Warnf("Could not query library paths, nothing to do: %v", err)
		return nil
	}
	if len(paths) == 0 {
		log.Infof("No library paths configured")
		return nil
	}
	log.Infof("Library paths: %s", strings.Join(paths, ", "))

	return discover.Find(paths, log)
}

// Scan is the dry run: discovery and reporting only, no mutation and no
// rescan. It returns the result message and the candidate list.
func Scan(ctx context.Context, api HostAPI, log *plugin.Logger) (string, []types.CandidateFile) {
	files := Discover(ctx, api, log)
	if len(files) == 0 {
		log.Infof("No HEIC/HEIF files found in library paths")
		return "No HEIC/HEIF files found", nil
	}

	log.Infof("Found %d HEIC/HEIF file(s):", len(files))
	for _, f := range files {
		log.Infof("  %s", f.Path)
	}
	return fmt.Sprintf("Found %d HEIC/HEIF file(s)", len(files)), files
}

// triggerScan asks the host to re-index. Failure is a warning; the
// conversions already succeeded.
func triggerScan(ctx context.Context, api HostAPI, log *plugin.Logger) {
	log.Infof("Triggering Stash scan to index new JPEG files...")
	if err := api.TriggerScan(ctx); err != nil {
		log.Warnf("Could not trigger scan: %v", err)
		return
	}
	log.Infof("Triggered Stash metadata scan")
}

// Convert runs the full pipeline with an already-resolved converter tool.
// The history store may be nil (journal unavailable); recording failures
// are warnings only. The metadata scan is triggered when at least one file
// was converted, or unconditionally when scanAlways is set — including on
// runs that found nothing to convert.
func Convert(ctx context.Context, api HostAPI, tool convert.Converter, hist *history.Store, scanAlways bool, log *plugin.Logger) (string, error) {
	files := Discover(ctx, api, log)
	if len(files) == 0 {
		log.Infof("No HEIC/HEIF files found in library paths")
		if scanAlways {
			triggerScan(ctx, api, log)
		}
		return "No HEIC/HEIF files found", nil
	}
	log.Infof("Found %d HEIC/HEIF file(s) to convert", len(files))

	started := time.Now()
	result, results, err := convert.ConvertBatch(ctx, tool, files, log)
	if err != nil {
		return "", err
	}

	if hist != nil {
		if _, err := hist.RecordRun(ctx, plugin.ModeConvert, started, time.Now(), results); err != nil {
			log.Warnf("Could not record run history: %v", err)
		}
	}

	if result.Converted > 0 || scanAlways {
		triggerScan(ctx, api, log)
	}

	return "Done: " + result.Summary(), nil
}
