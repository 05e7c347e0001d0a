// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates per-file HEIC to JPEG conversion: invoke the
// converter, delete the original on success, account for the outcome.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/heic-convert/internal/plugin"
	"github.com/pdiddy/heic-convert/pkg/types"
)

// Converter produces a JPEG from a HEIC file and returns the output path.
// *magick.Tool is the production implementation.
type Converter interface {
	Convert(ctx context.Context, heicPath string) (string, error)
}

// BatchResult holds the outcome counts of a conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Summary returns the one-line run summary.
func (r BatchResult) Summary() string {
	return fmt.Sprintf("%d converted, %d skipped, %d failed", r.Converted, r.Skipped, r.Failed)
}

// ConvertFile converts one candidate. A file whose sibling JPEG already
// exists is skipped and left untouched. On successful conversion the
// original is deleted; a success whose original cannot be deleted counts
// as failed, with the JPEG kept.
func ConvertFile(ctx context.Context, c Converter, file types.CandidateFile, log *plugin.Logger) types.ConversionResult {
	jpegPath := strings.TrimSuffix(file.Path, filepath.Ext(file.Path)) + ".jpg"

	if _, err := os.Stat(jpegPath); err == nil {
		log.Warnf("JPEG already exists, skipping: %s", jpegPath)
		return types.ConversionResult{
			Source: file.Path,
			Status: types.StatusSkipped,
			Reason: "JPEG already exists",
		}
	}

	out, err := c.Convert(ctx, file.Path)
	if err != nil {
		log.Errorf("Conversion failed for %s: %v", file.Path, err)
		return types.ConversionResult{
			Source: file.Path,
			Status: types.StatusFailed,
			Reason: err.Error(),
		}
	}

	if err := os.Remove(file.Path); err != nil {
		log.Errorf("Converted but failed to delete original %s: %v", file.Path, err)
		return types.ConversionResult{
			Source: file.Path,
			Output: out,
			Status: types.StatusFailed,
			Reason: fmt.Sprintf("deleting original: %v", err),
		}
	}

	log.Infof("  → %s (original deleted)", out)
	return types.ConversionResult{
		Source: file.Path,
		Output: out,
		Status: types.StatusConverted,
	}
}

// ConvertBatch processes the candidates strictly in order, reporting
// per-file status and progress through log. It stops early when ctx is
// cancelled, returning what was done so far plus ctx.Err().
func ConvertBatch(ctx context.Context, c Converter, files []types.CandidateFile, log *plugin.Logger) (BatchResult, []types.ConversionResult, error) {
	var result BatchResult
	results := make([]types.ConversionResult, 0, len(files))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return result, results, err
		}

		log.Infof("[%d/%d] Converting: %s", i+1, len(files), file.Path)

		res := ConvertFile(ctx, c, file, log)
		results = append(results, res)
		switch res.Status {
		case types.StatusConverted:
			result.Converted++
		case types.StatusSkipped:
			result.Skipped++
		case types.StatusFailed:
			result.Failed++
		}

		log.Progress(float64(i+1) / float64(len(files)))
	}

	log.Infof("Done: %s", result.Summary())
	return result, results, nil
}
