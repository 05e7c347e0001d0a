// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package magick resolves and invokes the ImageMagick binary for HEIC to
// JPEG conversion. Resolution happens once at startup; a missing binary is
// a fatal configuration error because no file could possibly convert.
package magick

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// binMagick is the ImageMagick 7 entry point.
	binMagick = "magick"
	// binConvert is the ImageMagick 6 name, still shipped by Alpine.
	binConvert = "convert"
)

const defaultQuality = 100

// executor abstracts binary lookup and command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) (stderr string, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return strings.TrimSpace(errBuf.String()), err
}

var defaultExec executor = &osExecutor{}

// Tool is a resolved ImageMagick installation.
type Tool struct {
	bin     string
	quality int
	exec    executor
}

// Name returns the resolved binary name.
func (t *Tool) Name() string { return t.bin }

// Resolve probes for an ImageMagick binary, preferring magick over convert,
// and returns a Tool bound to it. quality <= 0 selects the default (100).
func Resolve(quality int) (*Tool, error) {
	return resolve(defaultExec, quality)
}

func resolve(exec executor, quality int) (*Tool, error) {
	if quality <= 0 {
		quality = defaultQuality
	}
	for _, bin := range []string{binMagick, binConvert} {
		if _, err := exec.LookPath(bin); err == nil {
			return &Tool{bin: bin, quality: quality, exec: exec}, nil
		}
	}
	return nil, fmt.Errorf(
		"ImageMagick not found: neither %q nor %q is on PATH", binMagick, binConvert)
}

// Convert converts the HEIC file at heicPath to a sibling JPEG sharing its
// base name and returns the JPEG path. The output is written to a temporary
// name in the same directory and renamed into place only when the binary
// exits zero, so a failed conversion never leaves a partial .jpg behind.
func (t *Tool) Convert(ctx context.Context, heicPath string) (string, error) {
	base := strings.TrimSuffix(heicPath, filepath.Ext(heicPath))
	jpegPath := base + ".jpg"

	// The temp name must end in .jpg so ImageMagick picks the JPEG encoder.
	tmp, err := os.CreateTemp(filepath.Dir(heicPath), filepath.Base(base)+".*.jpg")
	if err != nil {
		return "", fmt.Errorf("creating temp output for %s: %w", heicPath, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	stderr, err := t.exec.Run(ctx, t.bin, heicPath, "-quality", strconv.Itoa(t.quality), tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		if stderr != "" {
			return "", fmt.Errorf("%s failed for %s: %w: %s", t.bin, heicPath, err, stderr)
		}
		return "", fmt.Errorf("%s failed for %s: %w", t.bin, heicPath, err)
	}

	if err := os.Rename(tmpPath, jpegPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming output for %s: %w", heicPath, err)
	}
	return jpegPath, nil
}
