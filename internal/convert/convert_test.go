// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/heic-convert/internal/plugin"
	"github.com/pdiddy/heic-convert/pkg/types"
)

// fakeConverter implements Converter for testing. On success it writes the
// sibling JPEG the way the real tool does.
type fakeConverter struct {
	err   error
	calls int
}

func (f *fakeConverter) Convert(_ context.Context, heicPath string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	jpegPath := strings.TrimSuffix(heicPath, filepath.Ext(heicPath)) + ".jpg"
	if err := os.WriteFile(jpegPath, []byte("jpeg"), 0o644); err != nil {
		return "", err
	}
	return jpegPath, nil
}

// setupHEIC creates a fake HEIC file and returns its path.
func setupHEIC(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("heic"), 0o644))
	return path
}

func testLogger() (*plugin.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return plugin.NewLogger(&buf, false), &buf
}

func TestConvertFile_SuccessDeletesOriginal(t *testing.T) {
	heicPath := setupHEIC(t, "photo.HEIC")
	log, _ := testLogger()

	res := ConvertFile(context.Background(), &fakeConverter{}, types.CandidateFile{Path: heicPath, Ext: ".heic"}, log)

	assert.Equal(t, types.StatusConverted, res.Status)
	assert.Equal(t, strings.TrimSuffix(heicPath, ".HEIC")+".jpg", res.Output)

	_, err := os.Stat(res.Output)
	assert.NoError(t, err, "JPEG must exist")
	_, err = os.Stat(heicPath)
	assert.True(t, os.IsNotExist(err), "original must be deleted")
}

func TestConvertFile_FailurePreservesOriginal(t *testing.T) {
	heicPath := setupHEIC(t, "photo.heic")
	log, buf := testLogger()

	res := ConvertFile(context.Background(), &fakeConverter{err: errors.New("corrupt input")}, types.CandidateFile{Path: heicPath, Ext: ".heic"}, log)

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Contains(t, res.Reason, "corrupt input")
	assert.Contains(t, buf.String(), "Conversion failed")

	_, err := os.Stat(heicPath)
	assert.NoError(t, err, "original must be preserved")
	_, err = os.Stat(strings.TrimSuffix(heicPath, ".heic") + ".jpg")
	assert.True(t, os.IsNotExist(err), "no JPEG on failure")
}

func TestConvertFile_SkipsWhenJPEGExists(t *testing.T) {
	heicPath := setupHEIC(t, "photo.heic")
	jpegPath := strings.TrimSuffix(heicPath, ".heic") + ".jpg"
	require.NoError(t, os.WriteFile(jpegPath, []byte("existing"), 0o644))

	conv := &fakeConverter{}
	log, buf := testLogger()
	res := ConvertFile(context.Background(), conv, types.CandidateFile{Path: heicPath, Ext: ".heic"}, log)

	assert.Equal(t, types.StatusSkipped, res.Status)
	assert.Zero(t, conv.calls, "converter must not run")
	assert.Contains(t, buf.String(), "already exists")

	// Both files untouched.
	_, err := os.Stat(heicPath)
	assert.NoError(t, err)
	data, err := os.ReadFile(jpegPath)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestConvertBatch_Counts(t *testing.T) {
	dir := t.TempDir()
	paths := []string{"a.heic", "b.heic", "c.heic"}
	var files []types.CandidateFile
	for _, name := range paths {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("heic"), 0o644))
		files = append(files, types.CandidateFile{Path: p, Ext: ".heic"})
	}
	// b already has a JPEG sibling.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jpg"), []byte("j"), 0o644))

	log, buf := testLogger()
	result, results, err := ConvertBatch(context.Background(), &fakeConverter{}, files, log)
	require.NoError(t, err)

	assert.Equal(t, BatchResult{Converted: 2, Skipped: 1, Failed: 0}, result)
	assert.Len(t, results, 3)
	assert.Equal(t, 3, result.Total())
	assert.False(t, result.HasFailures())
	assert.Contains(t, buf.String(), "Done: 2 converted, 1 skipped, 0 failed")
}

func TestConvertBatch_SecondRunFindsNothingToDo(t *testing.T) {
	heicPath := setupHEIC(t, "photo.heic")
	files := []types.CandidateFile{{Path: heicPath, Ext: ".heic"}}

	log, _ := testLogger()
	result, _, err := ConvertBatch(context.Background(), &fakeConverter{}, files, log)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Converted)

	// The original is gone, so a re-discovery of the same tree is empty.
	_, statErr := os.Stat(heicPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertBatch_ContextCancelled(t *testing.T) {
	heicPath := setupHEIC(t, "photo.heic")
	files := []types.CandidateFile{{Path: heicPath, Ext: ".heic"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log, _ := testLogger()
	result, results, err := ConvertBatch(ctx, &fakeConverter{}, files, log)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Total())
	assert.Empty(t, results)
}

func TestBatchResultSummary(t *testing.T) {
	r := BatchResult{Converted: 4, Skipped: 2, Failed: 1}
	assert.Equal(t, "4 converted, 2 skipped, 1 failed", r.Summary())
	assert.Equal(t, 7, r.Total())
	assert.True(t, r.HasFailures())
}
