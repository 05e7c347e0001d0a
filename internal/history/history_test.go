// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/heic-convert/pkg/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListRuns(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)

	results := []types.ConversionResult{
		{Source: "/media/a.heic", Output: "/media/a.jpg", Status: types.StatusConverted},
		{Source: "/media/b.heic", Status: types.StatusSkipped, Reason: "JPEG already exists"},
		{Source: "/media/c.heic", Status: types.StatusFailed, Reason: "exit status 1"},
	}

	runID, err := s.RecordRun(ctx, "convert", started, finished, results)
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, "convert", run.Mode)
	assert.Equal(t, 1, run.Converted)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, 1, run.Failed)
	assert.True(t, run.Started.Equal(started))
	assert.True(t, run.Finished.Equal(finished))
}

func TestRunFiles(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	results := []types.ConversionResult{
		{Source: "/media/a.heic", Output: "/media/a.jpg", Status: types.StatusConverted},
		{Source: "/media/b.heic", Status: types.StatusFailed, Reason: "corrupt"},
	}
	runID, err := s.RecordRun(ctx, "convert", time.Now(), time.Now(), results)
	require.NoError(t, err)

	files, err := s.RunFiles(ctx, runID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "/media/a.heic", files[0].Source)
	assert.Equal(t, types.StatusConverted, files[0].Status)
	assert.Equal(t, "corrupt", files[1].Reason)
}

func TestRuns_NewestFirstAndLimited(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.RecordRun(ctx, "convert", time.Now(), time.Now(), nil)
		require.NoError(t, err)
	}

	runs, err := s.Runs(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Greater(t, runs[0].ID, runs[1].ID)
	assert.Greater(t, runs[1].ID, runs[2].ID)
}

func TestOpen_ReopenExisting(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	_, err = s.RecordRun(context.Background(), "scan", time.Now(), time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.Runs(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
