package scanner

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsmith/dedupe/internal/deleter"
	"github.com/jrsmith/dedupe/internal/entities"
	"github.com/jrsmith/dedupe/internal/fingerprint"
	"github.com/jrsmith/dedupe/internal/fsport"
	"github.com/jrsmith/dedupe/internal/retention"
)

// TestEndToEndScanRetainDelete exercises the full pipeline against a real
// temp-directory tree: scan finds duplicate groups across a large sample-
// window boundary, a retention plan keeps one member per group, and the
// deleter reclaims the rest from the real filesystem.
func TestEndToEndScanRetainDelete(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "backup"), 0o755))

	payload := make([]byte, 10000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	unique := make([]byte, 10000)
	copy(unique, payload)
	unique[9000] = unique[9000] + 1

	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "report.bin"), payload, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "backup", "report.bin"), payload, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "backup", "report_v2.bin"), unique, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "readme.txt"), []byte("hello"), 0o644))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	port := fsport.New(nil)
	orch := New(log, port, Options{Params: fingerprint.Params{SamplePoints: 4, SampleSize: 4096}, Workers: 2})

	result, err := orch.ScanFlat(root)
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.TotalFiles)
	require.Len(t, result.Groups, 1)
	assert.Len(t, result.Groups[0].Files, 2)

	plan := entities.NewRetentionPlan(result)
	// "docs/report.bin" and "backup/report.bin" share the same basename, so
	// ShortestName must tie and fall back to lowest encounter index rather
	// than comparing directory-prefix length.
	require.NoError(t, retention.ApplyAuto(plan, 0, retention.ShortestName))

	report := deleter.Apply(log, port, plan, false, nil)
	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 0, report.FailureCount)

	remaining, err := filepath.Glob(filepath.Join(root, "*", "*"))
	require.NoError(t, err)
	assert.Len(t, remaining, 3)

	_, err = os.Stat(filepath.Join(root, "backup", "report.bin"))
	assert.NoError(t, err, "the first-encountered same-basename duplicate must survive a tied auto-strategy")
	_, err = os.Stat(filepath.Join(root, "docs", "report.bin"))
	assert.True(t, os.IsNotExist(err), "the later-encountered same-basename duplicate must be deleted")
}
