package scanner

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsmith/dedupe/internal/entities"
	"github.com/jrsmith/dedupe/internal/fingerprint"
	"github.com/jrsmith/dedupe/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScanFlatFindsDuplicatesAcrossSubdirectories(t *testing.T) {
	port := testutil.NewMemPort()
	port.Put("/root/a/one.txt", []byte("payload"), 1)
	port.Put("/root/b/two.txt", []byte("payload"), 2)
	port.Put("/root/c/unique.txt", []byte("different"), 3)

	orch := New(discardLogger(), port, Options{Params: fingerprint.Params{SamplePoints: 4, SampleSize: 4096}})
	result, err := orch.ScanFlat("/root")
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.TotalFiles)
	require.Len(t, result.Groups, 1)
	assert.Len(t, result.Groups[0].Files, 2)
}

func TestScanFlatIgnoresSameFingerprintDifferentContent(t *testing.T) {
	port := testutil.NewMemPort()
	// Both small files share the "<size>|SMALL" fingerprint bucket but differ
	// byte for byte, so the exact comparator must still separate them.
	port.Put("/root/a", []byte("aaaa"), 0)
	port.Put("/root/b", []byte("bbbb"), 0)

	orch := New(discardLogger(), port, Options{Params: fingerprint.Params{SamplePoints: 4, SampleSize: 4096}})
	result, err := orch.ScanFlat("/root")
	require.NoError(t, err)
	assert.Empty(t, result.Groups)
}

func TestScanFoldersNeverComparesAcrossDirectories(t *testing.T) {
	port := testutil.NewMemPort()
	port.Put("/root/a/one.txt", []byte("payload"), 1)
	port.Put("/root/b/two.txt", []byte("payload"), 2)

	orch := New(discardLogger(), port, Options{Params: fingerprint.Params{SamplePoints: 4, SampleSize: 4096}})

	var results []*entities.ScanResult
	err := orch.ScanFolders("/root", func(dir string, r *entities.ScanResult, hasNext bool) bool {
		results = append(results, r)
		return true
	})
	require.NoError(t, err)

	for _, r := range results {
		assert.Empty(t, r.Groups, "per-folder scan of %s must not see cross-directory duplicates", r.Root)
	}
}

func TestScanFoldersStopsWhenCallbackReturnsFalse(t *testing.T) {
	port := testutil.NewMemPort()
	port.Put("/root/a/one.txt", []byte("x"), 0)
	port.Put("/root/b/two.txt", []byte("y"), 0)
	port.Put("/root/c/three.txt", []byte("z"), 0)

	orch := New(discardLogger(), port, Options{Params: fingerprint.Params{SamplePoints: 4, SampleSize: 4096}})

	seen := 0
	err := orch.ScanFolders("/root", func(dir string, r *entities.ScanResult, hasNext bool) bool {
		seen++
		return seen < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}

func TestScanFoldersReportsHasNextOnlyBeforeTheLastDirectory(t *testing.T) {
	port := testutil.NewMemPort()
	port.Put("/root/a/one.txt", []byte("x"), 0)
	port.Put("/root/b/two.txt", []byte("y"), 0)
	port.Put("/root/c/three.txt", []byte("z"), 0)

	orch := New(discardLogger(), port, Options{Params: fingerprint.Params{SamplePoints: 4, SampleSize: 4096}})

	var hasNextByDir []bool
	err := orch.ScanFolders("/root", func(dir string, r *entities.ScanResult, hasNext bool) bool {
		hasNextByDir = append(hasNextByDir, hasNext)
		return true
	})
	require.NoError(t, err)

	require.NotEmpty(t, hasNextByDir)
	for _, hasNext := range hasNextByDir[:len(hasNextByDir)-1] {
		assert.True(t, hasNext)
	}
	assert.False(t, hasNextByDir[len(hasNextByDir)-1], "the last directory in collected order must report hasNext=false")
}

func TestVerboseEmitsProgress(t *testing.T) {
	port := testutil.NewMemPort()
	port.Put("/root/a", []byte("payload"), 0)
	port.Put("/root/b", []byte("payload"), 0)

	var lines []string
	orch := New(discardLogger(), port, Options{
		Params:  fingerprint.Params{SamplePoints: 4, SampleSize: 4096},
		Verbose: true,
		Emit:    func(l string) { lines = append(lines, l) },
	})
	_, err := orch.ScanFlat("/root")
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
}
