// Package fingerprint implements spec.md §4.C: the sparse positional
// signature that splits a same-size bucket without reading each file
// whole. Fingerprints are necessary-but-not-sufficient for equality; the
// exact comparator in package comparator supplies the sufficient half.
package fingerprint

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jrsmith/dedupe/internal/fsport"
)

// Params controls the sampling shape. Defaults match spec.md §4.C:
// 4 sample points of 4096 bytes each.
type Params struct {
	SamplePoints int
	SampleSize   int
}

// DefaultParams returns the spec-mandated defaults.
func DefaultParams() Params {
	return Params{SamplePoints: 4, SampleSize: 4096}
}

// Of computes the fingerprint for a file of the given size at path,
// reading through port. Files at or below 2*SampleSize take the SMALL
// path and are never sampled; they fall straight through to the exact
// comparator.
func Of(port fsport.Port, path string, size int64, p Params) (string, error) {
	small := int64(2 * p.SampleSize)
	if size <= small {
		return fmt.Sprintf("%d|SMALL", size), nil
	}

	offsets := sampleOffsets(size, p)

	f, err := port.OpenSequentialRead(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint: open %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "%d|", size)

	buf := make([]byte, p.SampleSize)
	for _, offset := range offsets {
		want := p.SampleSize
		if remaining := size - offset; int64(want) > remaining {
			want = int(remaining)
		}

		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return "", fmt.Errorf("fingerprint: seek %s@%d: %w", path, offset, err)
		}

		n, err := io.ReadFull(f, buf[:want])
		if err != nil {
			return "", fmt.Errorf("fingerprint: short read %s@%d: %w", path, offset, err)
		}
		if n != want {
			return "", fmt.Errorf("fingerprint: short read %s@%d: got %d want %d", path, offset, n, want)
		}

		fmt.Fprintf(&b, "%d|", rollingHash(buf[:want]))
	}

	return b.String(), nil
}

// rollingHash reduces a byte slice with the deterministic 32-bit rolling
// hash mandated by spec.md §4.C: h := h*31 + byte, unsigned wraparound.
func rollingHash(data []byte) uint32 {
	var h uint32
	for _, c := range data {
		h = h*31 + uint32(c)
	}
	return h
}

// sampleOffsets builds the ordered, deduplicated sample offset set from
// spec.md §4.C step 2: {0} ∪ {floor(N*i/(points+1))} ∪ {N-min(size,N)}.
func sampleOffsets(size int64, p Params) []int64 {
	set := make(map[int64]struct{})
	set[0] = struct{}{}

	for i := 1; i <= p.SamplePoints; i++ {
		pos := (size * int64(i)) / int64(p.SamplePoints+1)
		set[pos] = struct{}{}
	}

	sampleSize := int64(p.SampleSize)
	tailStart := size - min64(sampleSize, size)
	set[tailStart] = struct{}{}

	offsets := make([]int64, 0, len(set))
	for o := range set {
		offsets = append(offsets, o)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
