// Package comparator implements spec.md §4.D: byte-exact pairwise
// confirmation over a fingerprint bucket, the last and only sufficient
// tier of the duplicate-detection pipeline.
package comparator

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/jrsmith/dedupe/internal/entities"
	"github.com/jrsmith/dedupe/internal/fsport"
)

// blockSize is the comparison chunk size mandated by spec.md §4.D.
const blockSize = 64 * 1024

// Cluster partitions a fingerprint bucket (same size, same fingerprint)
// into confirmed duplicate groups. Anchoring and traversal follow the
// bucket's input order exactly, so group membership order is deterministic
// and independent of any concurrency used to run the pairwise comparisons.
func Cluster(log *slog.Logger, port fsport.Port, records []entities.FileRecord) []entities.DuplicateGroup {
	processed := make([]bool, len(records))
	var groups []entities.DuplicateGroup

	for i := range records {
		if processed[i] {
			continue
		}

		group := entities.DuplicateGroup{Files: []entities.FileRecord{records[i]}}
		processed[i] = true

		for j := i + 1; j < len(records); j++ {
			if processed[j] {
				continue
			}

			equal, err := filesEqual(port, records[i].Path, records[j].Path)
			if err != nil {
				log.Warn("comparison failed, treating pair as not equal", "a", records[i].Path, "b", records[j].Path, "error", err)
				continue
			}
			if equal {
				group.Files = append(group.Files, records[j])
				processed[j] = true
			}
		}

		if len(group.Files) >= 2 {
			groups = append(groups, group)
		}
	}

	return groups
}

// filesEqual performs the byte-exact comparison in spec.md §4.D: identical
// length and identical bytes at every offset, block by block. Zero-length
// files compare equal. Any I/O failure is surfaced as an error and must
// never be interpreted as equality by the caller.
func filesEqual(port fsport.Port, pathA, pathB string) (bool, error) {
	sizeA, err := port.Size(pathA)
	if err != nil {
		return false, err
	}
	sizeB, err := port.Size(pathB)
	if err != nil {
		return false, err
	}
	if sizeA != sizeB {
		return false, nil
	}
	if sizeA == 0 {
		return true, nil
	}

	fa, err := port.OpenSequentialRead(pathA)
	if err != nil {
		return false, err
	}
	defer fa.Close()

	fb, err := port.OpenSequentialRead(pathB)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	bufA := make([]byte, blockSize)
	bufB := make([]byte, blockSize)

	for {
		nA, errA := readChunk(fa, bufA)
		nB, errB := readChunk(fb, bufB)
		if errA != nil {
			return false, errA
		}
		if errB != nil {
			return false, errB
		}

		if nA != nB {
			return false, nil
		}
		if nA == 0 {
			return true, nil
		}
		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}
	}
}

// readChunk fills buf as much as possible, returning n < len(buf) only at
// end-of-file, and never an error for a clean EOF.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return n, nil
		}
		return n, err
	}
	return n, nil
}
