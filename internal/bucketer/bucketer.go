// Package bucketer implements spec.md §4.B: grouping discovered files by
// exact byte length, the first and cheapest tier of the duplicate-detection
// pipeline.
package bucketer

import (
	"log/slog"
	"time"

	"github.com/jrsmith/dedupe/internal/entities"
	"github.com/jrsmith/dedupe/internal/fsport"
)

// Stats accumulates the totals a scan reports alongside its duplicate
// groups (spec.md §3 ScanResult.totalFiles / totalBytes).
type Stats struct {
	TotalFiles int64
	TotalBytes int64
}

// SizeBucket groups every record sharing one byte length, in the order
// they first entered the bucket (spec.md §3 invariant: all members share
// size; spec.md §4.E: this order underpins reproducible group ordering).
type SizeBucket struct {
	Size    int64
	Records []entities.FileRecord
}

// Build drains entries, resolves each survivor's mtime through port, and
// returns size buckets containing at least two members, ordered by each
// bucket's first-encountered position in the entry stream so results stay
// deterministic given a fixed enumeration order. Entries whose metadata
// read fails, or whose mtime cannot be resolved, are logged and dropped.
func Build(log *slog.Logger, port fsport.Port, entries <-chan fsport.Entry) ([]SizeBucket, Stats) {
	index := make(map[int64]int)
	var buckets []SizeBucket
	var stats Stats

	for entry := range entries {
		if entry.Err != nil {
			log.Warn("enumeration error, dropping entry", "path", entry.Path, "error", entry.Err)
			continue
		}

		mtimeNanos, err := port.ModTime(entry.Path)
		if err != nil {
			log.Warn("metadata read failed, dropping entry", "path", entry.Path, "error", err)
			continue
		}

		record := entities.FileRecord{
			Path:    entry.Path,
			Size:    entry.Size,
			ModTime: time.Unix(0, mtimeNanos),
		}

		if i, ok := index[entry.Size]; ok {
			buckets[i].Records = append(buckets[i].Records, record)
		} else {
			index[entry.Size] = len(buckets)
			buckets = append(buckets, SizeBucket{Size: entry.Size, Records: []entities.FileRecord{record}})
		}

		stats.TotalFiles++
		stats.TotalBytes += entry.Size
	}

	filtered := buckets[:0]
	for _, b := range buckets {
		if len(b.Records) >= 2 {
			filtered = append(filtered, b)
		}
	}
	return filtered, stats
}
