// Package deleter implements spec.md §4.H: applying a retention plan to
// the filesystem, dry-run or live.
package deleter

import (
	"log/slog"

	"github.com/jrsmith/dedupe/internal/entities"
)

// Remover is the minimal filesystem capability the deleter needs: fsport.Port
// satisfies it, and tests can supply a narrower fake.
type Remover interface {
	Delete(path string) error
}

// Report is the final accounting the deleter hands back to the caller,
// per spec.md §4.H.
type Report struct {
	SuccessCount   int
	FailureCount   int
	ReclaimedBytes int64
	// Projected is true when ReclaimedBytes is a dry-run estimate rather
	// than bytes actually freed.
	Projected bool
}

// Line describes one processed member, for callers rendering per-file
// deletion output (dry-run "would delete" or live "deleted"/"failed").
type Line struct {
	Path    string
	Size    int64
	Deleted bool
	Err     error
}

// Apply walks plan's non-kept members and deletes them (or simulates
// deletion under dryRun), calling onLine for each as it is processed.
// Kept members are never touched.
func Apply(log *slog.Logger, port Remover, plan *entities.RetentionPlan, dryRun bool, onLine func(Line)) Report {
	report := Report{Projected: dryRun}

	for g, group := range plan.Result.Groups {
		keep := plan.Keep[g]
		for i, file := range group.Files {
			idx := i + 1
			if keep.Contains(idx) {
				continue
			}

			if dryRun {
				report.SuccessCount++
				report.ReclaimedBytes += file.Size
				if onLine != nil {
					onLine(Line{Path: file.Path, Size: file.Size, Deleted: true})
				}
				continue
			}

			err := port.Delete(file.Path)
			if err != nil {
				log.Warn("deletion failed", "path", file.Path, "error", err)
				report.FailureCount++
				if onLine != nil {
					onLine(Line{Path: file.Path, Size: file.Size, Deleted: false, Err: err})
				}
				continue
			}

			report.SuccessCount++
			report.ReclaimedBytes += file.Size
			if onLine != nil {
				onLine(Line{Path: file.Path, Size: file.Size, Deleted: true})
			}
		}
	}

	return report
}
