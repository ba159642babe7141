package fingerprint

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jrsmith/dedupe/internal/entities"
	"github.com/jrsmith/dedupe/internal/fsport"
)

// FingerprintBucket groups every record sharing one fingerprint, in the
// order they first entered the bucket (spec.md §3 invariant: all members
// share size AND fingerprint).
type FingerprintBucket struct {
	Fingerprint string
	Records     []entities.FileRecord
}

// Bucket fingerprints every record in a same-size bucket and groups them by
// fingerprint, keeping only fingerprint buckets with two or more members.
// Fingerprinting is independent per record, so it runs across a bounded
// worker pool (spec.md §5 permits parallelizing this tier) while each
// fingerprint is written back into a slot matching its input position;
// buckets are then assembled in a second, single-threaded pass so bucket
// order matches the order records first appeared in the input slice,
// regardless of worker completion order.
func Bucket(log *slog.Logger, port fsport.Port, records []entities.FileRecord, p Params, workers int) []FingerprintBucket {
	if workers < 1 {
		workers = 1
	}

	fingerprints := make([]string, len(records))
	ok := make([]bool, len(records))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			fp, err := Of(port, rec.Path, rec.Size, p)
			if err != nil {
				log.Warn("fingerprint failed, excluding file", "path", rec.Path, "error", err)
				return nil
			}
			fingerprints[i] = fp
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	index := make(map[string]int)
	var buckets []FingerprintBucket

	for i, rec := range records {
		if !ok[i] {
			continue
		}
		fp := fingerprints[i]
		if bi, exists := index[fp]; exists {
			buckets[bi].Records = append(buckets[bi].Records, rec)
		} else {
			index[fp] = len(buckets)
			buckets = append(buckets, FingerprintBucket{Fingerprint: fp, Records: []entities.FileRecord{rec}})
		}
	}

	filtered := buckets[:0]
	for _, b := range buckets {
		if len(b.Records) >= 2 {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
