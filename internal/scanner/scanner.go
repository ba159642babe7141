// Package scanner implements spec.md §4.E: the orchestrator that drives
// the filesystem port through the size-bucket, fingerprint and
// exact-comparator tiers, in either flat or per-folder mode.
package scanner

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/jrsmith/dedupe/internal/bucketer"
	"github.com/jrsmith/dedupe/internal/comparator"
	"github.com/jrsmith/dedupe/internal/entities"
	"github.com/jrsmith/dedupe/internal/fingerprint"
	"github.com/jrsmith/dedupe/internal/fsport"
)

// Mode selects flat (whole subtree as one namespace) or per-folder
// (one scan per directory, never comparing across directories) scanning.
type Mode int

const (
	ModeFlat Mode = iota
	ModeFolder
)

// Progress reports scan progress for the operator port under --verbose,
// per SPEC_FULL.md §12 item 4. Emit is called from the scanning goroutine;
// implementations must be safe to call synchronously from here.
type Progress func(line string)

// Options configures one orchestrator run.
type Options struct {
	Params  fingerprint.Params
	Workers int
	Verbose bool
	Emit    Progress
}

// Orchestrator drives the pipeline over a filesystem port.
type Orchestrator struct {
	log  *slog.Logger
	port fsport.Port
	opts Options
}

// New builds an Orchestrator. A zero Options.Workers defaults to
// runtime.NumCPU(), matching the teacher's worker-pool sizing.
func New(log *slog.Logger, port fsport.Port, opts Options) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Emit == nil {
		opts.Emit = func(string) {}
	}
	return &Orchestrator{log: log, port: port, opts: opts}
}

// ScanFlat runs one recursive scan over root and returns a single
// ScanResult, per spec.md §4.E flat mode.
func (o *Orchestrator) ScanFlat(root string) (*entities.ScanResult, error) {
	entries, err := o.port.EnumerateRecursive(root)
	if err != nil {
		return nil, fmt.Errorf("scanner: enumerate %s: %w", root, err)
	}
	return o.scanEntries(root, entries), nil
}

// ScanFolders runs one scan per directory in root's subtree (including
// root itself), in collected order, per spec.md §4.E per-folder mode.
// The caller receives each ScanResult as it completes via onResult, along
// with hasNext reporting whether a subsequent directory remains in the
// collected order, so a per-folder controller knows whether to prompt for
// a "continue to next folder?" coda at all.
func (o *Orchestrator) ScanFolders(root string, onResult func(dir string, result *entities.ScanResult, hasNext bool) (keepGoing bool)) error {
	dirs, err := o.port.CollectSubdirs(root)
	if err != nil {
		return fmt.Errorf("scanner: collect subdirs of %s: %w", root, err)
	}

	for i, dir := range dirs {
		hasNext := i < len(dirs)-1
		entries, err := o.port.EnumerateDirect(dir)
		if err != nil {
			o.log.Warn("enumeration error, skipping directory", "dir", dir, "error", err)
			continue
		}
		result := o.scanEntries(dir, entries)
		if !onResult(dir, result, hasNext) {
			break
		}
	}
	return nil
}

// scanEntries drives one bucketing→fingerprinting→comparison pass over a
// single stream of discovered entries.
func (o *Orchestrator) scanEntries(root string, entries <-chan fsport.Entry) *entities.ScanResult {
	start := time.Now()

	sizeBuckets, stats := bucketer.Build(o.log, o.port, entries)
	if o.opts.Verbose {
		o.opts.Emit(fmt.Sprintf("scanned %d files, %d size buckets with candidates", stats.TotalFiles, len(sizeBuckets)))
	}

	var groups []entities.DuplicateGroup
	analyzed := 0

	for _, sizeBucket := range sizeBuckets {
		fpBuckets := fingerprint.Bucket(o.log, o.port, sizeBucket.Records, o.opts.Params, o.opts.Workers)
		analyzed += len(sizeBucket.Records)
		if o.opts.Verbose && analyzed%50 == 0 {
			o.opts.Emit(fmt.Sprintf("analyzed %d candidates...", analyzed))
		}

		for _, fpBucket := range fpBuckets {
			clustered := comparator.Cluster(o.log, o.port, fpBucket.Records)
			groups = append(groups, clustered...)
		}
	}

	return &entities.ScanResult{
		Root:       root,
		Groups:     groups,
		TotalFiles: stats.TotalFiles,
		TotalBytes: stats.TotalBytes,
		Duration:   time.Since(start),
	}
}
