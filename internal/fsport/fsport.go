// Package fsport is the filesystem integration seam described in spec.md
// §4.A: enumeration, metadata reads, sequential reads and deletion. It is
// the only way the rest of the pipeline touches disk.
package fsport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Port is the filesystem abstraction the pipeline depends on. The local
// implementation below is backed by the real OS filesystem; tests
// substitute a fake.
type Port interface {
	EnumerateDirect(dir string) (<-chan Entry, error)
	EnumerateRecursive(dir string) (<-chan Entry, error)
	CollectSubdirs(dir string) ([]string, error)
	Size(path string) (int64, error)
	ModTime(path string) (int64, error)
	OpenSequentialRead(path string) (io.ReadSeekCloser, error)
	Delete(path string) error
}

// Entry is one discovered regular file, or an error attached to a path that
// could not be read. Callers log Err and drop the entry rather than
// aborting the whole enumeration (spec.md §7, error class 2).
type Entry struct {
	Path string
	Size int64
	Err  error
}

// Local implements Port against the real filesystem.
type Local struct {
	// Excludes lists directory basenames skipped during enumeration, the
	// generalized form of the teacher's hardcoded exclude slice.
	Excludes map[string]struct{}
}

// New builds a Local port with the given excluded directory names.
func New(excludes []string) *Local {
	m := make(map[string]struct{}, len(excludes))
	for _, e := range excludes {
		m[e] = struct{}{}
	}
	return &Local{Excludes: m}
}

// EnumerateDirect yields direct regular-file children of dir, skipping
// directories, symlinks and devices. Entries whose metadata cannot be read
// are yielded with Err set.
func (l *Local) EnumerateDirect(dir string) (<-chan Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fsport: read dir %s: %w", dir, err)
	}

	out := make(chan Entry)
	go func() {
		defer close(out)
		for _, de := range dirEntries {
			if de.IsDir() {
				continue
			}
			path := filepath.Join(dir, de.Name())
			info, err := de.Info()
			if err != nil {
				out <- Entry{Path: path, Err: fmt.Errorf("fsport: stat %s: %w", path, err)}
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			out <- Entry{Path: path, Size: info.Size()}
		}
	}()
	return out, nil
}

// EnumerateRecursive yields every regular file in the subtree rooted at
// dir, skipping excluded directory names entirely.
func (l *Local) EnumerateRecursive(dir string) (<-chan Entry, error) {
	out := make(chan Entry)
	go func() {
		defer close(out)
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				out <- Entry{Path: path, Err: fmt.Errorf("fsport: walk %s: %w", path, err)}
				return nil
			}
			if d.IsDir() {
				if path != dir {
					if _, skip := l.Excludes[d.Name()]; skip {
						return filepath.SkipDir
					}
				}
				return nil
			}
			info, err := d.Info()
			if err != nil {
				out <- Entry{Path: path, Err: fmt.Errorf("fsport: stat %s: %w", path, err)}
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			out <- Entry{Path: path, Size: info.Size()}
			return nil
		})
	}()
	return out, nil
}

// CollectSubdirs returns dir plus every descendant directory, ordered by
// ascending path-string length so parents precede descendants.
func (l *Local) CollectSubdirs(dir string) ([]string, error) {
	dirs := []string{dir}

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path == dir {
			return nil
		}
		if _, skip := l.Excludes[d.Name()]; skip {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fsport: collect subdirs of %s: %w", dir, err)
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		return len(dirs[i]) < len(dirs[j])
	})
	return dirs, nil
}

// Size stats path and returns its byte length.
func (l *Local) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("fsport: size %s: %w", path, err)
	}
	return info.Size(), nil
}

// ModTime stats path and returns its modification time as a Unix
// nanosecond timestamp, keeping the port interface free of the time
// package.
func (l *Local) ModTime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("fsport: mtime %s: %w", path, err)
	}
	return info.ModTime().UnixNano(), nil
}

// OpenSequentialRead opens path for one read/compare pass, seekable so the
// fingerprinter can visit sample offsets without a second open. Callers
// must Close the returned handle before moving to the next file (spec.md
// §5 resource policy).
func (l *Local) OpenSequentialRead(path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fsport: open %s: %w", path, err)
	}
	return f, nil
}

// Delete removes path from disk.
func (l *Local) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("fsport: delete %s: %w", path, err)
	}
	return nil
}
