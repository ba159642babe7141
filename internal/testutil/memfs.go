// Package testutil provides an in-memory fsport.Port fake shared across
// the pipeline's unit tests, so tier tests don't need a real disk.
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/jrsmith/dedupe/internal/fsport"
)

// MemFile is one in-memory regular file.
type MemFile struct {
	Data    []byte
	ModTime int64 // unix nanoseconds
}

// MemPort is a fake fsport.Port backed by an in-memory map, keyed by a
// slash-separated virtual path.
type MemPort struct {
	Files map[string]*MemFile
	// FailOpen, if set, makes OpenSequentialRead fail for this path.
	FailOpen map[string]bool
}

// NewMemPort builds an empty fake filesystem.
func NewMemPort() *MemPort {
	return &MemPort{Files: map[string]*MemFile{}, FailOpen: map[string]bool{}}
}

// Put registers a file at path with the given contents and mtime.
func (m *MemPort) Put(p string, data []byte, mtimeNanos int64) {
	m.Files[p] = &MemFile{Data: data, ModTime: mtimeNanos}
}

func (m *MemPort) EnumerateDirect(dir string) (<-chan fsport.Entry, error) {
	out := make(chan fsport.Entry, len(m.Files))
	var paths []string
	for p := range m.Files {
		if path.Dir(p) == dir {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	for _, p := range paths {
		out <- fsport.Entry{Path: p, Size: int64(len(m.Files[p].Data))}
	}
	close(out)
	return out, nil
}

func (m *MemPort) EnumerateRecursive(dir string) (<-chan fsport.Entry, error) {
	out := make(chan fsport.Entry, len(m.Files))
	var paths []string
	for p := range m.Files {
		if p == dir || strings.HasPrefix(p, dir+"/") {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	for _, p := range paths {
		out <- fsport.Entry{Path: p, Size: int64(len(m.Files[p].Data))}
	}
	close(out)
	return out, nil
}

func (m *MemPort) CollectSubdirs(dir string) ([]string, error) {
	set := map[string]struct{}{dir: {}}
	for p := range m.Files {
		d := path.Dir(p)
		for d != "." && d != "/" && (d == dir || strings.HasPrefix(d, dir+"/")) {
			set[d] = struct{}{}
			d = path.Dir(d)
		}
	}
	var dirs []string
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.SliceStable(dirs, func(i, j int) bool { return len(dirs[i]) < len(dirs[j]) })
	return dirs, nil
}

func (m *MemPort) Size(p string) (int64, error) {
	f, ok := m.Files[p]
	if !ok {
		return 0, fmt.Errorf("memfs: no such file %s", p)
	}
	return int64(len(f.Data)), nil
}

func (m *MemPort) ModTime(p string) (int64, error) {
	f, ok := m.Files[p]
	if !ok {
		return 0, fmt.Errorf("memfs: no such file %s", p)
	}
	return f.ModTime, nil
}

func (m *MemPort) OpenSequentialRead(p string) (io.ReadSeekCloser, error) {
	if m.FailOpen[p] {
		return nil, fmt.Errorf("memfs: forced open failure for %s", p)
	}
	f, ok := m.Files[p]
	if !ok {
		return nil, fmt.Errorf("memfs: no such file %s", p)
	}
	return &memReader{Reader: bytes.NewReader(f.Data)}, nil
}

func (m *MemPort) Delete(p string) error {
	if _, ok := m.Files[p]; !ok {
		return fmt.Errorf("memfs: no such file %s", p)
	}
	delete(m.Files, p)
	return nil
}

type memReader struct {
	*bytes.Reader
}

func (memReader) Close() error { return nil }
