package materialize

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hupe1980/segcache/internal/mmap"
)

// DefaultStrategyName names the built-in memory-mapped strategy.
const DefaultStrategyName = "mmap"

func init() {
	Register(DefaultStrategyName, MMapStrategy{})
}

// MMapStrategy opens a segment by memory-mapping every data file in the
// directory. Reads are zero-copy views into the page cache.
type MMapStrategy struct {
	// Pattern is the access hint applied to each mapping.
	Pattern mmap.AccessPattern
}

// Materialize maps all regular files under dir, excluding the descriptor.
func (s MMapStrategy) Materialize(dir string) (QueryableSegment, error) {
	seg := &mmapSegment{mappings: make(map[string]*mmap.Mapping)}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if name == FactoryFile {
			return nil
		}

		m, err := mmap.Open(path)
		if err != nil {
			return fmt.Errorf("map %s: %w", name, err)
		}
		if s.Pattern != mmap.AccessDefault {
			_ = m.Advise(s.Pattern)
		}

		seg.mappings[name] = m
		seg.names = append(seg.names, name)
		seg.size += int64(m.Size())
		return nil
	})
	if err != nil {
		_ = seg.Close()
		return nil, err
	}

	sort.Strings(seg.names)
	return seg, nil
}

type mmapSegment struct {
	mappings map[string]*mmap.Mapping
	names    []string
	size     int64
}

func (s *mmapSegment) Files() []string {
	return s.names
}

func (s *mmapSegment) Bytes(name string) ([]byte, error) {
	m, ok := s.mappings[name]
	if !ok {
		return nil, fmt.Errorf("materialize: no such file %q: %w", name, os.ErrNotExist)
	}
	return m.Bytes(), nil
}

func (s *mmapSegment) Size() int64 {
	return s.size
}

// Close unmaps every file. Safe to call more than once.
func (s *mmapSegment) Close() error {
	var firstErr error
	for _, m := range s.mappings {
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
