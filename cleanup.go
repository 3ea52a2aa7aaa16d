package segcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/hupe1980/segcache/location"
	"github.com/hupe1980/segcache/segment"
)

// Cleanup drops the segment from the node-local cache.
//
// Every location is scanned, not just the nominal owner, so stray copies and
// partial state from failed downloads are collected too. Files are deleted
// recursively and empty ancestor directories are pruned up to (but never
// including) the location root. The segment's bytes are released from the
// accounting even when deletion fails; such failures are logged and absorbed,
// never surfaced. When delete-on-remove is disabled the call is a no-op.
func (m *Manager) Cleanup(ctx context.Context, seg segment.Segment) {
	if !m.deleteOnRemove {
		return
	}

	found := false
	for _, loc := range m.locations {
		dir := m.segmentDir(seg, loc)
		if _, err := m.fsys.Stat(dir); err != nil {
			loc.RemoveSegment(seg)
			continue
		}
		found = true

		err := m.removeCacheDir(seg, loc)
		m.log.LogCleanup(ctx, seg.ID(), loc.Path(), err)
		m.metrics.RecordCleanup(err)

		// Accounted bytes are released even when deletion failed; bookkeeping
		// and disk contents may drift until the location is repaired.
		loc.RemoveSegment(seg)
	}

	if !found {
		m.log.InfoContext(ctx, "cleanup requested for segment not cached at any location",
			"segment", string(seg.ID()),
		)
	}
}

// removeCacheDir recursively deletes the segment's directory at the location
// and prunes empty ancestors. Runs under the layout mutex so a concurrent
// download never sees a half-deleted tree.
func (m *Manager) removeCacheDir(seg segment.Segment, loc *location.StorageLocation) error {
	dir := m.segmentDir(seg, loc)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.fsys.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := m.fsys.RemoveAll(dir); err != nil {
		return err
	}

	m.pruneEmptyAncestors(dir, loc.Path())
	return nil
}

// pruneEmptyAncestors removes now-empty parents of dir, walking upward and
// stopping at the first non-empty directory or at the location root.
func (m *Manager) pruneEmptyAncestors(dir, root string) {
	root = filepath.Clean(root)
	for parent := filepath.Dir(filepath.Clean(dir)); len(parent) > len(root); parent = filepath.Dir(parent) {
		entries, err := m.fsys.ReadDir(parent)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := m.fsys.Remove(parent); err != nil {
			return
		}
	}
}
