package segcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hupe1980/segcache/location"
	"github.com/hupe1980/segcache/segment"
)

// downloadStartMarkerName is the file created inside a segment directory
// before any bytes are transferred and removed only after the transfer
// completed. A directory containing it was interrupted mid-download and its
// contents cannot be trusted.
const downloadStartMarkerName = "downloadStartMarker"

// loadWithRetry tries to place the segment in each candidate location, best
// first. The first success wins; a failed attempt leaves nothing behind at
// that location. Only exhausting every candidate is an error.
func (m *Manager) loadWithRetry(ctx context.Context, seg segment.Segment) (*location.StorageLocation, string, int64, error) {
	puller, ok := m.pullers[seg.LoadSpec.Type()]
	if !ok {
		return nil, "", 0, fmt.Errorf("%w: %q", ErrNoPuller, seg.LoadSpec.Type())
	}

	var causes []error
	for _, loc := range m.rankLocations() {
		if !loc.CanHandle(seg) {
			continue
		}

		dir, bytes, err := m.loadInLocation(ctx, puller, seg, loc)
		if err != nil {
			m.metrics.RecordLocationFailure(loc.Path())
			m.log.LogLoad(ctx, seg.ID(), loc.Path(), 0, 0, err)
			causes = append(causes, fmt.Errorf("location %s: %w", loc.Path(), err))
			continue
		}
		return loc, dir, bytes, nil
	}

	return nil, "", 0, &ErrSegmentLoad{SegmentID: seg.ID(), cause: errors.Join(causes...)}
}

// rankLocations returns the locations ordered by available capacity, largest
// first. The sort is stable, so equally free locations keep their
// configuration order. Rankings are recomputed per call; capacity moves with
// every load and cleanup.
func (m *Manager) rankLocations() []*location.StorageLocation {
	ranked := make([]*location.StorageLocation, len(m.locations))
	copy(ranked, m.locations)

	avail := make(map[*location.StorageLocation]int64, len(ranked))
	for _, loc := range ranked {
		avail[loc] = loc.Available()
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return avail[ranked[i]] > avail[ranked[j]]
	})
	return ranked
}

// loadInLocation runs the crash-safe download protocol for one location:
//
//  1. Under the layout mutex, create the segment directory and its download
//     marker.
//  2. Transfer the segment's objects (outside the mutex).
//  3. Remove the marker; only then is the directory a valid cache entry.
//
// Any failure deletes the partial directory before returning.
func (m *Manager) loadInLocation(ctx context.Context, puller SegmentPuller, seg segment.Segment, loc *location.StorageLocation) (string, int64, error) {
	dir := m.segmentDir(seg, loc)
	marker := filepath.Join(dir, downloadStartMarkerName)

	m.mu.Lock()
	err := func() error {
		if err := m.fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create segment dir: %w", err)
		}
		// O_EXCL: an existing marker means another process is mid-download
		// in this shared location; treat it as a failed attempt.
		f, err := m.fsys.OpenFile(marker, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return fmt.Errorf("create download marker: %w", err)
		}
		return f.Close()
	}()
	m.mu.Unlock()
	if err != nil {
		m.purgeFailedAttempt(seg, loc)
		return "", 0, err
	}

	start := time.Now()
	bytes, err := puller.Pull(ctx, seg.LoadSpec.Path(), dir)
	if err != nil {
		m.purgeFailedAttempt(seg, loc)
		return "", 0, fmt.Errorf("pull segment: %w", err)
	}

	if seg.Size > 0 && bytes != seg.Size {
		mismatch := &ErrSizeMismatch{SegmentID: seg.ID(), Expected: seg.Size, Actual: bytes}
		if m.strictSizeCheck {
			m.purgeFailedAttempt(seg, loc)
			return "", 0, mismatch
		}
		m.log.WarnContext(ctx, "segment size mismatch",
			"segment", string(seg.ID()),
			"expected", seg.Size,
			"actual", bytes,
		)
	}

	if err := m.fsys.Remove(marker); err != nil {
		m.purgeFailedAttempt(seg, loc)
		return "", 0, fmt.Errorf("remove download marker: %w", err)
	}

	m.log.LogLoad(ctx, seg.ID(), loc.Path(), bytes, time.Since(start), nil)
	return dir, bytes, nil
}

// purgeFailedAttempt removes whatever a failed download left at the location.
// Its own failures are only logged; the next attempt location is unaffected.
func (m *Manager) purgeFailedAttempt(seg segment.Segment, loc *location.StorageLocation) {
	if err := m.removeCacheDir(seg, loc); err != nil {
		m.log.WithSegment(seg.ID()).WithLocation(loc.Path()).Error("purging failed download attempt", "error", err)
	}
}
