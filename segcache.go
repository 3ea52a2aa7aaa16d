package segcache

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/segcache/internal/fs"
	"github.com/hupe1980/segcache/location"
	"github.com/hupe1980/segcache/materialize"
	"github.com/hupe1980/segcache/segment"
)

// SegmentPuller fetches every remote object under a segment's prefix into a
// local directory and returns the total bytes written. blobstore.Puller is
// the canonical implementation.
type SegmentPuller interface {
	Pull(ctx context.Context, prefix, dir string) (int64, error)
}

// Manager is the node-local segment cache.
//
// It is safe for concurrent use. Concurrent requests for the same segment are
// deduplicated: one download runs, the rest wait and share its result.
type Manager struct {
	locations []*location.StorageLocation
	pullers   map[string]SegmentPuller
	fsys      fs.FileSystem
	log       *Logger
	metrics   MetricsCollector

	deleteOnRemove  bool
	strictSizeCheck bool

	// mu guards directory layout transitions: marker creation, scaffolding
	// and recursive deletion. Transfers run outside it.
	mu    sync.Mutex
	group singleflight.Group
}

// New creates a Manager over the given storage locations. Location order is
// significant: it breaks ties when locations have equal free capacity.
func New(configs []location.Config, optFns ...Option) (*Manager, error) {
	if len(configs) == 0 {
		return nil, ErrNoLocations
	}

	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		fsys:             fs.Default,
		pullers:          make(map[string]SegmentPuller),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	locations := make([]*location.StorageLocation, 0, len(configs))
	for _, cfg := range configs {
		locations = append(locations, location.New(cfg))
	}

	return &Manager{
		locations:       locations,
		pullers:         opts.pullers,
		fsys:            opts.fsys,
		log:             opts.logger,
		metrics:         opts.metricsCollector,
		deleteOnRemove:  opts.deleteOnRemove,
		strictSizeCheck: opts.strictSizeCheck,
	}, nil
}

// Locations returns the manager's storage locations in configuration order.
func (m *Manager) Locations() []*location.StorageLocation {
	return m.locations
}

// IsSegmentLoaded reports whether the segment is fully cached on this node.
// A directory holding a download marker counts as not loaded; its leftover
// files are pruned so a later load starts clean.
func (m *Manager) IsSegmentLoaded(seg segment.Segment) bool {
	_, dir := m.findResident(seg)
	return dir != ""
}

// GetSegmentFiles returns the local directory holding the segment's files,
// downloading them first if the segment is not cached. Placement tries
// locations in order of free capacity; only when every candidate fails does
// the call return an error.
func (m *Manager) GetSegmentFiles(ctx context.Context, seg segment.Segment) (string, error) {
	v, err, _ := m.group.Do(string(seg.ID()), func() (any, error) {
		return m.getOrLoad(ctx, seg)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// GetSegment materializes the segment into a queryable form, downloading it
// first if needed. The caller owns the returned segment and must close it.
func (m *Manager) GetSegment(ctx context.Context, seg segment.Segment) (materialize.QueryableSegment, error) {
	dir, err := m.GetSegmentFiles(ctx, seg)
	if err != nil {
		return nil, err
	}
	return materialize.FromDir(dir)
}

func (m *Manager) getOrLoad(ctx context.Context, seg segment.Segment) (string, error) {
	if loc, dir := m.findResident(seg); dir != "" {
		// Re-register after restart; AddSegment is idempotent, so a hit on a
		// segment we already account does not double count.
		loc.AddSegment(seg)
		m.metrics.RecordCacheHit()
		return dir, nil
	}

	start := time.Now()
	loc, dir, bytes, err := m.loadWithRetry(ctx, seg)
	m.metrics.RecordLoad(bytes, time.Since(start), err)
	if err != nil {
		return "", err
	}

	loc.AddSegment(seg)
	return dir, nil
}

// findResident scans locations for a complete cached copy of the segment, in
// the same capacity-ranked order placement uses. Directories still holding a
// download marker are the debris of an interrupted process; they are pruned
// on sight.
func (m *Manager) findResident(seg segment.Segment) (*location.StorageLocation, string) {
	for _, loc := range m.rankLocations() {
		dir := m.segmentDir(seg, loc)
		if _, err := m.fsys.Stat(dir); err != nil {
			continue
		}

		if _, err := m.fsys.Stat(filepath.Join(dir, downloadStartMarkerName)); err == nil {
			m.log.Warn("pruning interrupted download",
				"segment", string(seg.ID()),
				"location", loc.Path(),
			)
			if err := m.removeCacheDir(seg, loc); err != nil {
				m.log.WithSegment(seg.ID()).Error("pruning interrupted download failed", "error", err)
			}
			loc.RemoveSegment(seg)
			continue
		}

		return loc, dir
	}
	return nil, ""
}

func (m *Manager) segmentDir(seg segment.Segment, loc *location.StorageLocation) string {
	return filepath.Join(loc.Path(), filepath.FromSlash(seg.StorageDir()))
}
