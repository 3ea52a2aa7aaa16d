// Package location models the local cache directories segments are placed in.
//
// A StorageLocation is one configured directory with a capacity budget and
// live usage accounting. Locations are constructed once at startup and live
// for the process lifetime; their counters mutate on every successful segment
// load and every cleanup.
package location

import (
	"sync"

	"github.com/hupe1980/segcache/internal/disk"
	"github.com/hupe1980/segcache/segment"
)

// Config describes one storage location.
type Config struct {
	// Path is the filesystem root of the location. Must be unique across the
	// configured set.
	Path string

	// MaxSize is the capacity budget in bytes. The location never accounts
	// more than this many bytes of cached segments.
	MaxSize int64

	// FreeSpaceFraction is the fraction of the underlying filesystem that must
	// stay free regardless of MaxSize. 0 disables the reserve.
	FreeSpaceFraction float64

	// DiskUsage reports capacity of the filesystem holding Path.
	// Nil means the real filesystem; tests inject deterministic values.
	DiskUsage func(path string) (disk.Info, error)
}

// StorageLocation is one configured cache directory with usage accounting.
//
// All methods are safe for concurrent use. The usage counter and the resident
// set only change through AddSegment/RemoveSegment, which callers invoke as
// part of the same critical-section discipline as the filesystem operations
// that justify them.
type StorageLocation struct {
	path              string
	maxSize           int64
	freeSpaceFraction float64
	diskUsage         func(path string) (disk.Info, error)

	mu         sync.Mutex
	used       int64
	residents  map[segment.ID]int64
	partitions *partitionIndex
}

// New creates a StorageLocation from its configuration.
func New(cfg Config) *StorageLocation {
	du := cfg.DiskUsage
	if du == nil {
		du = disk.Usage
	}
	return &StorageLocation{
		path:              cfg.Path,
		maxSize:           cfg.MaxSize,
		freeSpaceFraction: cfg.FreeSpaceFraction,
		diskUsage:         du,
		residents:         make(map[segment.ID]int64),
		partitions:        newPartitionIndex(),
	}
}

// Path returns the filesystem root of the location.
func (l *StorageLocation) Path() string { return l.path }

// MaxSize returns the configured capacity budget in bytes.
func (l *StorageLocation) MaxSize() int64 { return l.maxSize }

// Used returns the bytes currently accounted to cached segments.
func (l *StorageLocation) Used() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used
}

// Available returns the effective number of bytes the location could still
// accept: the configured headroom (MaxSize minus used), further bounded by the
// real free space of the underlying filesystem after the reserve fraction.
//
// If the filesystem cannot be queried, only the configured headroom bounds the
// answer; a dead disk then fails at download time and triggers fallback.
func (l *StorageLocation) Available() int64 {
	l.mu.Lock()
	avail := l.maxSize - l.used
	l.mu.Unlock()
	if avail < 0 {
		avail = 0
	}

	info, err := l.diskUsage(l.path)
	if err != nil {
		return avail
	}
	fsAvail := int64(info.Free) - int64(l.freeSpaceFraction*float64(info.Total))
	if fsAvail < 0 {
		fsAvail = 0
	}
	if fsAvail < avail {
		return fsAvail
	}
	return avail
}

// CanHandle reports whether the segment's declared size fits in the location.
func (l *StorageLocation) CanHandle(seg segment.Segment) bool {
	return seg.Size <= l.Available()
}

// AddSegment records the segment as resident and accounts its size.
// Callers must invoke this exactly once per successful placement; repeated
// calls for a segment that is already resident are ignored to keep the
// counter in step with the resident set.
func (l *StorageLocation) AddSegment(seg segment.Segment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := seg.ID()
	if _, ok := l.residents[id]; ok {
		return
	}
	l.residents[id] = seg.Size
	l.used += seg.Size
	l.partitions.add(seg)
}

// RemoveSegment drops the segment from the resident set and releases its
// accounted bytes, floored at zero. Safe to call for a segment that was never
// formally added; cleanup scans every location, not just the nominal owner.
func (l *StorageLocation) RemoveSegment(seg segment.Segment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := seg.ID()
	size, ok := l.residents[id]
	if !ok {
		return
	}
	delete(l.residents, id)
	l.used -= size
	if l.used < 0 {
		l.used = 0
	}
	l.partitions.remove(seg)
}

// IsResident reports whether the location accounts the segment as cached.
// This reflects bookkeeping, not directory contents; the two can drift when
// on-disk cleanup fails (deletions are accounted optimistically).
func (l *StorageLocation) IsResident(id segment.ID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.residents[id]
	return ok
}

// ResidentCount returns the number of segments accounted as resident.
func (l *StorageLocation) ResidentCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.residents)
}

// ResidentPartitions returns the sorted partition numbers of the given
// data source, interval and version that this location holds.
func (l *StorageLocation) ResidentPartitions(dataSource string, iv segment.Interval, version string) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.partitions.partitions(dataSource, iv, version)
}
