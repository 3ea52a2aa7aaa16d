// Package segment defines the identity and metadata of immutable data segments.
//
// A segment is the unit of data served by the query engine: a versioned,
// time-and-partition-scoped chunk that lives durably in a remote store and is
// pulled onto local disks on demand. Segments are immutable once published;
// only their cached/uncached status on a given node changes.
package segment

import (
	"fmt"
	"path"
	"strconv"
	"time"
)

// ID is the stable string identity of a segment.
type ID string

// Interval is the half-open time range [Start, End) a segment covers.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// intervalTimeFormat is the basic ISO-8601 form without colons, so interval
// strings are usable as path elements on every platform.
const intervalTimeFormat = "20060102T150405.000Z"

// String returns the interval in a path-safe form, e.g.
// "20240101T000000.000Z_20240102T000000.000Z".
func (iv Interval) String() string {
	return iv.Start.UTC().Format(intervalTimeFormat) + "_" + iv.End.UTC().Format(intervalTimeFormat)
}

// LoadSpec is the opaque descriptor naming how and where a segment's bytes are
// fetched from the remote store. The "type" key selects the pull strategy; the
// remaining keys are interpreted by the matching blob store (e.g. bucket and
// prefix for S3).
type LoadSpec map[string]any

// Type returns the value of the "type" key, or "" if unset.
func (ls LoadSpec) Type() string {
	t, _ := ls["type"].(string)
	return t
}

// Path returns the value of the "path" key, or "" if unset.
// By convention every built-in load spec carries the remote prefix under "path".
func (ls LoadSpec) Path() string {
	p, _ := ls["path"].(string)
	return p
}

// Segment describes one immutable data segment.
type Segment struct {
	DataSource string   `json:"dataSource"`
	Interval   Interval `json:"interval"`
	Version    string   `json:"version"`
	Partition  int      `json:"partition"`

	// Size is the declared total size of the segment's files in bytes,
	// as recorded when the segment was published.
	Size int64 `json:"size"`

	// LoadSpec names how to fetch the segment from the remote store.
	LoadSpec LoadSpec `json:"loadSpec"`
}

// ID returns the composite identity of the segment.
func (s Segment) ID() ID {
	return ID(fmt.Sprintf("%s_%s_%s_%d", s.DataSource, s.Interval, s.Version, s.Partition))
}

// StorageDir returns the relative directory path a segment occupies under a
// storage location root: dataSource/interval/version/partition. The layout is
// deterministic so lookups, downloads and cleanup all agree on the path.
func (s Segment) StorageDir() string {
	return path.Join(s.DataSource, s.Interval.String(), s.Version, strconv.Itoa(s.Partition))
}

// String implements fmt.Stringer.
func (s Segment) String() string {
	return string(s.ID())
}
