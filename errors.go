package segcache

import (
	"errors"
	"fmt"

	"github.com/hupe1980/segcache/segment"
)

var (
	// ErrNoLocations is returned when a manager is constructed without any
	// storage locations.
	ErrNoLocations = errors.New("at least one storage location is required")

	// ErrNoPuller is returned when a segment's load spec names a store type
	// no puller was registered for.
	ErrNoPuller = errors.New("no puller registered for load spec type")
)

// ErrSegmentLoad indicates that a segment could not be loaded into any
// storage location.
//
// The per-location causes can be accessed via errors.Unwrap.
type ErrSegmentLoad struct {
	SegmentID segment.ID
	cause     error
}

func (e *ErrSegmentLoad) Error() string {
	return fmt.Sprintf("failed to load segment %s in all locations", e.SegmentID)
}

func (e *ErrSegmentLoad) Unwrap() error { return e.cause }

// ErrSizeMismatch indicates that the bytes materialized on disk differ from
// the size the segment declares. Returned only in strict mode; the default
// policy logs a warning and keeps the download.
type ErrSizeMismatch struct {
	SegmentID segment.ID
	Expected  int64
	Actual    int64
}

func (e *ErrSizeMismatch) Error() string {
	return fmt.Sprintf("segment %s size mismatch: expected %d bytes, got %d", e.SegmentID, e.Expected, e.Actual)
}
