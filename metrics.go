package segcache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after each segment load (cache miss).
	// bytes is the number of bytes materialized, duration the total time,
	// err is nil if successful.
	RecordLoad(bytes int64, duration time.Duration, err error)

	// RecordCacheHit is called when a requested segment is already resident.
	RecordCacheHit()

	// RecordLocationFailure is called when a single location attempt fails
	// and the loader falls back to the next candidate.
	RecordLocationFailure(location string)

	// RecordCleanup is called after each cleanup pass for a segment.
	RecordCleanup(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordCacheHit()                        {}
func (NoopMetricsCollector) RecordLocationFailure(string)           {}
func (NoopMetricsCollector) RecordCleanup(error)                    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount        atomic.Int64
	LoadErrors       atomic.Int64
	LoadBytes        atomic.Int64
	LoadTotalNanos   atomic.Int64
	CacheHits        atomic.Int64
	LocationFailures atomic.Int64
	CleanupCount     atomic.Int64
	CleanupErrors    atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(bytes)
}

// RecordCacheHit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheHit() {
	b.CacheHits.Add(1)
}

// RecordLocationFailure implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLocationFailure(string) {
	b.LocationFailures.Add(1)
}

// RecordCleanup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCleanup(err error) {
	b.CleanupCount.Add(1)
	if err != nil {
		b.CleanupErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadBytes:        b.LoadBytes.Load(),
		LoadAvgNanos:     b.getAvgLoadNanos(),
		CacheHits:        b.CacheHits.Load(),
		LocationFailures: b.LocationFailures.Load(),
		CleanupCount:     b.CleanupCount.Load(),
		CleanupErrors:    b.CleanupErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgLoadNanos() int64 {
	count := b.LoadCount.Load()
	if count == 0 {
		return 0
	}
	return b.LoadTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount        int64
	LoadErrors       int64
	LoadBytes        int64
	LoadAvgNanos     int64
	CacheHits        int64
	LocationFailures int64
	CleanupCount     int64
	CleanupErrors    int64
}
