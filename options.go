package segcache

import (
	"github.com/hupe1980/segcache/internal/fs"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	fsys             fs.FileSystem
	pullers          map[string]SegmentPuller
	deleteOnRemove   bool
	strictSizeCheck  bool
}

// Option configures Manager constructor behavior.
type Option func(*options)

// WithLogger configures structured logging. Pass nil to disable logging
// (the default for library use).
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(o *options) {
		if collector == nil {
			collector = NoopMetricsCollector{}
		}
		o.metricsCollector = collector
	}
}

// WithPuller registers the puller used for segments whose load spec carries
// the given type (e.g. "s3", "local"). May be called once per type.
func WithPuller(specType string, puller SegmentPuller) Option {
	return func(o *options) {
		o.pullers[specType] = puller
	}
}

// WithDeleteOnRemove enables physical deletion of cache files when segments
// are dropped. When disabled (the default), Cleanup is a no-op; an operator
// or a separate reaper owns the files.
func WithDeleteOnRemove(enabled bool) Option {
	return func(o *options) {
		o.deleteOnRemove = enabled
	}
}

// WithStrictSizeCheck makes a mismatch between the declared segment size and
// the bytes materialized on disk fail the load attempt. The default policy
// logs a warning and keeps the download, since the declared size is advisory
// metadata that can lag behind re-compactions.
func WithStrictSizeCheck(enabled bool) Option {
	return func(o *options) {
		o.strictSizeCheck = enabled
	}
}

// WithFileSystem overrides the filesystem used for markers, cleanup and
// directory scaffolding. Intended for fault injection in tests.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fsys = fsys
	}
}
