// Package blobstore provides read-only access to the durable remote store
// holding published segments, and the Puller that materializes a segment's
// objects into a local cache directory.
//
// Segments are immutable once published, so the store surface is read-only:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)       // Open one object for reading
//	    List(ctx, prefix) ([]string, error) // Enumerate a segment's objects
//	}
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem directory (development and tests)
//   - MemoryStore: In-memory store (tests)
//   - s3.Store: Amazon S3 with range reads and parallel downloads
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Compression
//
// Objects whose names end in ".zst" or ".lz4" are decompressed transparently
// while being pulled; the local file drops the compression suffix.
package blobstore
