package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for reading immutable data blobs (segment objects).
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// List returns the names of all blobs under the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.Closer

	// Size returns the size of the blob in bytes.
	Size() int64

	// ReadAt reads len(p) bytes starting at offset off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// ReadRange returns a reader over [off, off+length).
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
}

// BulkFetcher is an optional interface for stores that can download a whole
// object concurrently (e.g. the S3 transfer manager). The Puller prefers it
// for uncompressed objects, writing parts directly into the target file.
type BulkFetcher interface {
	// FetchTo downloads the named blob into w and returns the bytes written.
	FetchTo(ctx context.Context, name string, w io.WriterAt) (int64, error)
}
