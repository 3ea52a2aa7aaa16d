package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/segcache/internal/fs"
	"github.com/hupe1980/segcache/resource"
)

// PullerOptions configures a Puller.
type PullerOptions struct {
	// FS is the filesystem the pulled files are written to.
	// Defaults to the real local filesystem.
	FS fs.FileSystem

	// Concurrency is the number of objects fetched in parallel per segment.
	// Defaults to 4.
	Concurrency int

	// Controller throttles transfer slots and throughput. Nil means unlimited.
	Controller *resource.Controller
}

// Puller materializes a segment's remote objects into a local directory.
//
// A segment is stored as one or more objects under a common remote prefix.
// Pull fetches them all, preserving the relative layout, and reports the
// total bytes written to disk. Objects with a ".zst" or ".lz4" suffix are
// decompressed on the fly; the local file drops the suffix, and the reported
// byte count is the decompressed size actually written.
type Puller struct {
	store       BlobStore
	fs          fs.FileSystem
	concurrency int
	rc          *resource.Controller
}

// NewPuller creates a Puller reading from the given store.
func NewPuller(store BlobStore, optFns ...func(*PullerOptions)) *Puller {
	opts := PullerOptions{
		FS:          fs.Default,
		Concurrency: 4,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Puller{
		store:       store,
		fs:          opts.FS,
		concurrency: opts.Concurrency,
		rc:          opts.Controller,
	}
}

// Pull downloads every object under prefix into dir and returns the total
// bytes written. On error the directory may contain partial files; callers
// own the cleanup (the cache deletes the whole attempt directory).
func (p *Puller) Pull(ctx context.Context, prefix, dir string) (int64, error) {
	if err := p.rc.AcquirePull(ctx); err != nil {
		return 0, err
	}
	defer p.rc.ReleasePull()

	listed, err := p.store.List(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("blobstore: list %q: %w", prefix, err)
	}

	// Store listings match on raw string prefixes, so "wiki/part_1" also
	// returns siblings like "wiki/part_10/...". Keep only the exact object
	// and true children of the prefix.
	names := listed[:0]
	for _, name := range listed {
		if name == prefix || strings.HasPrefix(name, prefix+"/") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return 0, fmt.Errorf("blobstore: no objects under %q: %w", prefix, ErrNotFound)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	var total atomic.Int64
	for _, name := range names {
		name := name
		g.Go(func() error {
			n, err := p.pullObject(ctx, name, prefix, dir)
			total.Add(n)
			if err != nil {
				return fmt.Errorf("blobstore: pull %q: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total.Load(), err
	}
	return total.Load(), nil
}

func (p *Puller) pullObject(ctx context.Context, name, prefix, dir string) (int64, error) {
	rel := strings.TrimPrefix(strings.TrimPrefix(name, prefix), "/")
	if rel == "" {
		rel = path.Base(name)
	}

	decomp, localRel := decompressorFor(rel)
	dest := filepath.Join(dir, filepath.FromSlash(localRel))

	if err := p.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}
	f, err := p.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	n, err := p.fetchInto(ctx, name, f, decomp)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

func (p *Puller) fetchInto(ctx context.Context, name string, f fs.File, decomp decompressor) (int64, error) {
	// Plain objects from a bulk-capable store are downloaded in parallel
	// parts straight into the file.
	if bf, ok := p.store.(BulkFetcher); ok && decomp == nil {
		return bf.FetchTo(ctx, name, &rateLimitedWriterAt{ctx: ctx, w: f, rc: p.rc})
	}

	blob, err := p.store.Open(ctx, name)
	if err != nil {
		return 0, err
	}
	defer blob.Close()

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if decomp != nil {
		dr, err := decomp(rc)
		if err != nil {
			return 0, err
		}
		defer dr.Close()
		r = dr
	}

	return io.Copy(resource.NewRateLimitedWriter(ctx, f, p.rc), r)
}

// decompressor wraps a compressed object stream with its decoder.
type decompressor func(io.Reader) (io.ReadCloser, error)

// decompressorFor maps an object name to its decompressor and the local file
// name (with the compression suffix stripped). Plain objects return nil.
func decompressorFor(name string) (decompressor, string) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return func(r io.Reader) (io.ReadCloser, error) {
			zr, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return zr.IOReadCloser(), nil
		}, strings.TrimSuffix(name, ".zst")
	case strings.HasSuffix(name, ".lz4"):
		return func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4.NewReader(r)), nil
		}, strings.TrimSuffix(name, ".lz4")
	default:
		return nil, name
	}
}

// rateLimitedWriterAt applies the controller's throughput limit to concurrent
// part writes from a BulkFetcher.
type rateLimitedWriterAt struct {
	ctx context.Context
	w   io.WriterAt
	rc  *resource.Controller
}

func (w *rateLimitedWriterAt) WriteAt(p []byte, off int64) (int, error) {
	if err := w.rc.AcquireIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.WriteAt(p, off)
}
