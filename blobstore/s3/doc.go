// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// Segments in deep storage are immutable, so the store is read-only: Open,
// List and bulk download. Range reads map directly to ranged GetObject calls,
// and whole-object downloads go through the S3 transfer manager for parallel
// part fetches.
package s3
