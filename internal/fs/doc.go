// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: Represents an open file with read/write/sync capabilities
//   - [FileSystem]: Abstracts filesystem operations (open, remove, mkdir, etc.)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using the standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate disk and permission errors)
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
//
// Tests inject [FaultyFS] to simulate a failing storage location:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("disk2", fs.Fault{FailAfterBytes: 1024})
//	// inject ffs into the component under test
//
// # Design Notes
//
// This package intentionally does NOT include context.Context parameters.
// Filesystem operations are typically fast (microseconds for local NVMe) and
// non-interruptible at the syscall level. Slow remote transfers go through
// the blobstore package, which has context support.
package fs
