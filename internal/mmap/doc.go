// Package mmap provides read-only memory-mapped file access for zero-copy I/O.
//
// Memory mapping allows direct access to file contents without copying data
// through kernel buffers. Cached segment files can be gigabytes in size, so
// the default materialization strategy maps them instead of reading them.
//
//	m, err := mmap.Open("00000.smoosh")
//	if err != nil { ... }
//	defer m.Close()
//
//	// Zero-copy access to file contents
//	data := m.Bytes()
//
//	// Create a view into a specific region
//	region, _ := m.Region(offset, size)
//
//	// Provide kernel hints for access patterns
//	m.Advise(mmap.AccessRandom)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// # Thread Safety
//
// Mapping and Region are safe for concurrent read access. Close is idempotent
// and protected by atomic operations, but callers must ensure no goroutines
// access Bytes() after Close() returns.
package mmap
