// Package disk reports filesystem capacity for storage location accounting.
//
// Values come straight from the operating system (statfs on Unix,
// GetDiskFreeSpaceEx on Windows) and reflect the whole filesystem the queried
// path lives on, not just the directory tree under it.
package disk
