package disk

// Info describes the filesystem holding a path.
type Info struct {
	// Total is the total size of the filesystem in bytes.
	Total uint64
	// Free is the number of bytes available to unprivileged processes.
	Free uint64
}
