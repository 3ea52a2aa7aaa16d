//go:build !windows

package disk

import "golang.org/x/sys/unix"

// Usage returns capacity information for the filesystem containing path.
func Usage(path string) (Info, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Info{}, err
	}
	bsize := uint64(st.Bsize)
	return Info{
		Total: st.Blocks * bsize,
		// Bavail counts blocks available to unprivileged users, which is what
		// matters for capacity planning; Bfree includes the root reserve.
		Free: st.Bavail * bsize,
	}, nil
}
