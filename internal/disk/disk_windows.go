//go:build windows

package disk

import "golang.org/x/sys/windows"

// Usage returns capacity information for the filesystem containing path.
func Usage(path string) (Info, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return Info{}, err
	}
	var free, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &free, &total, &totalFree); err != nil {
		return Info{}, err
	}
	return Info{Total: total, Free: free}, nil
}
