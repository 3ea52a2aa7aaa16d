package fs

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Fault defines specific failure behavior for paths matching a rule.
type Fault struct {
	FailAfterBytes int64 // Fail writes once this many bytes were written to the file. 0 to disable.
	FailOnCreate   bool  // Fail OpenFile calls that would create the file.
	FailOnMkdir    bool  // Fail MkdirAll.
	FailOnRemove   bool  // Fail Remove and RemoveAll.
	FailOnSync     bool
	FailOnClose    bool
	Err            error
}

// FaultyFS is a FileSystem wrapper that can inject errors.
//
// Rules are matched by substring against the path; the last matching rule
// wins. Paths with no matching rule pass through untouched.
type FaultyFS struct {
	FS FileSystem

	mu    sync.Mutex
	rules map[string]Fault

	// Err is the error returned by injected faults whose rule does not carry
	// its own error.
	Err error
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{
		FS:    fsys,
		rules: make(map[string]Fault),
		Err:   fmt.Errorf("injected fault error"),
	}
}

// AddRule adds a fault injection rule for a specific path pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

func (f *FaultyFS) match(name string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var fault Fault
	found := false
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
			found = true
		}
	}
	if found && fault.Err == nil {
		fault.Err = f.Err
	}
	return fault, found
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	fault, found := f.match(name)
	if found && fault.FailOnCreate && flag&os.O_CREATE != 0 {
		return nil, fault.Err
	}

	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	if !found {
		return file, nil
	}
	return &faultyFile{File: file, fault: fault}, nil
}

func (f *FaultyFS) Remove(name string) error {
	if fault, ok := f.match(name); ok && fault.FailOnRemove {
		return fault.Err
	}
	return f.FS.Remove(name)
}

func (f *FaultyFS) RemoveAll(path string) error {
	if fault, ok := f.match(path); ok && fault.FailOnRemove {
		return fault.Err
	}
	return f.FS.RemoveAll(path)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) {
	return f.FS.Stat(name)
}

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	if fault, ok := f.match(path); ok && fault.FailOnMkdir {
		return fault.Err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) ReadDir(name string) ([]os.DirEntry, error) {
	return f.FS.ReadDir(name)
}

// faultyFile wraps a File and applies its rule's write/sync/close faults.
type faultyFile struct {
	File
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (n int, err error) {
	if ff.fault.FailAfterBytes > 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, ff.fault.Err
	}
	n, err = ff.File.Write(p)
	if n > 0 {
		ff.written += int64(n)
	}
	return n, err
}

func (ff *faultyFile) WriteAt(p []byte, off int64) (n int, err error) {
	if ff.fault.FailAfterBytes > 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, ff.fault.Err
	}
	n, err = ff.File.WriteAt(p, off)
	if n > 0 {
		ff.written += int64(n)
	}
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ff.fault.Err
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.Err
	}
	return ff.File.Close()
}
