package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/assetdeploy/pkg/types"
)

// Operations FaultFS can fail
const (
	OpStat     = "stat"
	OpRead     = "read"
	OpWrite    = "write"
	OpMkdirAll = "mkdir"
	OpReadDir  = "readdir"
	OpRemove   = "remove"
)

// FaultFS wraps a filesystem and returns injected errors for chosen
// operation/path pairs. Everything else is passed through.
type FaultFS struct {
	types.FS

	mu     sync.Mutex
	faults map[string]error
	once   map[string]bool
	calls  map[string]int
}

// NewFaultFS wraps fsys
func NewFaultFS(fsys types.FS) *FaultFS {
	return &FaultFS{
		FS:     fsys,
		faults: make(map[string]error),
		once:   make(map[string]bool),
		calls:  make(map[string]int),
	}
}

// Fail makes op on path return err
func (f *FaultFS) Fail(op, path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[key(op, path)] = err
}

// FailOnce makes the next op on path return err. Later calls pass through.
func (f *FaultFS) FailOnce(op, path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(op, path)
	f.faults[k] = err
	f.once[k] = true
}

// Calls returns how many times op was called on path
func (f *FaultFS) Calls(op, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key(op, path)]
}

func (f *FaultFS) check(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(op, path)
	f.calls[k]++
	if err, ok := f.faults[k]; ok {
		if f.once[k] {
			delete(f.faults, k)
			delete(f.once, k)
		}
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func key(op, path string) string {
	return op + "\x00" + filepath.Clean(path)
}

func (f *FaultFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultFS) ReadFile(name string) ([]byte, error) {
	if err := f.check(OpRead, name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FaultFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(OpWrite, name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FaultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}
