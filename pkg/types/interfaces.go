package types

import (
	"io/fs"
)

// FS abstracts filesystem operations for testing
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Remove(name string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
}

// Pather provides the directories assetdeploy works with
type Pather interface {
	// ProjectRoot returns the directory relative paths resolve against
	ProjectRoot() string

	// StateDir returns the XDG state directory for assetdeploy
	StateDir() string

	// LogFilePath returns the path of the log file
	LogFilePath() string
}
