package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileStore reads and writes whole documents.
type FileStore interface {
	ReadAll(path string) ([]byte, error)
	WriteAll(path string, data []byte) error
}

// OSFileStore is a FileStore backed by the local file system.
type OSFileStore struct {
	// Perm is used when a file is created. Zero means 0644.
	Perm fs.FileMode
}

func (s OSFileStore) ReadAll(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteAll replaces the file content. An existing file keeps its mode.
func (s OSFileStore) WriteAll(path string, data []byte) error {
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return &fs.PathError{Op: "write", Path: path, Err: errors.New("is a directory")}
		}
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}

// IOError is the failure of a load or save.
type IOError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s '%s': %s", e.Op, e.Path, e.Reason())
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Reason returns the underlying cause without the path prefix that os
// errors carry.
func (e *IOError) Reason() string {
	if e.Err == nil {
		return "unknown error"
	}
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) && pathErr.Err != nil {
		return pathErr.Err.Error()
	}
	return e.Err.Error()
}
