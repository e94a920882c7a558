// Package packaging writes encoded documents and their zip archive to disk.
package packaging

import (
	"errors"
	"fmt"
)

// ErrFilesystem is returned when an artifact cannot be written.
var ErrFilesystem = errors.New("filesystem error")

// FilesystemError records the failed operation and path.
type FilesystemError struct {
	Op    string
	Path  string
	Cause error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying os error.
func (e *FilesystemError) Unwrap() []error {
	return []error{ErrFilesystem, e.Cause}
}
