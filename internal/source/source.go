// Package source reads and replaces the raw hosts file text. The editing core
// never touches the file system itself; it talks to a Source.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Source supplies the current hosts text and persists a replacement.
type Source interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, content string) error
	// Describe names the source for status lines and logs.
	Describe() string
}

// UnavailableError reports that a Source could not be read or written
// (permission denied, missing file, cancelled privilege prompt, API error).
type UnavailableError struct {
	Op     string // "read" or "write"
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func unavailable(op string, s Source, err error) error {
	if err == nil {
		return nil
	}
	return &UnavailableError{Op: op, Source: s.Describe(), Err: err}
}

// DefaultPath returns the platform hosts file location.
func DefaultPath() string {
	if runtime.GOOS == "windows" {
		root := os.Getenv("SystemRoot")
		if root == "" {
			root = `C:\Windows`
		}
		return filepath.Join(root, "System32", "drivers", "etc", "hosts")
	}
	return "/etc/hosts"
}

// NeedsElevation reports whether replacing the file at path needs privileges
// the current process lacks. Replacement creates a temp file next to path, so
// the directory must be writable too.
func NeedsElevation(path string) bool {
	if !canWrite(filepath.Dir(path)) {
		return true
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return !canWrite(path)
}
