//go:build unix

package source

import "golang.org/x/sys/unix"

// canWrite reports whether the current process may write path, using the
// real uid like access(2) does.
func canWrite(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
