//go:build !unix

package source

import "os"

func canWrite(path string) bool {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		f, err := os.CreateTemp(path, ".hosts-editor-probe-*")
		if err != nil {
			return false
		}
		_ = f.Close()
		_ = os.Remove(f.Name())
		return true
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
