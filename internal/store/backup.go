package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

const backupPrefix = "hosts.bak."

// backupTimeLayout sorts lexically in time order.
const backupTimeLayout = "20060102-150405"

// WriteBackup stores content as <dir>/hosts.bak.<YYYYMMDD-HHMMSS> and returns
// the path. A second backup within the same second gets a numeric suffix.
func WriteBackup(dir, content string, now time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("backup: missing directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	base := filepath.Join(dir, backupPrefix+now.Format(backupTimeLayout))
	path := base
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = fmt.Sprintf("%s.%d", base, n)
	}
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return "", err
	}
	return path, nil
}

// ListBackups returns backup file paths in dir, newest first.
func ListBackups(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if e.IsDir() || !strings.HasPrefix(e.Name(), backupPrefix) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}
