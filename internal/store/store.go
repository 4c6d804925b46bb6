package store

import (
	"os"
	"path/filepath"
	"strings"
)

// Store is the per-user state directory. It holds config.json,
// tui_state.json, the revision history database and, by default, backups.
type Store struct {
	Dir string
}

// Default returns the Store rooted at ConfigDir.
func Default() (Store, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: dir}, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// BackupDir resolves the backup directory: cfgDir when set (with a leading
// "~/" expanded), otherwise <Dir>/backups.
func (s Store) BackupDir(cfgDir string) string {
	cfgDir = strings.TrimSpace(cfgDir)
	if cfgDir == "" {
		return filepath.Join(s.Dir, "backups")
	}
	if rest, ok := strings.CutPrefix(cfgDir, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return cfgDir
}
