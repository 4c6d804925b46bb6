package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteBackup_NamesAndOrdering(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "backups")
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	p1, err := WriteBackup(dir, "one", at)
	if err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	if filepath.Base(p1) != "hosts.bak.20260314-150926" {
		t.Fatalf("unexpected backup name %q", filepath.Base(p1))
	}
	p2, err := WriteBackup(dir, "two", at)
	if err != nil {
		t.Fatalf("WriteBackup (same second): %v", err)
	}
	if p2 != p1+".1" {
		t.Fatalf("expected suffixed name, got %q", p2)
	}
	p3, err := WriteBackup(dir, "three", at.Add(time.Hour))
	if err != nil {
		t.Fatalf("WriteBackup (later): %v", err)
	}

	b, err := os.ReadFile(p2)
	if err != nil || string(b) != "two" {
		t.Fatalf("backup content = %q, %v", b, err)
	}

	list, err := ListBackups(dir)
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	want := []string{p3, p2, p1}
	if len(list) != len(want) {
		t.Fatalf("ListBackups = %v", list)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Fatalf("ListBackups[%d] = %q, want %q", i, list[i], want[i])
		}
	}
}

func TestListBackups_MissingDir(t *testing.T) {
	t.Parallel()

	list, err := ListBackups(filepath.Join(t.TempDir(), "none"))
	if err != nil || len(list) != 0 {
		t.Fatalf("ListBackups(missing) = %v, %v", list, err)
	}
}

func TestStore_BackupDir(t *testing.T) {
	t.Parallel()

	s := Store{Dir: "/cfg"}
	if got := s.BackupDir(""); got != filepath.Join("/cfg", "backups") {
		t.Fatalf("default BackupDir = %q", got)
	}
	if got := s.BackupDir("/var/backups/hosts"); got != "/var/backups/hosts" {
		t.Fatalf("explicit BackupDir = %q", got)
	}
}
