package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg == nil || cfg.Source != "" || !cfg.HistoryEnabled() {
		t.Fatalf("expected empty config with history on; got %#v", cfg)
	}
}

func TestLoadConfig_AcceptsCommentsAndTrailingCommas(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	src := `{
  // edit the cluster copy by default
  "source": "configmap",
  "history": false,
  "kubernetes": {"namespace": "dev", "configMap": "hosts",},
}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Source != "configmap" || cfg.HistoryEnabled() {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if cfg.Kubernetes == nil || cfg.Kubernetes.Namespace != "dev" || cfg.Kubernetes.ConfigMap != "hosts" {
		t.Fatalf("unexpected kubernetes config: %#v", cfg.Kubernetes)
	}
}

func TestLoadConfig_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"sauce": "disk"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected parse error naming %s; got %v", path, err)
	}
}

func TestSaveConfig_KeepsPreviousAsBackup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.json")
	if err := SaveConfig(path, &Config{Format: "table"}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if err := SaveConfig(path, &Config{Format: "hosts", HistoryKeep: 50}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Format != "hosts" || cfg.HistoryKeep != 50 {
		t.Fatalf("unexpected config after save: %#v", cfg)
	}
	prev, err := LoadConfig(path + ".bak")
	if err != nil {
		t.Fatalf("LoadConfig(.bak): %v", err)
	}
	if prev.Format != "table" {
		t.Fatalf("expected backup to hold the previous config; got %#v", prev)
	}
}

func TestConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOSTS_EDITOR_CONFIG_DIR", dir)

	p, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	if p != filepath.Join(dir, "config.json") {
		t.Fatalf("ConfigPath = %s", p)
	}
	st, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if st.BackupDir("") != filepath.Join(dir, "backups") {
		t.Fatalf("BackupDir = %s", st.BackupDir(""))
	}
	if st.BackupDir("/var/backups/hosts") != "/var/backups/hosts" {
		t.Fatalf("explicit BackupDir not honoured")
	}
}
