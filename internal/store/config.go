package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Config is the optional user configuration file. Every field may be
// overridden by an environment variable or a flag.
type Config struct {
	// Source is one of disk|privileged|configmap.
	Source string `json:"source,omitempty"`
	// File is the hosts file path for the disk and privileged sources.
	File string `json:"file,omitempty"`
	// Elevate selects the privileged copy command: sudo|pkexec|osascript|none.
	Elevate string `json:"elevate,omitempty"`

	// Format is the default CLI output format: json|table|hosts.
	Format   string `json:"format,omitempty"`
	LogLevel string `json:"logLevel,omitempty"`

	// BackupDir defaults to <config dir>/backups.
	BackupDir string `json:"backupDir,omitempty"`

	// History records every saved revision in history.db (default true).
	History *bool `json:"history,omitempty"`
	// HistoryKeep prunes older revisions per source after a save; 0 keeps all.
	HistoryKeep int `json:"historyKeep,omitempty"`

	Kubernetes *KubernetesConfig `json:"kubernetes,omitempty"`
	Web        *WebConfig        `json:"web,omitempty"`
	TUI        *TUIConfig        `json:"tui,omitempty"`
}

type KubernetesConfig struct {
	Namespace  string `json:"namespace,omitempty"`
	ConfigMap  string `json:"configMap,omitempty"`
	Key        string `json:"key,omitempty"`
	Kubeconfig string `json:"kubeconfig,omitempty"`
}

type WebConfig struct {
	Addr string `json:"addr,omitempty"`
}

type TUIConfig struct {
	// Theme forces the palette variant: light|dark|auto.
	Theme string `json:"theme,omitempty"`
	// ConfirmQuit asks before quitting with unsaved changes (default true).
	ConfirmQuit *bool `json:"confirmQuit,omitempty"`
}

func (c *Config) HistoryEnabled() bool {
	return c == nil || c.History == nil || *c.History
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.config).
	if v := strings.TrimSpace(os.Getenv("HOSTS_EDITOR_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hosts-editor"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the config at path ("" means ConfigPath). Comments and
// trailing commas are accepted. A missing file yields an empty Config.
func LoadConfig(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	std, err := hujson.Standardize(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.DisallowUnknownFields()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveConfig writes cfg as indented JSON at path ("" means ConfigPath).
func SaveConfig(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	// Best-effort: keep the previous config around for recovery.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomic.WriteFile(path+".bak", bytes.NewReader(prev))
	}
	return atomic.WriteFile(path, bytes.NewReader(b))
}
