package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

const sampleHosts = "127.0.0.1 localhost\n# dev\n127.0.0.1 api.local # dev api\n# 10.0.0.5 db.internal\n"

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	return runApp(t, &App{confirm: func(*cobra.Command, string) (bool, error) { return false, nil }}, args)
}

func runApp(t *testing.T, app *App, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := newRootCmd(app)

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// setupHosts isolates the config dir and writes a hosts file to edit.
func setupHosts(t *testing.T, text string) string {
	t.Helper()
	t.Setenv("HOSTS_EDITOR_CONFIG_DIR", t.TempDir())
	for _, k := range []string{"HOSTS_EDITOR_FILE", "HOSTS_EDITOR_SOURCE", "HOSTS_EDITOR_FORMAT", "HOSTS_EDITOR_CONFIG", "HOSTS_EDITOR_ELEVATE"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "hosts")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write hosts: %v", err)
	}
	return path
}

func mustEnv(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: hosts-editor %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func readHosts(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read hosts: %v", err)
	}
	return string(b)
}

func TestList_JSONEnvelope(t *testing.T) {
	path := setupHosts(t, sampleHosts)

	env := mustEnv(t, "--file", path, "list")
	data := env["data"].(map[string]any)
	if got := data["source"]; got != path {
		t.Fatalf("source = %v, want %s", got, path)
	}
	stats := data["stats"].(map[string]any)
	if stats["mappings"] != float64(3) || stats["active"] != float64(2) || stats["notes"] != float64(1) {
		t.Fatalf("unexpected stats: %#v", stats)
	}
	lines := data["lines"].([]any)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	third := lines[2].(map[string]any)
	if third["index"] != float64(2) {
		t.Fatalf("expected index 2, got %v", third["index"])
	}
	want := map[string]any{"kind": "mapping", "address": "127.0.0.1", "hostname": "api.local", "comment": "dev api", "active": true}
	if diff := cmp.Diff(want, third["line"]); diff != "" {
		t.Fatalf("line mismatch (-want +got):\n%s", diff)
	}
}

func TestList_FilterAndFormats(t *testing.T) {
	path := setupHosts(t, sampleHosts)

	stdout, _, err := runCLI(t, []string{"--file", path, "list", "--hostname", ".LOCAL", "--format", "hosts"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Comment blocks always pass the filter.
	if got, want := string(stdout), "# dev\n127.0.0.1 api.local # dev api\n"; got != want {
		t.Fatalf("hosts output = %q, want %q", got, want)
	}

	stdout, _, err = runCLI(t, []string{"--file", path, "list", "--format", "table"})
	if err != nil {
		t.Fatalf("list table: %v", err)
	}
	out := string(stdout)
	for _, want := range []string{"ADDRESS", "HOSTNAME", "db.internal", "no"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestPrint_NormalizesDisabledPrefix(t *testing.T) {
	path := setupHosts(t, "#10.0.0.5   db.internal\n127.0.0.1\tlocalhost\n")

	stdout, _, err := runCLI(t, []string{"--file", path, "print"})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if got, want := string(stdout), "# 10.0.0.5 db.internal\n127.0.0.1 localhost\n"; got != want {
		t.Fatalf("print = %q, want %q", got, want)
	}
	if readHosts(t, path) != "#10.0.0.5   db.internal\n127.0.0.1\tlocalhost\n" {
		t.Fatalf("print must not write the file")
	}
}

func TestAdd_AppendsAndSaves(t *testing.T) {
	path := setupHosts(t, "127.0.0.1 localhost\n")

	env := mustEnv(t, "--file", path, "add", "10.0.0.9", "api.local", "--comment", "staging", "--disabled")
	data := env["data"].(map[string]any)
	if data["index"] != float64(1) {
		t.Fatalf("expected index 1, got %v", data["index"])
	}
	if _, ok := env["_hints"]; ok {
		t.Fatalf("expected no hints for a valid address: %v", env["_hints"])
	}
	if got, want := readHosts(t, path), "127.0.0.1 localhost\n# 10.0.0.9 api.local # staging"; got != want {
		t.Fatalf("hosts = %q, want %q", got, want)
	}

	env = mustEnv(t, "--file", path, "add", "not-an-ip", "x.local")
	hints, _ := env["_hints"].([]any)
	if len(hints) != 1 {
		t.Fatalf("expected one hint for a non-address, got %v", env["_hints"])
	}
}

func TestAdd_RejectsInvalidFields(t *testing.T) {
	path := setupHosts(t, "127.0.0.1 localhost\n")

	for _, args := range [][]string{
		{"add", "10.0.0.1", "two words"},
		{"add", "10.0.0.1", "a#b"},
		{"add", " ", "host"},
	} {
		_, stderr, err := runCLI(t, append([]string{"--file", path}, args...))
		if err == nil {
			t.Fatalf("expected %v to fail", args)
		}
		if _, ok := err.(usageError); !ok {
			t.Fatalf("expected usageError for %v, got %T (%v)", args, err, err)
		}
		if len(stderr) == 0 {
			t.Fatalf("expected error on stderr for %v", args)
		}
	}
	if readHosts(t, path) != "127.0.0.1 localhost\n" {
		t.Fatalf("rejected adds must not touch the file")
	}
}

func TestEnableDisableByHostname(t *testing.T) {
	path := setupHosts(t, "127.0.0.1 api.local\n# 10.0.0.1 api.local\n127.0.0.1 other.local\n")

	env := mustEnv(t, "--file", path, "disable", "api.local")
	idx := env["data"].(map[string]any)["indices"].([]any)
	if len(idx) != 2 {
		t.Fatalf("expected both entries, got %v", idx)
	}
	if got, want := readHosts(t, path), "# 127.0.0.1 api.local\n# 10.0.0.1 api.local\n127.0.0.1 other.local"; got != want {
		t.Fatalf("after disable = %q, want %q", got, want)
	}

	mustEnv(t, "--file", path, "enable", "api.local")
	if got, want := readHosts(t, path), "127.0.0.1 api.local\n10.0.0.1 api.local\n127.0.0.1 other.local"; got != want {
		t.Fatalf("after enable = %q, want %q", got, want)
	}

	_, _, err := runCLI(t, []string{"--file", path, "enable", "missing.local"})
	if _, ok := err.(notFoundError); !ok {
		t.Fatalf("expected notFoundError, got %T (%v)", err, err)
	}
}

func TestRmSetMove(t *testing.T) {
	path := setupHosts(t, sampleHosts)

	mustEnv(t, "--file", path, "set", "2", "comment", "")
	mustEnv(t, "--file", path, "set", "3", "active", "true")
	mustEnv(t, "--file", path, "move", "--from", "3", "--to", "0")
	mustEnv(t, "--file", path, "rm", "2")

	if got, want := readHosts(t, path), "10.0.0.5 db.internal\n127.0.0.1 localhost\n127.0.0.1 api.local"; got != want {
		t.Fatalf("hosts = %q, want %q", got, want)
	}

	cases := [][]string{
		{"rm", "9"},
		{"rm", "x"},
		{"set", "0", "bogus", "v"},
		{"set", "0", "text", "# not an entry field"},
		{"set", "0", "hostname", "a b"},
		{"move", "--from", "0,9", "--to", "0"},
	}
	before := readHosts(t, path)
	for _, args := range cases {
		if _, _, err := runCLI(t, append([]string{"--file", path}, args...)); err == nil {
			t.Fatalf("expected %v to fail", args)
		}
	}
	if readHosts(t, path) != before {
		t.Fatalf("failed edits must not touch the file")
	}
}

func TestBackup(t *testing.T) {
	path := setupHosts(t, "127.0.0.1\tlocalhost\n")

	env := mustEnv(t, "--file", path, "backup")
	p, _ := env["data"].(map[string]any)["path"].(string)
	if !strings.Contains(filepath.Base(p), "hosts.bak.") {
		t.Fatalf("unexpected backup path %q", p)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(b) != "127.0.0.1\tlocalhost\n" {
		t.Fatalf("backup must hold the raw text, got %q", string(b))
	}

	env = mustEnv(t, "--file", path, "backup", "list")
	list := env["data"].(map[string]any)["backups"].([]any)
	if len(list) != 1 || list[0] != p {
		t.Fatalf("backup list = %v, want [%s]", list, p)
	}
}

func TestHistory_ListShowRestore(t *testing.T) {
	path := setupHosts(t, "127.0.0.1 localhost\n")

	mustEnv(t, "--file", path, "add", "10.0.0.1", "a.local")
	mustEnv(t, "--file", path, "rm", "0")

	env := mustEnv(t, "--file", path, "history", "list")
	revs := env["data"].([]any)
	if len(revs) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(revs))
	}
	first := revs[1].(map[string]any)
	id, _ := first["id"].(string)
	if id == "" || first["source"] != path {
		t.Fatalf("unexpected revision: %#v", first)
	}

	stdout, _, err := runCLI(t, []string{"--file", path, "history", "show", id[:8], "--format", "hosts"})
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	if got, want := string(stdout), "127.0.0.1 localhost\n10.0.0.1 a.local\n"; got != want {
		t.Fatalf("show = %q, want %q", got, want)
	}

	env = mustEnv(t, "--file", path, "history", "restore", id)
	if changed, _ := env["data"].(map[string]any)["changed"].(bool); !changed {
		t.Fatalf("expected restore to change the document: %#v", env["data"])
	}
	if got, want := readHosts(t, path), "127.0.0.1 localhost\n10.0.0.1 a.local"; got != want {
		t.Fatalf("hosts after restore = %q, want %q", got, want)
	}

	if _, _, err := runCLI(t, []string{"--file", path, "history", "show", "zzzz"}); err == nil {
		t.Fatalf("expected unknown revision to fail")
	}
}

func TestHistory_Disabled(t *testing.T) {
	path := setupHosts(t, "127.0.0.1 localhost\n")
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(cfgPath, []byte("{\n  // no revision log\n  \"history\": false,\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mustEnv(t, "--config", cfgPath, "--file", path, "add", "10.0.0.1", "a.local")
	_, _, err := runCLI(t, []string{"--config", cfgPath, "--file", path, "history", "list"})
	if err != errHistoryDisabled {
		t.Fatalf("expected errHistoryDisabled, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(filepath.Dir(cfgPath), "history.db")); statErr == nil {
		t.Fatalf("history.db must not be created when history is disabled")
	}
}

func TestConfig_InitShowPath(t *testing.T) {
	setupHosts(t, "")
	cfgPath := filepath.Join(t.TempDir(), "config.json")

	env := mustEnv(t, "--config", cfgPath, "config", "path")
	if env["data"].(map[string]any)["exists"] != false {
		t.Fatalf("expected config to not exist yet")
	}

	mustEnv(t, "--config", cfgPath, "config", "init")
	if _, _, err := runCLI(t, []string{"--config", cfgPath, "config", "init"}); err == nil {
		t.Fatalf("expected second init without --force to fail")
	}
	mustEnv(t, "--config", cfgPath, "config", "init", "--force")

	env = mustEnv(t, "--config", cfgPath, "--format", "json", "config", "show")
	eff := env["data"].(map[string]any)["effective"].(map[string]any)
	if eff["source"] != "disk" || eff["history"] != true {
		t.Fatalf("unexpected effective settings: %#v", eff)
	}
}

func TestConfig_FlagsOverrideFile(t *testing.T) {
	path := setupHosts(t, "127.0.0.1 localhost\n")
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(cfgPath, []byte(`{"format": "hosts", "file": "/nonexistent/hosts"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, []string{"--config", cfgPath, "--file", path, "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if string(stdout) != "127.0.0.1 localhost\n" {
		t.Fatalf("expected hosts format from config, got %q", string(stdout))
	}

	if _, _, err := runCLI(t, []string{"--config", cfgPath, "--format", "edn", "list"}); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}

func TestSave_DeclinedElevation(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs a non-root unix user")
	}
	path := setupHosts(t, "127.0.0.1 localhost\n")
	dir := filepath.Dir(path)
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	var asked string
	app := &App{confirm: func(_ *cobra.Command, q string) (bool, error) {
		asked = q
		return false, nil
	}}
	_, _, err := runApp(t, app, []string{"--file", path, "add", "10.0.0.1", "a.local"})
	if err == nil {
		t.Fatalf("expected save to fail")
	}
	if !strings.Contains(asked, path) {
		t.Fatalf("expected an elevation prompt naming %s, got %q", path, asked)
	}
	if !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected error to mention --yes, got %v", err)
	}
	if readHosts(t, path) != "127.0.0.1 localhost\n" {
		t.Fatalf("file must be unchanged")
	}
}
