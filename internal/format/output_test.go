package format

import (
	"bytes"
	"strings"
	"testing"
)

type fakeRows struct{}

func (fakeRows) Table() ([]string, [][]string) {
	return []string{"#", "ADDRESS", "HOSTNAME"}, [][]string{
		{"0", "127.0.0.1", "localhost"},
		{"1", "10.0.0.1", "db.internal"},
	}
}

func (fakeRows) Text() string { return "127.0.0.1 localhost\n10.0.0.1 db.internal" }

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]int{"n": 1}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "{\"n\":1}\n" {
		t.Fatalf("json output = %q", got)
	}

	buf.Reset()
	if err := Write(&buf, map[string]int{"n": 1}, "json", true); err != nil {
		t.Fatalf("Write pretty: %v", err)
	}
	if got := buf.String(); got != "{\n  \"n\": 1\n}\n" {
		t.Fatalf("pretty json output = %q", got)
	}
}

func TestWrite_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, fakeRows{}, "table", false); err != nil {
		t.Fatalf("Write table: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ADDRESS", "HOSTNAME", "127.0.0.1", "db.internal"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
	for _, l := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if strings.HasSuffix(l, " ") {
			t.Fatalf("trailing whitespace in %q", l)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	// Columns line up.
	if strings.Index(lines[1], "127.0.0.1") != strings.Index(lines[0], "ADDRESS") {
		t.Fatalf("columns not aligned:\n%s", out)
	}
}

func TestWrite_Hosts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, fakeRows{}, "hosts", false); err != nil {
		t.Fatalf("Write hosts: %v", err)
	}
	if got := buf.String(); got != "127.0.0.1 localhost\n10.0.0.1 db.internal\n" {
		t.Fatalf("hosts output = %q", got)
	}
}

func TestWrite_Unsupported(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, 42, "table", false); err == nil {
		t.Fatalf("expected error for non-table value")
	}
	if err := Write(&buf, 42, "hosts", false); err == nil {
		t.Fatalf("expected error for non-text value")
	}
	if err := Write(&buf, 42, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
