package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"hosts-editor/internal/hostsfile"
)

func TestTUIState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}

	// Missing file => default state.
	st0, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st0 == nil || st0.Version != 1 {
		t.Fatalf("expected default Version=1; got %#v", st0)
	}

	want := &TUIState{
		Version:  1,
		Source:   "/etc/hosts",
		Filter:   hostsfile.Query{Hostname: "local", Comment: "dev"},
		Selected: 7,
	}
	if err := s.SaveTUIState(want); err != nil {
		t.Fatalf("SaveTUIState: %v", err)
	}
	got, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestTUIState_CorruptedIsTreatedAsMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, tuiStateFileName), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := Store{Dir: dir}.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st.Version != 1 || st.Selected != 0 || !st.Filter.IsZero() {
		t.Fatalf("expected default state, got %#v", st)
	}
}
