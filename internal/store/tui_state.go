package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"hosts-editor/internal/hostsfile"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores small UI state for restoring the last session on relaunch.
//
// It is best effort: callers should tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// Source is the Describe() of the source the state belongs to. State for
	// another source is ignored.
	Source string `json:"source,omitempty"`

	Filter   hostsfile.Query `json:"filter"`
	Selected int             `json:"selected,omitempty"`
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted state is treated as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	if st.Selected < 0 {
		st.Selected = 0
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(s.tuiStatePath(), bytes.NewReader(b))
}
