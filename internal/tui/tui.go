package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"hosts-editor/internal/session"
	"hosts-editor/internal/store"
)

// Options configures the interactive editor.
type Options struct {
	// Store holds tui_state.json; a zero Store disables state persistence.
	Store store.Store
	// Theme is the configured palette variant (light|dark|auto).
	Theme string
	// ConfirmQuit asks before quitting with unsaved changes.
	ConfirmQuit bool
}

// Run starts the TUI on sess and blocks until the user quits.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	applyThemePreference(opts.Theme)
	applyColorProfilePreference()

	m := newAppModel(sess, opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(appModel); ok {
		fm.persistState()
	}
	if err != nil {
		log.Error().Err(err).Msg("tui exited with error")
	}
	return err
}
