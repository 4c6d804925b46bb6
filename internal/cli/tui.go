package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"hosts-editor/internal/source"
	"hosts-editor/internal/tui"
)

// runTUI starts the interactive editor. A hosts file that needs elevation is
// opened through the privileged source, which refreshes sudo credentials
// before the first save instead of prompting inside the alt screen.
func runTUI(cmd *cobra.Command, app *App) error {
	restore, err := setupTUILogging(app.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer restore()

	src, err := app.openSource()
	if err != nil {
		return writeErr(cmd, err)
	}
	switch s := src.(type) {
	case source.Disk:
		if source.NeedsElevation(s.Path) {
			src = source.Privileged{Path: s.Path, Method: app.elevation(), NonInteractive: true}
		}
	case source.Privileged:
		s.NonInteractive = true
		src = s
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, _, closeFn := app.openSession(ctx, src)
	defer closeFn()

	confirmQuit := true
	theme := ""
	if t := app.cfg.TUI; t != nil {
		theme = strings.TrimSpace(t.Theme)
		if t.ConfirmQuit != nil {
			confirmQuit = *t.ConfirmQuit
		}
	}
	return tui.Run(ctx, sess, tui.Options{
		Store:       app.st,
		Theme:       theme,
		ConfirmQuit: confirmQuit,
	})
}
