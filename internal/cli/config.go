package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hosts-editor/internal/source"
	"hosts-editor/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
		Long: strings.TrimSpace(`
The config file is JSON with comments and trailing commas allowed
(~/.config/hosts-editor/config.json, or --config). Every setting can be
overridden by a flag or an HOSTS_EDITOR_* environment variable.
`),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.configPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			_, statErr := os.Stat(p)
			return writeOut(cmd, app, map[string]any{"path": p, "exists": statErr == nil})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the loaded config and the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.configPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"path":   p,
				"config": app.cfg,
				"effective": map[string]any{
					"source":    app.Source,
					"file":      firstNonEmpty(app.File, source.DefaultPath()),
					"elevate":   firstNonEmpty(app.elevation(), source.DefaultElevation()),
					"format":    app.Format,
					"logLevel":  app.LogLevel,
					"backupDir": app.backupDir(),
					"history":   app.cfg.HistoryEnabled(),
					"stateDir":  app.st.Dir,
				},
			})
		},
	})
	cmd.AddCommand(newConfigInitCmd(app))
	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.configPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := os.Stat(p); err == nil && !force {
				return writeErr(cmd, fmt.Errorf("%s already exists (use --force to overwrite)", p))
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return writeErr(cmd, err)
			}

			history := true
			confirmQuit := true
			cfg := &store.Config{
				Source:  source.KindDisk,
				File:    source.DefaultPath(),
				Format:  "json",
				History: &history,
				TUI:     &store.TUIConfig{Theme: "auto", ConfirmQuit: &confirmQuit},
			}
			if err := store.SaveConfig(p, cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"path": p, "config": cfg})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func (app *App) configPath() (string, error) {
	if p := strings.TrimSpace(app.ConfigPath); p != "" {
		return p, nil
	}
	return store.ConfigPath()
}
