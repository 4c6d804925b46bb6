package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hosts-editor/internal/format"
	"hosts-editor/internal/session"
	"hosts-editor/internal/source"
	"hosts-editor/internal/store"
)

type App struct {
	File       string
	Source     string
	Format     string
	PrettyJSON bool
	ConfigPath string
	LogLevel   string
	Namespace  string
	ConfigMap  string
	Yes        bool

	cfg *store.Config
	st  store.Store

	// confirm asks a yes/no question on the terminal; tests replace it.
	confirm func(cmd *cobra.Command, question string) (bool, error)
}

func NewRootCmd() *cobra.Command {
	// .env only fills variables that are not already set.
	_ = godotenv.Load()
	return newRootCmd(&App{confirm: linerConfirm})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "hosts-editor",
		Short:        "Edit the hosts file from the terminal, the browser, or scripts",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor on /etc/hosts
  hosts-editor

  # Edit another file
  hosts-editor --file ./hosts

  # Scriptable commands
  hosts-editor list --format table
  hosts-editor add 127.0.0.1 api.local --comment "dev api"
  hosts-editor disable api.local
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.prepare(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.File, "file", envOr("HOSTS_EDITOR_FILE", ""), "Hosts file path (default: the platform hosts file)")
	cmd.PersistentFlags().StringVar(&app.Source, "source", envOr("HOSTS_EDITOR_SOURCE", ""), "Where the hosts text lives (disk|privileged|configmap)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("HOSTS_EDITOR_FORMAT", ""), "Output format (json|table|hosts)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output (bordered tables)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("HOSTS_EDITOR_CONFIG", ""), "Config file (default: ~/.config/hosts-editor/config.json)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("HOSTS_EDITOR_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.Namespace, "namespace", envOr("HOSTS_EDITOR_NAMESPACE", ""), "Kubernetes namespace for --source configmap")
	cmd.PersistentFlags().StringVar(&app.ConfigMap, "configmap", envOr("HOSTS_EDITOR_CONFIGMAP", ""), "ConfigMap name for --source configmap")
	cmd.PersistentFlags().BoolVarP(&app.Yes, "yes", "y", false, "Answer yes to prompts (e.g. retrying a save with elevated privileges)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newPrintCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newSetActiveCmd(app, true))
	cmd.AddCommand(newSetActiveCmd(app, false))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newSetCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// prepare loads the config file and resolves settings. Flags and their
// environment defaults win over the config file, which wins over built-in
// defaults.
func (app *App) prepare(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg

	if p := strings.TrimSpace(app.ConfigPath); p != "" {
		app.st = store.Store{Dir: filepath.Dir(p)}
	} else {
		st, err := store.Default()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.st = st
	}

	app.Format = firstNonEmpty(app.Format, cfg.Format, "json")
	app.LogLevel = firstNonEmpty(app.LogLevel, cfg.LogLevel, "warn")
	app.Source = firstNonEmpty(app.Source, cfg.Source, source.KindDisk)
	app.File = firstNonEmpty(app.File, cfg.File)
	if k := cfg.Kubernetes; k != nil {
		app.Namespace = firstNonEmpty(app.Namespace, k.Namespace)
		app.ConfigMap = firstNonEmpty(app.ConfigMap, k.ConfigMap)
	}

	if err := setupLogging(cmd.ErrOrStderr(), app.LogLevel); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func (app *App) elevation() string {
	return firstNonEmpty(os.Getenv("HOSTS_EDITOR_ELEVATE"), app.cfg.Elevate)
}

func (app *App) sourceOptions() source.Options {
	opts := source.Options{
		Kind:      app.Source,
		Path:      app.File,
		Elevate:   app.elevation(),
		Namespace: app.Namespace,
		ConfigMap: app.ConfigMap,
	}
	if k := app.cfg.Kubernetes; k != nil {
		opts.Key = k.Key
		opts.Kubeconfig = k.Kubeconfig
	}
	return opts
}

func (app *App) openSource() (source.Source, error) {
	return source.Open(app.sourceOptions())
}

// openSession wires src to the revision history when it is enabled. The
// returned func closes the history database.
func (app *App) openSession(ctx context.Context, src source.Source) (*session.Session, session.Options, func()) {
	var opts session.Options
	closeFn := func() {}
	if app.cfg.HistoryEnabled() {
		h, err := app.st.OpenHistory(ctx)
		if err != nil {
			log.Warn().Err(err).Str("dir", app.st.Dir).Msg("history disabled")
		} else {
			opts.History = h
			opts.HistoryKeep = app.cfg.HistoryKeep
			closeFn = func() { _ = h.Close() }
		}
	}
	return session.New(src, opts), opts, closeFn
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// envelope is the JSON shape of every command's output.
type envelope struct {
	Data  any      `json:"data"`
	Hints []string `json:"_hints,omitempty"`
}

// writeOut writes v in the selected format. JSON output is wrapped in an
// envelope; the other formats render v itself.
func writeOut(cmd *cobra.Command, app *App, v any, hints ...string) error {
	f := strings.ToLower(strings.TrimSpace(app.Format))
	if f == "" || f == "json" {
		return format.WriteJSON(cmd.OutOrStdout(), envelope{Data: v, Hints: hints}, app.PrettyJSON)
	}
	if err := format.Write(cmd.OutOrStdout(), v, f, app.PrettyJSON); err != nil {
		return writeErr(cmd, err)
	}
	for _, h := range hints {
		fmt.Fprintln(cmd.ErrOrStderr(), "hint: "+h)
	}
	return nil
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
