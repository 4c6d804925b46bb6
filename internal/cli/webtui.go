package cli

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hosts-editor/internal/source"
	"hosts-editor/internal/webtui"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the terminal editor in your browser (PTY + WebSocket)",
		Long: strings.TrimSpace(`
Run the interactive editor over the web through a server-side PTY and a
browser terminal emulator.

Each browser tab starts its own editor subprocess with the same --file,
--source and --config settings. There is no authentication; bind to
localhost.
`),
		Example: strings.TrimSpace(`
hosts-editor webtui --addr 127.0.0.1:3341
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:   strings.TrimSpace(addr),
				Args:   app.childArgs(),
				Source: app.describeSource(),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := srv.Addr()
			_ = writeOut(cmd, app, map[string]any{
				"addr":      listenAddr,
				"source":    app.describeSource(),
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			}, "open http://"+listenAddr)

			fmt.Fprintf(cmd.ErrOrStderr(), "hosts-editor webtui running at http://%s\n", listenAddr)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", webtui.DefaultAddr, "Bind address (host:port or :port)")
	return cmd
}

// childArgs repeats the resolved source settings for an editor subprocess.
func (app *App) childArgs() []string {
	var args []string
	add := func(flag, v string) {
		if v = strings.TrimSpace(v); v != "" {
			args = append(args, flag, v)
		}
	}
	add("--file", app.File)
	add("--source", app.Source)
	add("--config", app.ConfigPath)
	add("--log-level", app.LogLevel)
	add("--namespace", app.Namespace)
	add("--configmap", app.ConfigMap)
	return args
}

func (app *App) describeSource() string {
	src, err := app.openSource()
	if err != nil {
		return firstNonEmpty(app.File, source.DefaultPath())
	}
	return src.Describe()
}
