package cli

import (
	"fmt"
	"net"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hosts-editor/internal/web"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the editor as a local web UI",
		Long: strings.TrimSpace(`
Serve the hosts editor from a local HTTP server.

All browser tabs share one editing session. Rows update live over
server-sent events; nothing is written until you press Save.
`),
		Example: strings.TrimSpace(`
# Serve /etc/hosts on localhost and open a browser
hosts-editor web --open

# Browse a cluster's hosts ConfigMap without allowing edits
hosts-editor --source configmap --namespace dev --configmap hosts web --read-only
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			src, err := app.openSource()
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, _, closeFn := app.openSession(ctx, src)
			defer closeFn()
			if err := sess.Load(ctx); err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = web.DefaultAddr
				if w := app.cfg.Web; w != nil && strings.TrimSpace(w.Addr) != "" {
					listenAddr = strings.TrimSpace(w.Addr)
				}
			}

			srv, err := web.NewServer(web.ServerConfig{Addr: listenAddr, ReadOnly: readOnly}, sess)
			if err != nil {
				return writeErr(cmd, err)
			}
			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			var hints []string
			if !opened {
				hints = append(hints, "open "+url)
			}
			_ = writeOut(cmd, app, map[string]any{
				"addr":      actualAddr,
				"url":       url,
				"source":    src.Describe(),
				"readOnly":  readOnly,
				"opened":    opened,
				"openError": openErr,
				"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
			}, hints...)

			fmt.Fprintf(cmd.ErrOrStderr(), "hosts-editor web running at %s (source=%s)\n", url, src.Describe())
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			err = srv.Serve(ctx, ln)
			if sess.Dirty() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: unsaved changes were discarded")
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (default: web.addr from config, or "+web.DefaultAddr+")")
	cmd.Flags().BoolVar(&open, "open", false, "Open the UI in your default browser")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Serve without edit or save controls")
	return cmd
}
