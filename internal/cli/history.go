package cli

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hosts-editor/internal/session"
	"hosts-editor/internal/store"
)

var errHistoryDisabled = errors.New(`history is disabled ("history": false in config)`)

type revisionList []store.Revision

func (l revisionList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{
			shortID(r.ID),
			r.CreatedAt.Local().Format(time.DateTime),
			strconv.Itoa(r.Lines),
			strconv.Itoa(r.Bytes),
			r.Source,
		})
	}
	return []string{"ID", "SAVED", "LINES", "BYTES", "SOURCE"}, rows
}

type revisionView struct{ store.Revision }

func (r revisionView) Text() string { return r.Content }

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (app *App) openHistory(cmd *cobra.Command) (*store.History, error) {
	if !app.cfg.HistoryEnabled() {
		return nil, errHistoryDisabled
	}
	return app.st.OpenHistory(cmd.Context())
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Saved revisions of the hosts source",
		Long: strings.TrimSpace(`
Every successful save records the written text in
~/.config/hosts-editor/history.db. Revisions can be listed, shown and
restored. Identical consecutive saves are recorded once.
`),
	}
	cmd.AddCommand(newHistoryListCmd(app))
	cmd.AddCommand(newHistoryShowCmd(app))
	cmd.AddCommand(newHistoryRestoreCmd(app))
	return cmd
}

func newHistoryListCmd(app *App) *cobra.Command {
	var limit int
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List revisions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := app.openHistory(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer h.Close()

			key := ""
			if !all {
				src, err := app.openSource()
				if err != nil {
					return writeErr(cmd, err)
				}
				key = src.Describe()
			}
			revs, err := h.List(cmd.Context(), key, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, revisionList(revs))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum revisions to list (0 = all)")
	cmd.Flags().BoolVar(&all, "all", false, "Include every source, not just the selected one")
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one revision (id or unique prefix)",
		Example: strings.TrimSpace(`
hosts-editor history show 3f2a --format hosts
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := app.openHistory(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer h.Close()

			rev, err := h.Get(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, revisionView{rev})
		},
	}
}

type restoreResult struct {
	Revision string `json:"revision"`
	Source   string `json:"source"`
	Changed  bool   `json:"changed"`
}

func newHistoryRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Write a revision back to the selected source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := app.openHistory(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			rev, err := h.Get(cmd.Context(), args[0])
			_ = h.Close()
			if err != nil {
				return writeErr(cmd, err)
			}

			return runEdit(cmd, app, func(sess *session.Session) (any, []string, error) {
				before := sess.Text()
				sess.ReplaceText(rev.Content)
				res := restoreResult{
					Revision: rev.ID,
					Source:   sess.Source().Describe(),
					Changed:  sess.Text() != before,
				}
				var hints []string
				if rev.Source != res.Source {
					hints = append(hints, "revision was saved from "+rev.Source)
				}
				return res, hints, nil
			})
		},
	}
}
