package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"hosts-editor/internal/format"
	"hosts-editor/internal/hostsfile"
	"hosts-editor/internal/session"
)

type listedLine struct {
	Index int            `json:"index"`
	Line  hostsfile.Line `json:"line"`
}

type listResult struct {
	Source string           `json:"source"`
	Stats  hostsfile.Counts `json:"stats"`
	Lines  []listedLine     `json:"lines"`
}

func (r listResult) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		rows = append(rows, lineRow(l))
	}
	return []string{"#", "ON", "ADDRESS", "HOSTNAME", "COMMENT"}, rows
}

func (r listResult) Text() string {
	lines := make([]hostsfile.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, l.Line)
	}
	return hostsfile.Serialize(lines)
}

func (l listedLine) Table() ([]string, [][]string) {
	return []string{"#", "ON", "ADDRESS", "HOSTNAME", "COMMENT"}, [][]string{lineRow(l)}
}

func (l listedLine) Text() string { return hostsfile.RenderLine(l.Line) }

func lineRow(l listedLine) []string {
	idx := strconv.Itoa(l.Index)
	switch v := l.Line.(type) {
	case hostsfile.Mapping:
		on := "no"
		if v.Active {
			on = "yes"
		}
		return []string{idx, on, v.Address, v.Hostname, v.CommentText()}
	case hostsfile.Note:
		return []string{idx, "", "", "", strings.ReplaceAll(v.Text, "\n", " ⏎ ")}
	}
	return []string{idx, "", "", "", ""}
}

var (
	_ format.Tabler = listResult{}
	_ format.Texter = listResult{}
	_ format.Tabler = listedLine{}
	_ format.Texter = listedLine{}
)

func newListCmd(app *App) *cobra.Command {
	var q hostsfile.Query
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lines (entries and comment blocks) with their index",
		Example: strings.TrimSpace(`
hosts-editor list --format table
hosts-editor list --hostname local --format hosts
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			lines := sess.Lines()
			res := listResult{
				Source: sess.Source().Describe(),
				Stats:  hostsfile.Stats(lines),
				Lines:  []listedLine{},
			}
			for _, i := range hostsfile.VisibleIndices(lines, q) {
				res.Lines = append(res.Lines, listedLine{Index: i, Line: lines[i]})
			}
			return writeOut(cmd, app, res)
		},
	}
	cmd.Flags().StringVar(&q.Address, "address", "", "Only entries whose address contains this")
	cmd.Flags().StringVar(&q.Hostname, "hostname", "", "Only entries whose hostname contains this")
	cmd.Flags().StringVar(&q.Comment, "comment", "", "Only entries whose comment contains this")
	return cmd
}

func newPrintCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the normalized hosts text (what a save would write)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeFn, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			return format.WriteText(cmd.OutOrStdout(), sess.Text())
		},
	}
}

// checkField rejects values that would not read back as the same field.
func checkField(name, v string) error {
	switch {
	case strings.TrimSpace(v) == "":
		return errUsage("%s is required", name)
	case strings.ContainsAny(v, " \t\r\n"):
		return errUsage("%s must not contain whitespace: %q", name, v)
	case strings.Contains(v, "#"):
		return errUsage("%s must not contain '#': %q", name, v)
	}
	return nil
}

func addressHints(addr string) []string {
	if hostsfile.LooksLikeAddress(addr) {
		return nil
	}
	return []string{fmt.Sprintf("%q does not look like an IP address; it will be read back as a comment", addr)}
}

func newAddCmd(app *App) *cobra.Command {
	var comment string
	var disabled bool
	cmd := &cobra.Command{
		Use:   "add <address> <hostname>",
		Short: "Append an entry",
		Example: strings.TrimSpace(`
hosts-editor add 127.0.0.1 api.local
hosts-editor add 10.0.0.5 db.internal --comment staging --disabled
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, host := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			for _, f := range []struct{ name, v string }{{"address", addr}, {"hostname", host}} {
				if err := checkField(f.name, f.v); err != nil {
					return writeErr(cmd, err)
				}
			}
			m := hostsfile.Mapping{Address: addr, Hostname: host, Active: !disabled}
			if cmd.Flags().Changed("comment") && strings.TrimSpace(comment) != "" {
				m = m.WithComment(strings.TrimSpace(comment))
			}
			return runEdit(cmd, app, func(sess *session.Session) (any, []string, error) {
				i := sess.Append(m)
				return listedLine{Index: i, Line: m}, addressHints(addr), nil
			})
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "Trailing comment")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Add the entry commented out")
	return cmd
}

type activeResult struct {
	Hostname string `json:"hostname"`
	Active   bool   `json:"active"`
	Indices  []int  `json:"indices"`
}

func newSetActiveCmd(app *App, active bool) *cobra.Command {
	use, short := "enable <hostname>", "Enable every entry for hostname"
	if !active {
		use, short = "disable <hostname>", "Disable (comment out) every entry for hostname"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			return runEdit(cmd, app, func(sess *session.Session) (any, []string, error) {
				idx := hostsfile.FindHostname(sess.Lines(), name)
				if len(idx) == 0 {
					return nil, nil, errNotFound("hostname", name)
				}
				for _, i := range idx {
					if err := sess.SetActive(i, active); err != nil {
						return nil, nil, err
					}
				}
				return activeResult{Hostname: name, Active: active, Indices: idx}, nil, nil
			})
		},
	}
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errUsage("invalid index %q", s)
	}
	return i, nil
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Delete the line at index (see list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return runEdit(cmd, app, func(sess *session.Session) (any, []string, error) {
				l, err := sess.At(i)
				if err != nil {
					return nil, nil, err
				}
				if err := sess.DeleteAt(i); err != nil {
					return nil, nil, err
				}
				return listedLine{Index: i, Line: l}, nil, nil
			})
		},
	}
}

func newSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <index> <field> <value>",
		Short: "Set one field of the line at index",
		Long: strings.TrimSpace(`
Set one field of the line at index.

Entries have the fields address, hostname, comment and active (true|false).
Comment blocks have the field text. An empty comment removes it.
`),
		Example: strings.TrimSpace(`
hosts-editor set 4 hostname api.local
hosts-editor set 4 active false
hosts-editor set 0 text "# managed by hosts-editor"
`),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			f, ok := hostsfile.ParseField(args[1])
			if !ok {
				return writeErr(cmd, errUsage("unknown field %q (expected address|hostname|comment|active|text)", args[1]))
			}
			value := args[2]
			if f == hostsfile.FieldAddress || f == hostsfile.FieldHostname {
				value = strings.TrimSpace(value)
				if err := checkField(string(f), value); err != nil {
					return writeErr(cmd, err)
				}
			}
			return runEdit(cmd, app, func(sess *session.Session) (any, []string, error) {
				if err := sess.UpdateField(i, f, value); err != nil {
					return nil, nil, err
				}
				l, err := sess.At(i)
				if err != nil {
					return nil, nil, err
				}
				var hints []string
				if f == hostsfile.FieldAddress {
					hints = addressHints(value)
				}
				return listedLine{Index: i, Line: l}, hints, nil
			})
		},
	}
}

type moveResult struct {
	From  []int        `json:"from"`
	To    int          `json:"to"`
	Lines []listedLine `json:"lines"`
}

func parseIndexList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		i, err := parseIndex(part)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	if len(out) == 0 {
		return nil, errUsage("--from is empty")
	}
	return out, nil
}

func newMoveCmd(app *App) *cobra.Command {
	var from string
	var to int
	cmd := &cobra.Command{
		Use:   "move --from <i,j,...> --to <k>",
		Short: "Move lines as one block",
		Long: strings.TrimSpace(`
Move the lines at --from (kept in their relative order) so the block starts at
--to. --to is a position among the lines that stay; it is clamped to the
sequence.
`),
		Example: strings.TrimSpace(`
# Move line 7 to the top
hosts-editor move --from 7 --to 0

# Move lines 3 and 5 below line 9
hosts-editor move --from 3,5 --to 8
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndexList(from)
			if err != nil {
				return writeErr(cmd, err)
			}
			return runEdit(cmd, app, func(sess *session.Session) (any, []string, error) {
				if err := sess.MoveRange(idx, to); err != nil {
					return nil, nil, err
				}
				lines := sess.Lines()
				res := moveResult{From: idx, To: to, Lines: []listedLine{}}
				for i, l := range lines {
					res.Lines = append(res.Lines, listedLine{Index: i, Line: l})
				}
				return res, nil, nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Comma-separated line indices to move")
	cmd.Flags().IntVar(&to, "to", 0, "Target position")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
