package cli

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hosts-editor/internal/store"
)

type backupResult struct {
	Source string `json:"source"`
	Path   string `json:"path"`
	Bytes  int    `json:"bytes"`
}

type backupList struct {
	Dir     string   `json:"dir"`
	Backups []string `json:"backups"`
}

func (b backupList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(b.Backups))
	for _, p := range b.Backups {
		rows = append(rows, []string{filepath.Base(p), p})
	}
	return []string{"NAME", "PATH"}, rows
}

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the current hosts text to a timestamped backup file",
		Long: strings.TrimSpace(`
Copy the hosts text, exactly as the source returns it, to
<backup dir>/hosts.bak.<YYYYMMDD-HHMMSS>.

The backup directory is "backupDir" from the config file, or
~/.config/hosts-editor/backups.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.openSource()
			if err != nil {
				return writeErr(cmd, err)
			}
			content, err := src.Read(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.WriteBackup(app.backupDir(), content, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, backupResult{Source: src.Describe(), Path: path, Bytes: len(content)})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List backup files, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.backupDir()
			paths, err := store.ListBackups(dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			if paths == nil {
				paths = []string{}
			}
			return writeOut(cmd, app, backupList{Dir: dir, Backups: paths})
		},
	})
	return cmd
}

func (app *App) backupDir() string {
	return app.st.BackupDir(app.cfg.BackupDir)
}
