package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hosts-editor/internal/session"
	"hosts-editor/internal/source"
)

// editFunc applies one change to a loaded session and returns the command's
// output plus optional hints.
type editFunc func(sess *session.Session) (data any, hints []string, err error)

// runEdit loads the source, applies fn and saves the result.
func runEdit(cmd *cobra.Command, app *App, fn editFunc) error {
	ctx := cmd.Context()
	src, err := app.openSource()
	if err != nil {
		return writeErr(cmd, err)
	}
	sess, opts, closeFn := app.openSession(ctx, src)
	defer closeFn()

	if err := sess.Load(ctx); err != nil {
		return writeErr(cmd, err)
	}
	data, hints, err := fn(sess)
	if err != nil {
		return writeErr(cmd, err)
	}
	if sess.Dirty() {
		if err := app.save(cmd, sess, opts); err != nil {
			return writeErr(cmd, err)
		}
	}
	return writeOut(cmd, app, data, hints...)
}

// loadSession opens and loads the configured source for read-only commands.
func loadSession(cmd *cobra.Command, app *App) (*session.Session, func(), error) {
	src, err := app.openSource()
	if err != nil {
		return nil, nil, err
	}
	sess, _, closeFn := app.openSession(cmd.Context(), src)
	if err := sess.Load(cmd.Context()); err != nil {
		closeFn()
		return nil, nil, err
	}
	return sess, closeFn, nil
}

// save writes the session. When a plain disk write fails because the file
// needs elevated privileges, the user is offered a retry through the
// privileged source.
func (app *App) save(cmd *cobra.Command, sess *session.Session, opts session.Options) error {
	ctx := cmd.Context()
	err := sess.Save(ctx)
	if err == nil {
		return nil
	}
	disk, ok := sess.Source().(source.Disk)
	if !ok || !source.NeedsElevation(disk.Path) {
		return err
	}

	ok = app.Yes
	if !ok {
		var perr error
		ok, perr = app.confirm(cmd, fmt.Sprintf("%s is not writable. Retry with elevated privileges?", disk.Path))
		if perr != nil {
			return errors.Join(err, perr)
		}
	}
	if !ok {
		return fmt.Errorf("%w (re-run with --source privileged or --yes)", err)
	}

	priv := source.Privileged{Path: disk.Path, Method: app.elevation()}
	log.Info().Str("source", priv.Describe()).Msg("retrying save with elevation")
	retry := session.New(priv, opts)
	retry.ReplaceText(sess.Text())
	return retry.Save(ctx)
}
