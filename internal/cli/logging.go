package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "warn", "warning":
		return zerolog.WarnLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q (expected debug|info|warn|error)", level)
}

// setupLogging points the global logger at w in console format.
func setupLogging(w io.Writer, level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()
	return nil
}

// setupTUILogging keeps log output off the terminal while the TUI owns it:
// logs go to HOSTS_EDITOR_LOG when set and are dropped otherwise. The
// returned func closes the log file.
func setupTUILogging(level string) (func(), error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	path := strings.TrimSpace(os.Getenv("HOSTS_EDITOR_LOG"))
	if path == "" {
		log.Logger = zerolog.Nop()
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { _ = f.Close() }, nil
}
