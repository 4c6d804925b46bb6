package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
)

// Elevation methods for Privileged.
const (
	ElevateSudo      = "sudo"
	ElevatePkexec    = "pkexec"
	ElevateOsascript = "osascript"
	ElevateNone      = "none"
)

// DefaultElevation picks the elevation method for the running platform.
func DefaultElevation() string {
	switch runtime.GOOS {
	case "darwin":
		return ElevateOsascript
	case "windows":
		return ElevateNone
	default:
		return ElevateSudo
	}
}

// CommandRunner runs an external command to completion.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Privileged reads the hosts file directly and writes it through an elevated
// copy: the new text goes to a temp file, which is then copied over the
// target by sudo, pkexec, or an administrator-privileged osascript. When the
// target is already writable the copy is skipped and the file is replaced
// directly.
type Privileged struct {
	Path   string
	Method string
	// NonInteractive makes sudo fail instead of prompting (sudo -n). The TUI
	// sets it and refreshes credentials up front, see AuthorizeCommand.
	NonInteractive bool
	// Run executes the elevation command; nil means os/exec.
	Run CommandRunner
}

func (p Privileged) method() string {
	if m := strings.TrimSpace(p.Method); m != "" {
		return m
	}
	return DefaultElevation()
}

func (p Privileged) Describe() string {
	return fmt.Sprintf("%s (%s)", p.Path, p.method())
}

func (p Privileged) Read(ctx context.Context) (string, error) {
	s, err := Disk{Path: p.Path}.Read(ctx)
	if err != nil {
		return "", unavailable("read", p, errors.Unwrap(err))
	}
	return s, nil
}

func (p Privileged) Write(ctx context.Context, content string) error {
	if !NeedsElevation(p.Path) || p.method() == ElevateNone {
		if err := (Disk{Path: p.Path}).Write(ctx, content); err != nil {
			return unavailable("write", p, errors.Unwrap(err))
		}
		return nil
	}

	tmp, err := os.CreateTemp("", "hosts-editor-*.tmp")
	if err != nil {
		return unavailable("write", p, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return unavailable("write", p, err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("write", p, err)
	}
	// The elevated copy runs as another user; let it read the temp file.
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return unavailable("write", p, err)
	}

	name, args, err := p.copyCommand(tmpPath)
	if err != nil {
		return unavailable("write", p, err)
	}
	run := p.Run
	if run == nil {
		run = execRunner
	}
	log.Info().Str("source", p.Describe()).Str("cmd", name).Msg("elevated hosts copy")
	if err := run(ctx, name, args...); err != nil {
		return unavailable("write", p, err)
	}
	return nil
}

func (p Privileged) copyCommand(tmpPath string) (string, []string, error) {
	switch p.method() {
	case ElevateSudo:
		if p.NonInteractive {
			return "sudo", []string{"-n", "cp", tmpPath, p.Path}, nil
		}
		return "sudo", []string{"cp", tmpPath, p.Path}, nil
	case ElevatePkexec:
		return "pkexec", []string{"cp", tmpPath, p.Path}, nil
	case ElevateOsascript:
		script := fmt.Sprintf("do shell script \"cp %s %s\" with administrator privileges",
			shellQuote(tmpPath), shellQuote(p.Path))
		return "osascript", []string{"-e", script}, nil
	default:
		return "", nil, fmt.Errorf("unknown elevation method %q (expected sudo|pkexec|osascript|none)", p.method())
	}
}

// AuthorizeCommand returns a command that caches elevation credentials
// before a non-interactive write, or nil when no up-front step is needed.
func (p Privileged) AuthorizeCommand() *exec.Cmd {
	if p.method() != ElevateSudo || !NeedsElevation(p.Path) {
		return nil
	}
	return exec.Command("sudo", "-v")
}

// shellQuote single-quotes s for /bin/sh, escaped for embedding in an
// AppleScript string literal.
func shellQuote(s string) string {
	q := "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	return strings.ReplaceAll(strings.ReplaceAll(q, `\`, `\\`), `"`, `\"`)
}
