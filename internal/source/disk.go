package source

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"
)

// Disk reads and writes a hosts file directly. Writes replace the file
// atomically (temp file in the same directory, then rename).
type Disk struct {
	Path string
}

func (d Disk) Describe() string { return d.Path }

func (d Disk) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", unavailable("read", d, err)
	}
	b, err := os.ReadFile(d.Path)
	if err != nil {
		return "", unavailable("read", d, err)
	}
	log.Debug().Str("source", d.Describe()).Int("bytes", len(b)).Msg("hosts read")
	return string(b), nil
}

func (d Disk) Write(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return unavailable("write", d, err)
	}
	_, statErr := os.Stat(d.Path)
	created := errors.Is(statErr, os.ErrNotExist)

	if err := atomic.WriteFile(d.Path, strings.NewReader(content)); err != nil {
		return unavailable("write", d, err)
	}
	// atomic.WriteFile keeps the mode of an existing file but leaves new
	// files at the temp file's 0600.
	if created {
		if err := os.Chmod(d.Path, 0o644); err != nil {
			return unavailable("write", d, err)
		}
	}
	log.Debug().Str("source", d.Describe()).Int("bytes", len(content)).Msg("hosts written")
	return nil
}
