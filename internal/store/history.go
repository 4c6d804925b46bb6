package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

const historyFileName = "history.db"

// Revision is one saved version of a hosts source.
type Revision struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	SHA256    string    `json:"sha256"`
	Bytes     int       `json:"bytes"`
	Lines     int       `json:"lines"`
	CreatedAt time.Time `json:"createdAt"`
	// Content is only populated by Get.
	Content string `json:"content,omitempty"`
}

// History is the SQLite revision log.
type History struct {
	db  *sql.DB
	now func() time.Time
}

func (s Store) historyPath() string {
	return filepath.Join(s.Dir, historyFileName)
}

// OpenHistory opens (creating if needed) the revision log in s.Dir.
func (s Store) OpenHistory(ctx context.Context) (*History, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.historyPath())
	if err != nil {
		return nil, err
	}
	// WAL lets the CLI read while the TUI or web server writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateHistory(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &History{db: db, now: time.Now}, nil
}

func migrateHistory(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS revisions (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			sha256 TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			content TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_revisions_source ON revisions(source, seq);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

func contentDigest(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(content, "\n"), "\n") + 1
}

// Record stores content as the newest revision of source. When the latest
// revision of source already has the same content, that revision is
// returned and created is false.
func (h *History) Record(ctx context.Context, source, content string) (rev Revision, created bool, err error) {
	digest := contentDigest(content)

	latest, err := h.latest(ctx, source)
	if err != nil && !errors.As(err, new(NotFoundError)) {
		return Revision{}, false, err
	}
	if err == nil && latest.SHA256 == digest {
		return latest, false, nil
	}

	rev = Revision{
		ID:        uuid.NewString(),
		Source:    source,
		SHA256:    digest,
		Bytes:     len(content),
		Lines:     countLines(content),
		CreatedAt: h.now().UTC().Truncate(time.Millisecond),
	}
	_, err = h.db.ExecContext(ctx,
		`INSERT INTO revisions(id, source, sha256, bytes, lines, content, created_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		rev.ID, rev.Source, rev.SHA256, rev.Bytes, rev.Lines, content, rev.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Revision{}, false, err
	}
	log.Debug().Str("source", source).Str("revision", rev.ID).Int("bytes", rev.Bytes).Msg("revision recorded")
	return rev, true, nil
}

const revisionColumns = `id, source, sha256, bytes, lines, created_at_unixms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRevision(r rowScanner, withContent bool) (Revision, error) {
	var (
		rev  Revision
		atMs int64
	)
	dest := []any{&rev.ID, &rev.Source, &rev.SHA256, &rev.Bytes, &rev.Lines, &atMs}
	if withContent {
		dest = append(dest, &rev.Content)
	}
	if err := r.Scan(dest...); err != nil {
		return Revision{}, err
	}
	rev.CreatedAt = time.UnixMilli(atMs).UTC()
	return rev, nil
}

func (h *History) latest(ctx context.Context, source string) (Revision, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT `+revisionColumns+` FROM revisions WHERE source = ? ORDER BY seq DESC LIMIT 1`, source)
	rev, err := scanRevision(row, false)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, NotFoundError{Kind: "revision", ID: source}
	}
	return rev, err
}

// List returns revisions newest first, without content. An empty source
// lists every source; limit <= 0 means all.
func (h *History) List(ctx context.Context, source string, limit int) ([]Revision, error) {
	q := `SELECT ` + revisionColumns + ` FROM revisions`
	var args []any
	if source != "" {
		q += ` WHERE source = ?`
		args = append(args, source)
	}
	q += ` ORDER BY seq DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := h.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Revision{}
	for rows.Next() {
		rev, err := scanRevision(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Get returns one revision including its content. id may be a unique prefix.
func (h *History) Get(ctx context.Context, id string) (Revision, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Revision{}, NotFoundError{Kind: "revision", ID: id}
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT `+revisionColumns+`, content FROM revisions WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY seq DESC LIMIT 10`,
		id, escapeLike(id)+"%")
	if err != nil {
		return Revision{}, err
	}
	defer rows.Close()

	var matches []Revision
	for rows.Next() {
		rev, err := scanRevision(rows, true)
		if err != nil {
			return Revision{}, err
		}
		if rev.ID == id {
			return rev, nil
		}
		matches = append(matches, rev)
	}
	if err := rows.Err(); err != nil {
		return Revision{}, err
	}
	switch len(matches) {
	case 0:
		return Revision{}, NotFoundError{Kind: "revision", ID: id}
	case 1:
		return matches[0], nil
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return Revision{}, AmbiguousIDError{Kind: "revision", Prefix: id, Matches: ids}
}

// Prune keeps the newest keep revisions of source and deletes the rest.
func (h *History) Prune(ctx context.Context, source string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := h.db.ExecContext(ctx,
		`DELETE FROM revisions WHERE source = ? AND seq NOT IN (
			SELECT seq FROM revisions WHERE source = ? ORDER BY seq DESC LIMIT ?
		)`, source, source, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
