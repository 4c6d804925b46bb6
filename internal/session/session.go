// Package session ties a hostsfile.Document to the Source it was loaded from.
//
// Edits are applied synchronously under the session lock. Load and Save are
// single-flight: a second Load while one is running (or a second Save while
// one is running) returns ErrBusy instead of queueing. An edit made while a
// save is in flight is kept and leaves the session dirty.
package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"hosts-editor/internal/hostsfile"
	"hosts-editor/internal/source"
	"hosts-editor/internal/store"
)

// ErrBusy is returned when a load or save is already in progress.
var ErrBusy = errors.New("busy: a load or save is already in progress")

// Recorder persists saved revisions.
type Recorder interface {
	Record(ctx context.Context, source, content string) (store.Revision, bool, error)
}

// Pruner optionally trims old revisions after a save.
type Pruner interface {
	Prune(ctx context.Context, source string, keep int) (int64, error)
}

type Options struct {
	// History records each successful save (nil disables).
	History Recorder
	// HistoryKeep prunes older revisions after a save when History is also
	// a Pruner; 0 keeps all.
	HistoryKeep int
}

type Session struct {
	src  source.Source
	opts Options

	mu      sync.Mutex
	doc     *hostsfile.Document
	loaded  bool
	dirty   bool
	rev     uint64
	changed chan struct{}

	loading bool
	saving  bool
}

func New(src source.Source, opts Options) *Session {
	return &Session{
		src:     src,
		opts:    opts,
		doc:     hostsfile.NewDocument(nil),
		changed: make(chan struct{}),
	}
}

func (s *Session) Source() source.Source { return s.src }

// notifyLocked bumps the revision and wakes Changed waiters. s.mu must be held.
func (s *Session) notifyLocked() {
	s.rev++
	close(s.changed)
	s.changed = make(chan struct{})
}

// Changed returns a channel that is closed on the next change to the lines,
// the dirty flag, or the loaded state.
func (s *Session) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// Revision increases on every change; see Changed.
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// Load reads the source and replaces the document. Unsaved edits are
// discarded; callers confirm with the user first.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loading = true
	s.mu.Unlock()

	text, err := s.src.Read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		log.Warn().Err(err).Str("source", s.src.Describe()).Msg("load failed")
		return err
	}
	s.doc.Reset(hostsfile.Parse(text))
	s.loaded = true
	s.dirty = false
	s.notifyLocked()
	log.Info().Str("source", s.src.Describe()).Int("bytes", len(text)).Int("lines", s.doc.Len()).Msg("hosts loaded")
	return nil
}

// Save serializes the document and writes it to the source. On failure the
// document and the dirty flag are left as they were.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return ErrBusy
	}
	s.saving = true
	text := s.doc.Text()
	startRev := s.rev
	s.mu.Unlock()

	err := s.src.Write(ctx, text)

	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.mu.Unlock()
		log.Warn().Err(err).Str("source", s.src.Describe()).Msg("save failed")
		return err
	}
	// Edits made while the write was in flight are not on disk yet.
	if s.rev == startRev {
		s.dirty = false
		s.notifyLocked()
	}
	s.mu.Unlock()
	log.Info().Str("source", s.src.Describe()).Int("bytes", len(text)).Msg("hosts saved")

	s.record(ctx, text)
	return nil
}

func (s *Session) record(ctx context.Context, text string) {
	if s.opts.History == nil {
		return
	}
	rev, created, err := s.opts.History.Record(ctx, s.src.Describe(), text)
	if err != nil {
		log.Warn().Err(err).Str("source", s.src.Describe()).Msg("history record failed")
		return
	}
	if !created {
		return
	}
	log.Debug().Str("revision", rev.ID).Str("source", s.src.Describe()).Msg("revision saved")
	if p, ok := s.opts.History.(Pruner); ok && s.opts.HistoryKeep > 0 {
		if _, err := p.Prune(ctx, s.src.Describe(), s.opts.HistoryKeep); err != nil {
			log.Warn().Err(err).Msg("history prune failed")
		}
	}
}

// Busy reports whether a load or save is running.
func (s *Session) Busy() (loading, saving bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading, s.saving
}

func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Dirty reports unsaved edits.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Text()
}

// Lines returns a snapshot of the current sequence.
func (s *Session) Lines() []hostsfile.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Lines()
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Len()
}

func (s *Session) At(i int) (hostsfile.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.At(i)
}

// Visible is VisibleIndices over the current sequence.
func (s *Session) Visible(q hostsfile.Query) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hostsfile.VisibleIndices(s.doc.Lines(), q)
}

// errUnchanged lets an edit report success without touching the document.
var errUnchanged = errors.New("unchanged")

// edit applies fn and marks the session dirty when fn succeeds.
func (s *Session) edit(fn func(d *hostsfile.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.doc); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	s.dirty = true
	s.notifyLocked()
	return nil
}

func (s *Session) InsertMapping() int {
	var i int
	_ = s.edit(func(d *hostsfile.Document) error { i = d.InsertMapping(); return nil })
	return i
}

func (s *Session) InsertNote() int {
	var i int
	_ = s.edit(func(d *hostsfile.Document) error { i = d.InsertNote(); return nil })
	return i
}

func (s *Session) Append(l hostsfile.Line) int {
	var i int
	_ = s.edit(func(d *hostsfile.Document) error { i = d.Append(l); return nil })
	return i
}

func (s *Session) Replace(i int, l hostsfile.Line) error {
	return s.edit(func(d *hostsfile.Document) error { return d.Replace(i, l) })
}

func (s *Session) UpdateField(i int, f hostsfile.Field, value string) error {
	return s.edit(func(d *hostsfile.Document) error { return d.UpdateField(i, f, value) })
}

func (s *Session) SetActive(i int, active bool) error {
	return s.edit(func(d *hostsfile.Document) error { return d.SetActive(i, active) })
}

func (s *Session) Toggle(i int) error {
	return s.edit(func(d *hostsfile.Document) error { return d.Toggle(i) })
}

func (s *Session) DeleteAt(i int) error {
	return s.edit(func(d *hostsfile.Document) error { return d.DeleteAt(i) })
}

func (s *Session) MoveRange(from []int, to int) error {
	return s.edit(func(d *hostsfile.Document) error { return d.MoveRange(from, to) })
}

// ShiftVisible moves from one visible step and returns the new indices.
func (s *Session) ShiftVisible(visible, from []int, delta int) ([]int, error) {
	var moved []int
	err := s.edit(func(d *hostsfile.Document) error {
		var err error
		moved, err = d.ShiftVisible(visible, from, delta)
		if err != nil {
			return err
		}
		sorted := slices.Clone(from)
		slices.Sort(sorted)
		if slices.Equal(moved, slices.Compact(sorted)) {
			return errUnchanged
		}
		return nil
	})
	return moved, err
}

// ReplaceText parses text and replaces the whole document, e.g. after an
// external editor run or a history restore.
func (s *Session) ReplaceText(text string) {
	_ = s.edit(func(d *hostsfile.Document) error { d.Reset(hostsfile.Parse(text)); return nil })
}
