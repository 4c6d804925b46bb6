package tui

import (
	"context"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"hosts-editor/internal/hostsfile"
	"hosts-editor/internal/session"
	"hosts-editor/internal/source"
	"hosts-editor/internal/store"
)

type mode int

const (
	modeBrowse mode = iota
	modeFilter
	modeEditMapping
	modeEditNote
	modeConfirm
	modeHelp
)

// Filter input order; tab cycles through them.
const (
	filterAddress = iota
	filterHostname
	filterComment
	filterCount
)

// Mapping form field order.
const (
	fieldAddress = iota
	fieldHostname
	fieldComment
	fieldCount
)

const minibufferAutoClearAfter = 5 * time.Second

type (
	reloadTickMsg struct{}
	loadedMsg     struct{ err error }
	savedMsg      struct{ err error }
	authorizedMsg struct{ err error }
)

// authorizer is implemented by sources that need an interactive step (e.g.
// a sudo password prompt) before a non-interactive write.
type authorizer interface {
	AuthorizeCommand() *exec.Cmd
}

type appModel struct {
	sess *session.Session
	opts Options

	width  int
	height int

	// Snapshot of the session at lastRev.
	lines   []hostsfile.Line
	lastRev uint64
	visible []int
	cursor  int // position in visible
	offset  int // first rendered position in visible
	marked  map[int]bool

	filter       hostsfile.Query
	filterInputs [filterCount]textinput.Model
	filterFocus  int

	mode mode

	editIndex  int
	editIsNew  bool
	editInputs [fieldCount]textinput.Model
	editFocus  int
	textarea   textarea.Model

	confirm confirmState

	keys keyMap
	help help.Model

	loading bool
	saving  bool
	// pendingSelect is a line index to select once the first load lands.
	pendingSelect int

	minibufferText  string
	minibufferSetAt time.Time
	minibufferError bool

	// externalEditorPath is the temp file used while $VISUAL/$EDITOR runs.
	externalEditorPath   string
	externalEditorBefore string
	externalEditorTarget editorTarget
}

func newAppModel(sess *session.Session, opts Options) appModel {
	m := appModel{
		sess:          sess,
		opts:          opts,
		marked:        map[int]bool{},
		keys:          defaultKeyMap(),
		help:          help.New(),
		pendingSelect: -1,
	}

	placeholders := [filterCount]string{"address", "hostname", "comment"}
	for i := range m.filterInputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 256
		m.filterInputs[i] = in
	}
	labels := [fieldCount]string{"127.0.0.1", "example.local", "optional comment"}
	for i := range m.editInputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = labels[i]
		in.CharLimit = 512
		m.editInputs[i] = in
	}
	m.textarea = textarea.New()
	m.textarea.ShowLineNumbers = false
	m.textarea.Prompt = ""

	m.restoreState()
	m.refresh()
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.sess.Loaded() {
		return tickReload()
	}
	return tea.Batch(m.loadCmd(), tickReload())
}

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m *appModel) loadCmd() tea.Cmd {
	m.loading = true
	sess := m.sess
	return func() tea.Msg {
		return loadedMsg{err: sess.Load(context.Background())}
	}
}

func (m *appModel) saveCmd() tea.Cmd {
	m.saving = true
	sess := m.sess
	return func() tea.Msg {
		return savedMsg{err: sess.Save(context.Background())}
	}
}

// startSave runs the source's authorization step first when it has one.
func (m *appModel) startSave() tea.Cmd {
	if loading, saving := m.sess.Busy(); loading || saving || m.saving {
		m.showError(session.ErrBusy.Error())
		return nil
	}
	if a, ok := m.sess.Source().(authorizer); ok {
		if cmd := a.AuthorizeCommand(); cmd != nil {
			m.saving = true
			m.showMinibuffer("Authorizing…")
			return tea.ExecProcess(cmd, func(err error) tea.Msg { return authorizedMsg{err: err} })
		}
	}
	m.showMinibuffer("Saving…")
	return m.saveCmd()
}

// refresh re-reads the session snapshot and recomputes the visible rows,
// keeping the cursor on the same line where possible.
func (m *appModel) refresh() {
	selected := m.selectedIndex()
	m.lines = m.sess.Lines()
	m.lastRev = m.sess.Revision()
	m.applyFilter(selected)
}

func (m *appModel) applyFilter(selected int) {
	m.visible = hostsfile.VisibleIndices(m.lines, m.filter)
	m.selectLine(selected)
	// Marks on rows the filter hides are dropped so edits only touch what
	// is on screen.
	shown := make(map[int]bool, len(m.visible))
	for _, i := range m.visible {
		shown[i] = true
	}
	for i := range m.marked {
		if !shown[i] {
			delete(m.marked, i)
		}
	}
}

// selectedIndex is the line index under the cursor, or -1.
func (m appModel) selectedIndex() int {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return -1
	}
	return m.visible[m.cursor]
}

// selectLine moves the cursor to line i, or to the nearest visible line
// before it when i is hidden.
func (m *appModel) selectLine(i int) {
	if len(m.visible) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	best := 0
	for pos, v := range m.visible {
		if v <= i {
			best = pos
		}
		if v == i {
			break
		}
	}
	m.cursor = best
	m.clampCursor()
}

func (m *appModel) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if len(m.visible) > 0 {
		m.offset = m.scrollOffset(m.bodyHeight())
	} else {
		m.offset = 0
	}
}

// selection returns the marked line indices, or the selected one.
func (m appModel) selection() []int {
	if len(m.marked) > 0 {
		out := make([]int, 0, len(m.marked))
		for i := range m.lines {
			if m.marked[i] {
				out = append(out, i)
			}
		}
		return out
	}
	if i := m.selectedIndex(); i >= 0 {
		return []int{i}
	}
	return nil
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferSetAt = time.Now()
	m.minibufferError = false
}

func (m *appModel) showError(text string) {
	m.showMinibuffer(text)
	m.minibufferError = true
	log.Debug().Str("status", text).Msg("tui error")
}

func (m *appModel) restoreState() {
	if m.opts.Store.Dir == "" {
		return
	}
	st, err := m.opts.Store.LoadTUIState()
	if err != nil || st.Source != m.sess.Source().Describe() {
		return
	}
	m.filter = st.Filter
	m.filterInputs[filterAddress].SetValue(st.Filter.Address)
	m.filterInputs[filterHostname].SetValue(st.Filter.Hostname)
	m.filterInputs[filterComment].SetValue(st.Filter.Comment)
	m.pendingSelect = st.Selected
}

func (m appModel) persistState() {
	if m.opts.Store.Dir == "" {
		return
	}
	sel := m.selectedIndex()
	if sel < 0 {
		sel = 0
	}
	st := &store.TUIState{
		Version:  1,
		Source:   m.sess.Source().Describe(),
		Filter:   m.filter,
		Selected: sel,
	}
	if err := m.opts.Store.SaveTUIState(st); err != nil {
		log.Warn().Err(err).Msg("save tui state")
	}
}

// Ensure privileged sources are usable from the TUI.
var _ authorizer = source.Privileged{}
