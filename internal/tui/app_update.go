package tui

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"hosts-editor/internal/hostsfile"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.textarea.SetWidth(max(20, min(msg.Width-8, 100)))
		m.textarea.SetHeight(max(3, msg.Height/3))
		return m, nil

	case reloadTickMsg:
		if m.sess.Revision() != m.lastRev {
			m.refresh()
		}
		if m.minibufferText != "" && !m.minibufferError && time.Since(m.minibufferSetAt) > minibufferAutoClearAfter {
			m.minibufferText = ""
		}
		return m, tickReload()

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.showError(msg.err.Error())
			return m, nil
		}
		sel := m.selectedIndex()
		if m.pendingSelect >= 0 {
			sel = m.pendingSelect
			m.pendingSelect = -1
		}
		m.marked = map[int]bool{}
		m.sync(sel)
		m.showMinibuffer(fmt.Sprintf("Loaded %s", m.sess.Source().Describe()))
		return m, nil

	case authorizedMsg:
		if msg.err != nil {
			m.saving = false
			m.showError("Authorization failed: " + msg.err.Error())
			return m, nil
		}
		m.showMinibuffer("Saving…")
		return m, m.saveCmd()

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.showError(msg.err.Error())
			return m, nil
		}
		m.refresh()
		m.showMinibuffer("Saved " + m.sess.Source().Describe())
		return m, nil

	case externalEditorDoneMsg:
		m.applyExternalEditorResult(msg)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeEditMapping:
			return m.updateEditMapping(msg)
		case modeEditNote:
			return m.updateEditNote(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeHelp:
			m.mode = modeBrowse
			return m, nil
		default:
			return m.updateBrowse(msg)
		}
	}

	// Cursor blink and other input plumbing.
	var cmd tea.Cmd
	switch m.mode {
	case modeFilter:
		m.filterInputs[m.filterFocus], cmd = m.filterInputs[m.filterFocus].Update(msg)
	case modeEditMapping:
		m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	case modeEditNote:
		m.textarea, cmd = m.textarea.Update(msg)
	}
	return m, cmd
}

// sync takes a fresh snapshot and selects line sel.
func (m *appModel) sync(sel int) {
	m.lines = m.sess.Lines()
	m.lastRev = m.sess.Revision()
	m.applyFilter(sel)
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.sess.Dirty() && m.opts.ConfirmQuit {
			m.openConfirm(confirmQuit, "Quit without saving?", "There are unsaved changes.", "Quit", "Cancel")
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.clampCursor()
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.visible) - 1
		m.clampCursor()

	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelection()

	case key.Matches(msg, m.keys.Edit):
		return m.openEditor(m.selectedIndex(), false)

	case key.Matches(msg, m.keys.EditAll):
		cmd, err := m.openExternalEditor(editorTargetDocument)
		if err != nil {
			m.showError("Editor failed: " + err.Error())
			return m, nil
		}
		return m, cmd

	case key.Matches(msg, m.keys.AddEntry):
		if !m.filter.IsZero() {
			m.clearFilter()
		}
		i := m.sess.InsertMapping()
		m.sync(i)
		return m.openEditor(i, true)

	case key.Matches(msg, m.keys.AddNote):
		i := m.sess.InsertNote()
		m.sync(i)
		return m.openEditor(i, true)

	case key.Matches(msg, m.keys.Delete):
		sel := m.selection()
		if len(sel) == 0 {
			return m, nil
		}
		body := hostsfile.RenderLine(m.lines[sel[0]])
		if len(sel) > 1 {
			body = fmt.Sprintf("%d marked lines", len(sel))
		}
		m.openConfirm(confirmDelete, "Delete?", body, "Delete", "Cancel")

	case key.Matches(msg, m.keys.Mark):
		if i := m.selectedIndex(); i >= 0 {
			if m.marked[i] {
				delete(m.marked, i)
			} else {
				m.marked[i] = true
			}
			m.cursor++
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.MoveUp):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.MoveDown):
		m.moveSelection(1)

	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		return m, m.filterInputs[m.filterFocus].Focus()

	case key.Matches(msg, m.keys.Save):
		if !m.sess.Dirty() {
			m.showMinibuffer("No changes to save")
			return m, nil
		}
		return m, m.startSave()

	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			m.showError("busy: load in progress")
			return m, nil
		}
		if m.sess.Dirty() {
			m.openConfirm(confirmReload, "Reload?", "Unsaved changes will be lost.", "Reload", "Cancel")
			return m, nil
		}
		m.showMinibuffer("Reloading…")
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.Copy):
		m.copySelection()

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp

	case msg.String() == "esc":
		if len(m.marked) > 0 {
			m.marked = map[int]bool{}
		} else if !m.filter.IsZero() {
			m.clearFilter()
		}
	}
	return m, nil
}

func (m *appModel) toggleSelection() {
	sel := m.selection()
	toggled, skipped := 0, 0
	var last hostsfile.Mapping
	for _, i := range sel {
		if hostsfile.KindOf(m.lines[i]) != hostsfile.KindMapping {
			skipped++
			continue
		}
		if err := m.sess.Toggle(i); err != nil {
			m.showError(err.Error())
			return
		}
		toggled++
		if l, err := m.sess.At(i); err == nil {
			last, _ = l.(hostsfile.Mapping)
		}
	}
	m.sync(m.selectedIndex())
	switch {
	case toggled == 0 && skipped > 0:
		m.showMinibuffer("Comments cannot be enabled or disabled")
	case toggled == 1:
		state := "Disabled"
		if last.Active {
			state = "Enabled"
		}
		m.showMinibuffer(fmt.Sprintf("%s %s", state, last.Hostname))
	case toggled > 1:
		m.showMinibuffer(fmt.Sprintf("Toggled %d entries", toggled))
	}
}

func (m *appModel) moveSelection(delta int) {
	from := m.selection()
	if len(from) == 0 {
		return
	}
	moved, err := m.sess.ShiftVisible(m.visible, from, delta)
	if err != nil {
		m.showError(err.Error())
		return
	}
	if slices.Equal(moved, from) {
		if delta < 0 {
			m.showMinibuffer("Already at the top")
		} else {
			m.showMinibuffer("Already at the bottom")
		}
		return
	}
	if len(m.marked) > 0 {
		m.marked = map[int]bool{}
		for _, i := range moved {
			m.marked[i] = true
		}
	}
	target := moved[0]
	if delta > 0 {
		target = moved[len(moved)-1]
	}
	m.sync(target)
}

func (m *appModel) deleteSelection() {
	sel := m.selection()
	sort.Sort(sort.Reverse(sort.IntSlice(sel)))
	for _, i := range sel {
		if err := m.sess.DeleteAt(i); err != nil {
			m.showError(err.Error())
			break
		}
	}
	m.marked = map[int]bool{}
	if len(sel) > 0 {
		m.sync(sel[len(sel)-1])
	}
	m.showMinibuffer(fmt.Sprintf("Deleted %d line(s)", len(sel)))
}

func (m *appModel) copySelection() {
	sel := m.selection()
	if len(sel) == 0 {
		return
	}
	parts := make([]string, 0, len(sel))
	for _, i := range sel {
		parts = append(parts, hostsfile.RenderLine(m.lines[i]))
	}
	if err := writeClipboard(strings.Join(parts, "\n")); err != nil {
		m.showError("Copy failed: " + err.Error())
		return
	}
	m.showMinibuffer(fmt.Sprintf("Copied %d line(s)", len(sel)))
}

func (m *appModel) currentQuery() hostsfile.Query {
	return hostsfile.Query{
		Address:  m.filterInputs[filterAddress].Value(),
		Hostname: m.filterInputs[filterHostname].Value(),
		Comment:  m.filterInputs[filterComment].Value(),
	}
}

func (m *appModel) clearFilter() {
	sel := m.selectedIndex()
	for i := range m.filterInputs {
		m.filterInputs[i].SetValue("")
	}
	m.filter = hostsfile.Query{}
	m.applyFilter(sel)
}

func (m appModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterInputs[m.filterFocus].Blur()
		m.clearFilter()
		m.mode = modeBrowse
		return m, nil
	case "enter":
		m.filterInputs[m.filterFocus].Blur()
		m.mode = modeBrowse
		return m, nil
	case "tab", "shift+tab":
		m.filterInputs[m.filterFocus].Blur()
		if msg.String() == "tab" {
			m.filterFocus = (m.filterFocus + 1) % filterCount
		} else {
			m.filterFocus = (m.filterFocus + filterCount - 1) % filterCount
		}
		return m, m.filterInputs[m.filterFocus].Focus()
	}

	sel := m.selectedIndex()
	var cmd tea.Cmd
	m.filterInputs[m.filterFocus], cmd = m.filterInputs[m.filterFocus].Update(msg)
	m.filter = m.currentQuery()
	m.applyFilter(sel)
	return m, cmd
}
