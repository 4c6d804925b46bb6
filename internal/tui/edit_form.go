package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"hosts-editor/internal/hostsfile"
)

// openEditor opens the field form for a mapping or the textarea for a note.
// isNew marks a line that was just inserted; cancelling removes it again.
func (m appModel) openEditor(i int, isNew bool) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.lines) {
		return m, nil
	}
	m.editIndex = i
	m.editIsNew = isNew

	switch l := m.lines[i].(type) {
	case hostsfile.Mapping:
		m.editInputs[fieldAddress].SetValue(l.Address)
		m.editInputs[fieldHostname].SetValue(l.Hostname)
		m.editInputs[fieldComment].SetValue(l.CommentText())
		for f := range m.editInputs {
			m.editInputs[f].Blur()
		}
		m.editFocus = fieldAddress
		m.mode = modeEditMapping
		return m, m.editInputs[m.editFocus].Focus()
	case hostsfile.Note:
		m.textarea.SetValue(l.Text)
		m.mode = modeEditNote
		return m, m.textarea.Focus()
	}
	return m, nil
}

func (m *appModel) cancelEdit() {
	sel := m.editIndex
	if m.editIsNew {
		_ = m.sess.DeleteAt(m.editIndex)
		sel--
	}
	m.editIsNew = false
	m.mode = modeBrowse
	m.sync(sel)
}

func (m appModel) updateEditMapping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.editInputs[m.editFocus].Blur()
		m.cancelEdit()
		return m, nil
	case "tab", "down", "shift+tab", "up":
		m.editInputs[m.editFocus].Blur()
		if s := msg.String(); s == "tab" || s == "down" {
			m.editFocus = (m.editFocus + 1) % fieldCount
		} else {
			m.editFocus = (m.editFocus + fieldCount - 1) % fieldCount
		}
		return m, m.editInputs[m.editFocus].Focus()
	case "enter", "ctrl+s":
		m.applyMappingEdit()
		return m, nil
	}
	var cmd tea.Cmd
	m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	return m, cmd
}

// mappingFieldProblem reports why a form value would not read back as the
// same mapping, or "".
func mappingFieldProblem(name, v string) string {
	switch {
	case v == "":
		return name + " is required"
	case strings.ContainsAny(v, " \t"):
		return name + " must not contain spaces"
	case strings.Contains(v, "#"):
		return name + " must not contain '#'"
	}
	return ""
}

func (m *appModel) applyMappingEdit() {
	addr := strings.TrimSpace(m.editInputs[fieldAddress].Value())
	host := strings.TrimSpace(m.editInputs[fieldHostname].Value())
	comment := strings.TrimSpace(m.editInputs[fieldComment].Value())

	for _, p := range []string{mappingFieldProblem("Address", addr), mappingFieldProblem("Hostname", host)} {
		if p != "" {
			m.showError(p)
			return
		}
	}

	active := true
	if cur, ok := m.lines[m.editIndex].(hostsfile.Mapping); ok {
		active = cur.Active
	}
	nm := hostsfile.Mapping{Address: addr, Hostname: host, Active: active}
	if comment != "" {
		nm = nm.WithComment(comment)
	}
	if err := m.sess.Replace(m.editIndex, nm); err != nil {
		m.showError(err.Error())
		return
	}

	m.editInputs[m.editFocus].Blur()
	m.editIsNew = false
	m.mode = modeBrowse
	m.sync(m.editIndex)
	if !hostsfile.LooksLikeAddress(addr) {
		m.showError(fmt.Sprintf("%q does not look like an IP address; it will be read back as a comment", addr))
		return
	}
	m.showMinibuffer(fmt.Sprintf("Updated %s", host))
}

func (m appModel) updateEditNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.textarea.Blur()
		m.cancelEdit()
		return m, nil
	case "ctrl+s":
		m.applyNoteEdit()
		return m, nil
	case "ctrl+e":
		cmd, err := m.openExternalEditor(editorTargetNote)
		if err != nil {
			m.showError("Editor failed: " + err.Error())
			return m, nil
		}
		return m, cmd
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *appModel) applyNoteEdit() {
	text := strings.TrimRight(m.textarea.Value(), "\n")
	if err := m.sess.Replace(m.editIndex, hostsfile.Note{Text: text}); err != nil {
		m.showError(err.Error())
		return
	}
	m.textarea.Blur()
	m.editIsNew = false
	m.mode = modeBrowse
	m.sync(m.editIndex)

	if got := hostsfile.Parse(text); len(got) != 1 || hostsfile.KindOf(got[0]) != hostsfile.KindNote {
		m.showError(fmt.Sprintf("Comment will be read back as %d line(s) after saving", len(got)))
		return
	}
	m.showMinibuffer("Comment updated")
}
