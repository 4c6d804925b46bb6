package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

type editorTarget int

const (
	editorTargetDocument editorTarget = iota + 1
	editorTargetNote
)

type externalEditorDoneMsg struct {
	err error
}

func externalEditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// openExternalEditor hands the whole hosts text (or the note being edited)
// to $VISUAL/$EDITOR and suspends the TUI until it exits.
func (m *appModel) openExternalEditor(target editorTarget) (tea.Cmd, error) {
	args := splitShellWords(externalEditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	before := m.sess.Text()
	if target == editorTargetNote {
		before = m.textarea.Value()
	}

	f, err := os.CreateTemp("", "hosts-editor-*.hosts")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if _, err := f.WriteString(before); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	_ = f.Close()

	m.externalEditorPath = path
	m.externalEditorBefore = before
	m.externalEditorTarget = target

	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditorDoneMsg{err: err}
	}), nil
}

func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) {
	path := m.externalEditorPath
	before := m.externalEditorBefore
	target := m.externalEditorTarget

	m.externalEditorPath = ""
	m.externalEditorBefore = ""
	m.externalEditorTarget = 0
	defer func() { _ = os.Remove(path) }()

	if strings.TrimSpace(path) == "" {
		return
	}
	if msg.err != nil {
		m.showError("Editor failed: " + msg.err.Error())
		return
	}
	b, err := os.ReadFile(path)
	if err != nil {
		m.showError("Editor read failed: " + err.Error())
		return
	}
	after := string(b)

	if target == editorTargetNote {
		m.textarea.SetValue(strings.TrimRight(after, "\n"))
	}
	if strings.TrimSpace(after) == strings.TrimSpace(before) {
		m.showMinibuffer(fmt.Sprintf("No changes from %s", externalEditorName()))
		return
	}
	if target == editorTargetDocument {
		m.sess.ReplaceText(after)
		m.marked = map[int]bool{}
		m.sync(m.selectedIndex())
	}
	m.showMinibuffer(fmt.Sprintf("Updated from %s (ctrl+s to save)", externalEditorName()))
}

// splitShellWords splits an editor command like `code --wait` into argv.
// Single quotes are literal, double quotes group, and a backslash outside
// single quotes escapes the next rune.
func splitShellWords(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote, inWord = r, true
		case unicode.IsSpace(r):
			if inWord {
				out = append(out, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		out = append(out, cur.String())
	}
	return out
}
