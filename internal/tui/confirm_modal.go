package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmKind int

const (
	confirmDelete confirmKind = iota + 1
	confirmReload
	confirmQuit
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

type confirmState struct {
	kind         confirmKind
	title        string
	body         string
	confirmLabel string
	cancelLabel  string
	focus        confirmModalFocus
}

func (m *appModel) openConfirm(kind confirmKind, title, body, confirmLabel, cancelLabel string) {
	m.confirm = confirmState{
		kind:         kind,
		title:        title,
		body:         body,
		confirmLabel: confirmLabel,
		cancelLabel:  cancelLabel,
		focus:        confirmFocusCancel,
	}
	m.mode = modeConfirm
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirm.focus == confirmFocusConfirm {
			m.confirm.focus = confirmFocusCancel
		} else {
			m.confirm.focus = confirmFocusConfirm
		}
		return m, nil
	case "y", "Y":
		return m.acceptConfirm()
	case "enter":
		if m.confirm.focus == confirmFocusConfirm {
			return m.acceptConfirm()
		}
	case "ctrl+c":
		if m.confirm.kind == confirmQuit {
			return m, tea.Quit
		}
	case "n", "N", "esc", "ctrl+g", "q":
	default:
		return m, nil
	}
	m.confirm = confirmState{}
	m.mode = modeBrowse
	return m, nil
}

func (m appModel) acceptConfirm() (tea.Model, tea.Cmd) {
	kind := m.confirm.kind
	m.confirm = confirmState{}
	m.mode = modeBrowse
	switch kind {
	case confirmDelete:
		m.deleteSelection()
	case confirmReload:
		m.showMinibuffer("Reloading…")
		return m, m.loadCmd()
	case confirmQuit:
		return m, tea.Quit
	}
	return m, nil
}

func renderConfirmModal(width int, c confirmState) string {
	// No nested borders: some terminals show background artifacts when a
	// bordered component sits inside a modal with a background color.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorAccentFg).
		Background(colorAccent).
		Bold(true)

	confirm := btnBase.Render(c.confirmLabel)
	cancel := btnBase.Render(c.cancelLabel)
	if c.focus == confirmFocusConfirm {
		confirm = btnActive.Render(c.confirmLabel)
	} else {
		cancel = btnActive.Render(c.cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Render("y: yes   n/esc: no   tab: focus   enter: select")

	content := strings.Join([]string{
		lipgloss.NewStyle().Width(bodyW).Render(c.body),
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, c.title, content)
}

func modalBodyWidth(width int) int {
	w := width - 10
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderModalBox(width int, title, content string) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Width(modalBodyWidth(width) + 2).
		Render(header + "\n\n" + content)
}
