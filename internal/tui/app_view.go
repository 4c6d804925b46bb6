package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"hosts-editor/internal/hostsfile"
)

const (
	emptyFileText     = "(hosts file is empty)"
	emptyFilteredText = "(no lines match the filter)"
)

func (m appModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	header := m.viewHeader(width)
	filterBar := m.viewFilterBar(width)
	status := m.viewStatus(width)
	footer := styleMuted().Render(truncate(m.help.ShortHelpView(m.keys.ShortHelp()), width))

	bodyH := m.bodyHeight()

	var body string
	switch m.mode {
	case modeHelp:
		body = renderHelp(min(width-2, 100))
	case modeConfirm:
		body = lipgloss.Place(width, bodyH, lipgloss.Center, lipgloss.Center, renderConfirmModal(width, m.confirm))
	case modeEditMapping:
		body = lipgloss.Place(width, bodyH, lipgloss.Center, lipgloss.Center, m.viewMappingForm(width))
	case modeEditNote:
		body = lipgloss.Place(width, bodyH, lipgloss.Center, lipgloss.Center, m.viewNoteForm(width))
	default:
		body = m.viewRows(width, bodyH)
	}
	body = fitBlock(body, width, bodyH)

	return strings.Join([]string{header, filterBar, body, status, footer}, "\n")
}

func (m appModel) viewHeader(width int) string {
	title := styleHeader().Render("hosts-editor")
	src := styleChrome().Render(m.sess.Source().Describe())

	parts := []string{title, src}
	if m.sess.Dirty() {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorDirtyFg).Bold(true).Render("● unsaved"))
	}
	switch {
	case m.loading:
		parts = append(parts, styleMuted().Render("loading…"))
	case m.saving:
		parts = append(parts, styleMuted().Render("saving…"))
	}

	c := hostsfile.Stats(m.lines)
	stats := fmt.Sprintf("%d entries (%d on, %d off) · %d comments", c.Mappings, c.Active, c.Disabled, c.Notes)
	if len(m.marked) > 0 {
		stats += fmt.Sprintf(" · %d marked", len(m.marked))
	}
	parts = append(parts, styleMuted().Render(stats))
	return truncate(strings.Join(parts, "  "), width)
}

func (m appModel) viewFilterBar(width int) string {
	if m.mode != modeFilter && m.filter.IsZero() {
		return styleMuted().Render(truncate("/ to filter", width))
	}
	labels := [filterCount]string{"address", "hostname", "comment"}
	fieldW := max(10, (width-30)/filterCount)
	var cells []string
	for i := range m.filterInputs {
		in := m.filterInputs[i]
		in.Width = fieldW
		label := styleChrome().Render(labels[i] + ":")
		if m.mode == modeFilter && i == m.filterFocus {
			label = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(labels[i] + ":")
		}
		cells = append(cells, label+" "+in.View())
	}
	return truncate(strings.Join(cells, "  "), width)
}

func (m appModel) viewStatus(width int) string {
	if m.minibufferText == "" {
		return ""
	}
	st := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	if m.minibufferError {
		st = lipgloss.NewStyle().Foreground(colorErrorFg).Bold(true)
	}
	return st.Render(truncate(m.minibufferText, width))
}

// bodyHeight is the row area height: the terminal minus header, filter bar,
// status line and footer.
func (m appModel) bodyHeight() int {
	h := m.height
	if h <= 0 {
		h = 24
	}
	return max(3, h-4)
}

// rowColumns is the address/hostname column width across visible mappings.
func (m appModel) rowColumns() (addrW, hostW int) {
	addrW, hostW = len("address"), len("hostname")
	for _, i := range m.visible {
		if mp, ok := m.lines[i].(hostsfile.Mapping); ok {
			addrW = max(addrW, xansi.StringWidth(mp.Address))
			hostW = max(hostW, xansi.StringWidth(mp.Hostname))
		}
	}
	return min(addrW, 40), min(hostW, 48)
}

// rowHeight is the number of screen lines the row at visible position pos uses.
func (m appModel) rowHeight(pos int) int {
	if n, ok := m.lines[m.visible[pos]].(hostsfile.Note); ok {
		return max(1, strings.Count(n.Text, "\n")+1)
	}
	return 1
}

// scrollOffset returns the first visible position to render so that the
// cursor row fits in height lines.
func (m appModel) scrollOffset(height int) int {
	off := m.offset
	if off > m.cursor {
		off = m.cursor
	}
	for {
		used := 0
		for p := off; p <= m.cursor && p < len(m.visible); p++ {
			used += m.rowHeight(p)
		}
		if used <= height || off >= m.cursor {
			return off
		}
		off++
	}
}

func (m appModel) viewRows(width, height int) string {
	if len(m.lines) == 0 {
		if m.loading {
			return styleMuted().Render("loading…")
		}
		return styleMuted().Render(emptyFileText)
	}
	if len(m.visible) == 0 {
		return styleMuted().Render(emptyFilteredText)
	}

	addrW, hostW := m.rowColumns()
	off := m.scrollOffset(height)

	var out []string
	for p := off; p < len(m.visible) && len(out) < height; p++ {
		i := m.visible[p]
		rows := m.renderRow(i, p == m.cursor, addrW, hostW, width)
		out = append(out, rows...)
	}
	if len(out) > height {
		out = out[:height]
	}
	return strings.Join(out, "\n")
}

func (m appModel) renderRow(i int, selected bool, addrW, hostW, width int) []string {
	mark := "  "
	if m.marked[i] {
		mark = lipgloss.NewStyle().Foreground(colorMarkFg).Render("* ")
	}

	var rows []string
	switch l := m.lines[i].(type) {
	case hostsfile.Mapping:
		check := lipgloss.NewStyle().Foreground(colorActiveFg).Render("[x]")
		text := lipgloss.NewStyle().Foreground(colorSurfaceFg)
		if !l.Active {
			check = lipgloss.NewStyle().Foreground(colorDisabledFg).Render("[ ]")
			text = faintIfDark(lipgloss.NewStyle().Foreground(colorDisabledFg))
		}
		line := check + " " +
			text.Render(padRight(truncate(l.Address, addrW), addrW)) + "  " +
			text.Render(padRight(truncate(l.Hostname, hostW), hostW))
		if l.HasComment() {
			line += "  " + styleMuted().Render("# "+strings.TrimSpace(l.CommentText()))
		}
		rows = []string{mark + line}
	case hostsfile.Note:
		for k, t := range strings.Split(l.Text, "\n") {
			prefix := "  "
			if k == 0 {
				prefix = mark
			}
			rows = append(rows, prefix+styleMuted().Italic(true).Render(t))
		}
	}

	for k := range rows {
		rows[k] = fitWidth(rows[k], width)
		if selected {
			rows[k] = styleSelected().Render(xansi.Strip(rows[k]))
		}
	}
	return rows
}

func (m appModel) viewMappingForm(width int) string {
	bodyW := modalBodyWidth(width)
	labels := [fieldCount]string{"Address", "Hostname", "Comment"}
	var lines []string
	for f := range m.editInputs {
		in := m.editInputs[f]
		in.Width = bodyW - 4
		label := styleChrome().Render(labels[f])
		if f == m.editFocus {
			label = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(labels[f])
		}
		lines = append(lines, label, renderInputLine(bodyW, in.View()), "")
	}
	lines = append(lines, styleMuted().Render("tab: next field   enter: apply   esc: cancel"))
	title := "Edit entry"
	if m.editIsNew {
		title = "Add entry"
	}
	return renderModalBox(width, title, strings.Join(lines, "\n"))
}

func (m appModel) viewNoteForm(width int) string {
	title := "Edit comment"
	if m.editIsNew {
		title = "Add comment"
	}
	content := m.textarea.View() + "\n\n" +
		styleMuted().Render("ctrl+s: apply   ctrl+e: $EDITOR   esc: cancel")
	return renderModalBox(width, title, content)
}

// renderInputLine keeps a text input on a single visual line inside a modal.
func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	inputView = strings.NewReplacer("\n", " ", "\r", " ").Replace(inputView)
	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Terminate styling so the cut does not bleed.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}
