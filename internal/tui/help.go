package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# Hosts editor

Each row is one line of the hosts file. Entries map an **address** to a
**hostname**; disabled entries are kept as ` + "`# address hostname`" + `.
Everything else is kept verbatim as a comment block.

## Navigation

| Key | Action |
|---|---|
| ` + "`j` `k` `↑` `↓`" + ` | move the cursor |
| ` + "`g` `G`" + ` | first / last row |
| ` + "`/`" + ` | filter by address, hostname, comment (` + "`tab`" + ` cycles, ` + "`esc`" + ` clears) |
| ` + "`?`" + ` | this help |

## Editing

| Key | Action |
|---|---|
| ` + "`space`" + ` | enable / disable the entry (or all marked entries) |
| ` + "`enter` `e`" + ` | edit the row |
| ` + "`a`" + ` | add an entry |
| ` + "`n`" + ` | add a comment block |
| ` + "`d`" + ` | delete the row (or marked rows) |
| ` + "`m`" + ` | mark / unmark the row |
| ` + "`K` `J`" + ` | move the row (or marked rows) up / down past visible rows |
| ` + "`ctrl+e`" + ` | edit the whole file in ` + "`$EDITOR`" + ` |
| ` + "`y`" + ` | copy the row text |

## File

| Key | Action |
|---|---|
| ` + "`ctrl+s`" + ` | save |
| ` + "`r`" + ` | reload from the source |
| ` + "`q`" + ` | quit |

Rows hidden by the filter never move when you reorder visible rows.
`

var (
	helpRenderMu sync.Mutex
	// Rendered help by width+style; building a TermRenderer is not free.
	helpRendered = map[string]string{}
)

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("HOSTS_EDITOR_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// renderHelp renders helpMarkdown with glamour, falling back to the raw
// markdown when rendering fails.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}
	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	helpRenderMu.Lock()
	defer helpRenderMu.Unlock()
	if out, ok := helpRendered[key]; ok {
		return out
	}
	r, err := glamour.NewTermRenderer(
		// WithAutoStyle can block on terminal queries; use a fixed style.
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	out = strings.TrimRight(out, "\n")
	helpRendered[key] = out
	return out
}
