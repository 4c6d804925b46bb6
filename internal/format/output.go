package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tabler is implemented by values that can render as the "table" format.
type Tabler interface {
	Table() (headers []string, rows [][]string)
}

// Texter is implemented by values that can render as the "hosts" format,
// i.e. as hosts file text.
type Texter interface {
	Text() string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - table
// - hosts
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "table":
		t, ok := v.(Tabler)
		if !ok {
			return fmt.Errorf("format table is not supported for this command")
		}
		return WriteTable(w, t, pretty)
	case "hosts":
		t, ok := v.(Texter)
		if !ok {
			return fmt.Errorf("format hosts is not supported for this command")
		}
		return WriteText(w, t.Text())
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteTable renders aligned columns. pretty adds a border.
func WriteTable(w io.Writer, t Tabler, pretty bool) error {
	headers, rows := t.Table()
	tbl := table.New().Headers(headers...).Rows(rows...)
	if pretty {
		tbl = tbl.Border(lipgloss.RoundedBorder())
	} else {
		tbl = tbl.BorderTop(false).BorderBottom(false).BorderLeft(false).BorderRight(false).
			BorderHeader(false).BorderColumn(false).
			StyleFunc(func(row, col int) lipgloss.Style {
				return lipgloss.NewStyle().PaddingRight(2)
			})
	}
	out := tbl.String()
	if !pretty {
		out = trimLines(out)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// WriteText writes s followed by a single newline.
func WriteText(w io.Writer, s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
