package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// Raw HTML passthrough stays off.
		html.WithHardWraps(),
	),
)

const helpMarkdown = `# hosts-editor

Each row is one line of the hosts file. An **entry** maps an address to a
hostname and can carry a trailing comment. Disabled entries are written as
` + "`# address hostname`" + ` and can be enabled again. Anything else is a
**comment block** and is kept as written.

## Rows

- **on/off** enables or disables an entry.
- **edit** changes the address, hostname and comment (or the comment text).
- **↑ / ↓** move a row past the next visible row. Rows hidden by the filter
  keep their place.
- **delete** removes the row.

Changes stay in memory until you press **Save**. **Reload** discards them and
reads the file again.

## Filter

Each filter field is a case-insensitive substring match on the entry's
address, hostname or comment. Comment blocks are always shown.

## API

| Method | Path | |
|---|---|---|
| GET | ` + "`/api/lines`" + ` | lines as JSON (accepts ` + "`address`, `hostname`, `comment`" + ` filters) |
| POST | ` + "`/api/save`" + ` | write the document to its source |
| GET | ` + "`/rows/events`" + ` | datastar SSE stream of the rows fragment |
`

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	// Safe because raw HTML is not rendered.
	return template.HTML(b.String())
}
