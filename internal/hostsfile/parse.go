package hostsfile

import (
	"regexp"
	"strings"
)

// mappingGrammar is "FIELD1 WS FIELD2 (WS* # WS* TRAILING)?".
var mappingGrammar = regexp.MustCompile(`^([^\s#]+)\s+([^\s#]+)(?:\s*#\s*(.*))?$`)

// leadingHashes strips the comment marker run of a disabled line.
var leadingHashes = regexp.MustCompile(`^#+\s*`)

// Parse turns hosts file text into an ordered sequence of lines. It never
// fails: anything that is not a mapping is kept as a Note.
//
// Lines are split on "\n"; trailing "\r" is dropped. Blank lines separate
// notes and are not stored.
func Parse(text string) []Line {
	out := []Line{}
	var pending []string

	flush := func() {
		if len(pending) == 0 {
			return
		}
		out = append(out, Note{Text: strings.Join(pending, "\n")})
		pending = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			body := leadingHashes.ReplaceAllString(trimmed, "")
			if m, ok := matchMapping(body); ok && LooksLikeAddress(m.Address) {
				flush()
				m.Active = false
				out = append(out, m)
				continue
			}
			pending = append(pending, line)
			continue
		}

		flush()
		if m, ok := matchMapping(line); ok {
			m.Active = true
			out = append(out, m)
			continue
		}
		out = append(out, Note{Text: line})
	}
	flush()

	return out
}

func matchMapping(s string) (Mapping, bool) {
	groups := mappingGrammar.FindStringSubmatch(s)
	if groups == nil {
		return Mapping{}, false
	}
	m := Mapping{Address: groups[1], Hostname: groups[2]}
	// An empty trailing capture ("host #") counts as no comment.
	if groups[3] != "" {
		m.Comment = CommentPtr(groups[3])
	}
	return m, true
}
