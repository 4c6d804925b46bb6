package hostsfile

import "strings"

// Query selects which mapping rows are visible. Each field is a
// case-insensitive substring; an empty field matches everything. Notes are
// never hidden.
type Query struct {
	Address  string `json:"address,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

// IsZero reports whether q matches every line.
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Address) == "" &&
		strings.TrimSpace(q.Hostname) == "" &&
		strings.TrimSpace(q.Comment) == ""
}

// Matches reports whether l passes the query.
func (q Query) Matches(l Line) bool {
	m, ok := l.(Mapping)
	if !ok {
		return true
	}
	return containsFold(m.Address, q.Address) &&
		containsFold(m.Hostname, q.Hostname) &&
		containsFold(m.CommentText(), q.Comment)
}

// VisibleIndices returns the indices of lines that pass q, in order.
func VisibleIndices(lines []Line, q Query) []int {
	out := make([]int, 0, len(lines))
	for i, l := range lines {
		if q.Matches(l) {
			out = append(out, i)
		}
	}
	return out
}

func containsFold(s, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(query))
}
