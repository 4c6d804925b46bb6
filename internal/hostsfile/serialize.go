package hostsfile

import "strings"

// Serialize renders lines back into hosts file text, one record per line,
// joined with "\n" and without a trailing newline.
//
// Inactive mappings are always written as "# <address> <hostname>[ # comment]",
// whatever prefix they were read with.
func Serialize(lines []Line) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, RenderLine(l))
	}
	return strings.Join(out, "\n")
}

// RenderLine renders a single line the way Serialize does.
func RenderLine(l Line) string {
	switch l := l.(type) {
	case Mapping:
		s := l.Address + " " + l.Hostname
		if l.HasComment() {
			s += " # " + *l.Comment
		}
		if !l.Active {
			s = "# " + s
		}
		return s
	case Note:
		return l.Text
	default:
		panic("hostsfile: unknown line type")
	}
}
