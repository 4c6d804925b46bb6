package hostsfile

// Counts summarizes a line sequence.
type Counts struct {
	Mappings int `json:"mappings"`
	Active   int `json:"active"`
	Disabled int `json:"disabled"`
	Notes    int `json:"notes"`
}

// Stats counts mappings (active and disabled) and notes in lines.
func Stats(lines []Line) Counts {
	var c Counts
	for _, l := range lines {
		switch l := l.(type) {
		case Mapping:
			c.Mappings++
			if l.Active {
				c.Active++
			} else {
				c.Disabled++
			}
		case Note:
			c.Notes++
		}
	}
	return c
}

// FindHostname returns the indices of mappings whose hostname equals name.
func FindHostname(lines []Line, name string) []int {
	var out []int
	for i, l := range lines {
		if m, ok := l.(Mapping); ok && m.Hostname == name {
			out = append(out, i)
		}
	}
	return out
}
