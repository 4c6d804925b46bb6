package hostsfile

import (
	"slices"
	"strconv"
	"strings"
)

// Field names an editable attribute of a Line.
type Field string

const (
	FieldAddress  Field = "address"
	FieldHostname Field = "hostname"
	FieldComment  Field = "comment"
	FieldActive   Field = "active"
	FieldText     Field = "text"
)

// ParseField resolves a user-supplied field name.
func ParseField(s string) (Field, bool) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldAddress, FieldHostname, FieldComment, FieldActive, FieldText:
		return f, true
	case "ip":
		return FieldAddress, true
	case "host", "domain":
		return FieldHostname, true
	case "enabled":
		return FieldActive, true
	}
	return "", false
}

// Document owns the ordered line sequence that backs an editing session.
// All methods are synchronous and either apply fully or leave the sequence
// untouched.
type Document struct {
	lines []Line
}

// NewDocument wraps lines. The slice is copied.
func NewDocument(lines []Line) *Document {
	return &Document{lines: slices.Clone(lines)}
}

// ParseDocument parses text into a new Document.
func ParseDocument(text string) *Document {
	return &Document{lines: Parse(text)}
}

// Lines returns a copy of the current sequence.
func (d *Document) Lines() []Line {
	out := slices.Clone(d.lines)
	if out == nil {
		out = []Line{}
	}
	return out
}

func (d *Document) Len() int { return len(d.lines) }

// Text serializes the current sequence.
func (d *Document) Text() string { return Serialize(d.lines) }

// At returns the line at index i.
func (d *Document) At(i int) (Line, error) {
	if i < 0 || i >= len(d.lines) {
		return nil, &IndexError{Op: "at", Index: i, Len: len(d.lines)}
	}
	return d.lines[i], nil
}

// Reset replaces the whole sequence, e.g. after a reload.
func (d *Document) Reset(lines []Line) {
	d.lines = slices.Clone(lines)
}

// InsertMapping appends an empty active mapping and returns its index.
func (d *Document) InsertMapping() int {
	d.lines = append(d.lines, Mapping{Active: true})
	return len(d.lines) - 1
}

// InsertNote appends a note holding "# " and returns its index.
func (d *Document) InsertNote() int {
	d.lines = append(d.lines, Note{Text: "# "})
	return len(d.lines) - 1
}

// Append adds l at the end and returns its index.
func (d *Document) Append(l Line) int {
	d.lines = append(d.lines, l)
	return len(d.lines) - 1
}

// Replace swaps the line at index i for l.
func (d *Document) Replace(i int, l Line) error {
	if i < 0 || i >= len(d.lines) {
		return &IndexError{Op: "replace", Index: i, Len: len(d.lines)}
	}
	d.lines[i] = l
	return nil
}

// UpdateField sets one attribute of the line at index i.
//
// For FieldActive the value is parsed with strconv.ParseBool. Setting the
// comment to "" keeps an empty comment, which Serialize does not emit.
func (d *Document) UpdateField(i int, f Field, value string) error {
	if i < 0 || i >= len(d.lines) {
		return &IndexError{Op: "update", Index: i, Len: len(d.lines)}
	}
	l, err := withField(d.lines[i], f, value)
	if err != nil {
		return err
	}
	d.lines[i] = l
	return nil
}

// SetActive enables or disables the mapping at index i.
func (d *Document) SetActive(i int, active bool) error {
	return d.UpdateField(i, FieldActive, strconv.FormatBool(active))
}

// Toggle flips the active flag of the mapping at index i.
func (d *Document) Toggle(i int) error {
	l, err := d.At(i)
	if err != nil {
		return err
	}
	m, ok := l.(Mapping)
	if !ok {
		return &FieldError{Field: FieldActive, Kind: KindNote}
	}
	return d.SetActive(i, !m.Active)
}

// DeleteAt removes the line at index i.
func (d *Document) DeleteAt(i int) error {
	if i < 0 || i >= len(d.lines) {
		return &IndexError{Op: "delete", Index: i, Len: len(d.lines)}
	}
	d.lines = slices.Delete(d.lines, i, i+1)
	return nil
}

// MoveRange moves the lines at from to position to; see MoveRange.
func (d *Document) MoveRange(from []int, to int) error {
	out, err := MoveRange(d.lines, from, to)
	if err != nil {
		return err
	}
	d.lines = out
	return nil
}

// ShiftVisible moves the lines at from one visible step up (delta < 0) or
// down (delta > 0) and returns their new indices; see ShiftVisible.
func (d *Document) ShiftVisible(visible, from []int, delta int) ([]int, error) {
	out, moved, err := ShiftVisible(d.lines, visible, from, delta)
	if err != nil {
		return nil, err
	}
	d.lines = out
	return moved, nil
}

func withField(l Line, f Field, value string) (Line, error) {
	switch l := l.(type) {
	case Mapping:
		switch f {
		case FieldAddress:
			l.Address = value
		case FieldHostname:
			l.Hostname = value
		case FieldComment:
			l = l.WithComment(value)
		case FieldActive:
			b, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return nil, &FieldError{Field: f, Kind: KindMapping, Value: value}
			}
			l.Active = b
		default:
			return nil, &FieldError{Field: f, Kind: KindMapping}
		}
		return l, nil
	case Note:
		if f != FieldText {
			return nil, &FieldError{Field: f, Kind: KindNote}
		}
		l.Text = value
		return l, nil
	default:
		panic("hostsfile: unknown line type")
	}
}

// MoveRange returns a copy of lines where the lines at the from indices are
// taken out (keeping their relative order) and reinserted as one contiguous
// block starting at to. The to position is an index into the sequence after
// the removal and is clamped to its bounds. Duplicate indices are ignored.
//
// Lines that are not moved keep their relative order, so rows hidden by a
// filter stay next to the neighbours they had.
func MoveRange(lines []Line, from []int, to int) ([]Line, error) {
	idx := slices.Clone(from)
	slices.Sort(idx)
	idx = slices.Compact(idx)
	for _, i := range idx {
		if i < 0 || i >= len(lines) {
			return nil, &IndexError{Op: "move", Index: i, Len: len(lines)}
		}
	}

	moved := make([]Line, 0, len(idx))
	rest := make([]Line, 0, len(lines)-len(idx))
	next := 0
	for i, l := range lines {
		if next < len(idx) && idx[next] == i {
			moved = append(moved, l)
			next++
			continue
		}
		rest = append(rest, l)
	}

	to = max(0, min(to, len(rest)))
	out := make([]Line, 0, len(lines))
	out = append(out, rest[:to]...)
	out = append(out, moved...)
	out = append(out, rest[to:]...)
	return out, nil
}

// ShiftVisible moves the lines at from past the nearest visible line that is
// not itself being moved: above the topmost moved line when delta < 0, below
// the bottommost when delta > 0. Lines not listed in visible never serve as
// the anchor and keep their place. The moved lines end up contiguous; their
// new indices are returned. When there is nothing to move past, the sequence
// is returned unchanged together with the sorted from indices.
func ShiftVisible(lines []Line, visible, from []int, delta int) ([]Line, []int, error) {
	idx := slices.Clone(from)
	slices.Sort(idx)
	idx = slices.Compact(idx)
	if len(idx) == 0 || delta == 0 {
		return slices.Clone(lines), idx, nil
	}
	for _, i := range idx {
		if i < 0 || i >= len(lines) {
			return nil, nil, &IndexError{Op: "move", Index: i, Len: len(lines)}
		}
	}

	isMoved := func(i int) bool {
		_, ok := slices.BinarySearch(idx, i)
		return ok
	}

	anchor := -1
	if delta < 0 {
		for _, v := range visible {
			if v < idx[0] && !isMoved(v) {
				anchor = max(anchor, v)
			}
		}
	} else {
		for _, v := range visible {
			if v > idx[len(idx)-1] && !isMoved(v) && (anchor == -1 || v < anchor) {
				anchor = v
			}
		}
	}
	if anchor == -1 {
		return slices.Clone(lines), idx, nil
	}

	// Position of the anchor once the moved lines are taken out.
	pos := anchor
	for _, i := range idx {
		if i < anchor {
			pos--
		}
	}
	to := pos
	if delta > 0 {
		to = pos + 1
	}

	out, err := MoveRange(lines, idx, to)
	if err != nil {
		return nil, nil, err
	}
	moved := make([]int, len(idx))
	for k := range moved {
		moved[k] = to + k
	}
	return out, moved, nil
}
