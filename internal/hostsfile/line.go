// Package hostsfile is the round-trip text model for the hosts file: a parser
// that turns raw text into an ordered sequence of typed lines, a serializer
// that turns the (edited) sequence back into text, and the structural edit
// operations applied in between.
package hostsfile

import (
	"encoding/json"
	"strings"
)

// Line is one record of the hosts file model. It is either a Mapping or a
// Note; no other implementations exist.
type Line interface {
	isLine()
}

// Kind names the variant of a Line.
type Kind string

const (
	KindMapping Kind = "mapping"
	KindNote    Kind = "note"
)

// Mapping is an "address hostname [# comment]" record. Inactive mappings are
// written commented out but are still recognized as mappings on read.
type Mapping struct {
	Address  string
	Hostname string
	// Comment is nil when the line has no trailing annotation.
	Comment *string
	Active  bool
}

// Note is a block of one or more raw lines that are not mappings, joined with
// "\n" and kept verbatim (including their leading '#').
type Note struct {
	Text string
}

func (Mapping) isLine() {}
func (Note) isLine()    {}

// KindOf reports the variant of l.
func KindOf(l Line) Kind {
	switch l.(type) {
	case Mapping:
		return KindMapping
	case Note:
		return KindNote
	default:
		panic("hostsfile: unknown line type")
	}
}

// CommentText returns the comment or "" when absent.
func (m Mapping) CommentText() string {
	if m.Comment == nil {
		return ""
	}
	return *m.Comment
}

// HasComment reports whether the mapping carries a non-blank comment.
func (m Mapping) HasComment() bool {
	return m.Comment != nil && strings.TrimSpace(*m.Comment) != ""
}

// WithComment returns m with its comment set to s.
func (m Mapping) WithComment(s string) Mapping {
	m.Comment = &s
	return m
}

// CommentPtr returns a pointer to s, for building Mapping literals. Use
// WithComment to set the comment on an existing Mapping.
func CommentPtr(s string) *string {
	return &s
}

type mappingJSON struct {
	Kind     Kind    `json:"kind"`
	Address  string  `json:"address"`
	Hostname string  `json:"hostname"`
	Comment  *string `json:"comment,omitempty"`
	Active   bool    `json:"active"`
}

type noteJSON struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

func (m Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(mappingJSON{
		Kind:     KindMapping,
		Address:  m.Address,
		Hostname: m.Hostname,
		Comment:  m.Comment,
		Active:   m.Active,
	})
}

func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(noteJSON{Kind: KindNote, Text: n.Text})
}
