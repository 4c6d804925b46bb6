package hostsfile

import "fmt"

// IndexError reports an edit that referenced a position outside the
// sequence. The sequence is left unchanged.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range (len %d)", e.Op, e.Index, e.Len)
}

// FieldError reports an update of a field the line does not have, or a value
// the field cannot hold.
type FieldError struct {
	Field Field
	Kind  Kind
	Value string
}

func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid value %q for %s field %q", e.Value, e.Kind, e.Field)
	}
	return fmt.Sprintf("%s has no field %q", e.Kind, e.Field)
}
