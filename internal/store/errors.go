package store

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

type AmbiguousIDError struct {
	Kind    string
	Prefix  string
	Matches []string
}

func (e AmbiguousIDError) Error() string {
	return fmt.Sprintf("%s id %q is ambiguous (%d matches)", e.Kind, e.Prefix, len(e.Matches))
}
