package hostsfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisibleIndices(t *testing.T) {
	t.Parallel()

	lines := abcd()
	tests := []struct {
		name string
		q    Query
		want []int
	}{
		{name: "zero query shows all", q: Query{}, want: []int{0, 1, 2, 3}},
		{name: "address substring", q: Query{Address: "0.0.2"}, want: []int{1, 2}},
		{name: "hostname is case insensitive", q: Query{Hostname: "D.LOCAL"}, want: []int{2, 3}},
		{name: "comment query hides uncommented", q: Query{Comment: "hid"}, want: []int{1, 2}},
		{name: "queries are trimmed", q: Query{Hostname: "  a.local "}, want: []int{0, 2}},
		{name: "all fields must match", q: Query{Address: "10.", Hostname: "b"}, want: []int{1, 2}},
		{name: "nothing matches but notes", q: Query{Hostname: "nope"}, want: []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, VisibleIndices(lines, tt.q))
		})
	}
}

func TestQuery_IsZero(t *testing.T) {
	t.Parallel()

	require.True(t, Query{}.IsZero())
	require.True(t, Query{Address: "  "}.IsZero())
	require.False(t, Query{Comment: "x"}.IsZero())
}

func TestStats(t *testing.T) {
	t.Parallel()

	got := Stats(Parse(sampleHosts))
	require.Equal(t, Counts{Mappings: 6, Active: 4, Disabled: 2, Notes: 2}, got)
}
