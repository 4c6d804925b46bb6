package hostsfile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var (
	lineA = Mapping{Address: "10.0.0.1", Hostname: "a.local", Active: true}
	lineB = Mapping{Address: "10.0.0.2", Hostname: "b.local", Comment: CommentPtr("hidden"), Active: true}
	lineC = Note{Text: "# c"}
	lineD = Mapping{Address: "10.0.0.4", Hostname: "d.local", Active: false}
)

func abcd() []Line { return []Line{lineA, lineB, lineC, lineD} }

func TestDocument_InsertAppendsDefaults(t *testing.T) {
	t.Parallel()

	d := NewDocument(nil)
	require.Equal(t, 0, d.InsertMapping())
	require.Equal(t, 1, d.InsertNote())

	want := []Line{Mapping{Active: true}, Note{Text: "# "}}
	if diff := cmp.Diff(want, d.Lines()); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, " \n# ", d.Text())
}

func TestDocument_UpdateField(t *testing.T) {
	t.Parallel()

	d := NewDocument(abcd())
	require.NoError(t, d.UpdateField(0, FieldAddress, "192.168.0.1"))
	require.NoError(t, d.UpdateField(0, FieldHostname, "router.lan"))
	require.NoError(t, d.UpdateField(0, FieldComment, "edge"))
	require.NoError(t, d.UpdateField(3, FieldActive, "true"))
	require.NoError(t, d.UpdateField(2, FieldText, "# c\n# more"))

	want := []Line{
		Mapping{Address: "192.168.0.1", Hostname: "router.lan", Comment: CommentPtr("edge"), Active: true},
		lineB,
		Note{Text: "# c\n# more"},
		Mapping{Address: "10.0.0.4", Hostname: "d.local", Active: true},
	}
	if diff := cmp.Diff(want, d.Lines()); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_UpdateField_Errors_LeaveSequenceUnchanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		index int
		field Field
		value string
		check func(error) bool
	}{
		{
			name: "index past end", index: 4, field: FieldAddress, value: "x",
			check: func(err error) bool { var e *IndexError; return errors.As(err, &e) && e.Index == 4 && e.Len == 4 },
		},
		{
			name: "negative index", index: -1, field: FieldAddress, value: "x",
			check: func(err error) bool { var e *IndexError; return errors.As(err, &e) },
		},
		{
			name: "note has no address", index: 2, field: FieldAddress, value: "x",
			check: func(err error) bool { var e *FieldError; return errors.As(err, &e) && e.Kind == KindNote },
		},
		{
			name: "mapping has no text", index: 0, field: FieldText, value: "x",
			check: func(err error) bool { var e *FieldError; return errors.As(err, &e) && e.Kind == KindMapping },
		},
		{
			name: "active must be a bool", index: 0, field: FieldActive, value: "maybe",
			check: func(err error) bool { var e *FieldError; return errors.As(err, &e) && e.Value == "maybe" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := NewDocument(abcd())
			err := d.UpdateField(tt.index, tt.field, tt.value)
			require.Error(t, err)
			require.True(t, tt.check(err), "unexpected error: %v", err)
			if diff := cmp.Diff(abcd(), d.Lines()); diff != "" {
				t.Fatalf("sequence changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocument_ToggleAndDelete(t *testing.T) {
	t.Parallel()

	d := NewDocument(abcd())
	require.NoError(t, d.Toggle(0))
	l, err := d.At(0)
	require.NoError(t, err)
	require.False(t, l.(Mapping).Active)

	var fe *FieldError
	require.ErrorAs(t, d.Toggle(2), &fe)

	require.NoError(t, d.DeleteAt(2))
	require.Equal(t, 3, d.Len())

	var ie *IndexError
	require.ErrorAs(t, d.DeleteAt(3), &ie)
	require.Equal(t, 3, d.Len())
}

func TestMoveRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from []int
		to   int
		want []Line
	}{
		{name: "first to end", from: []int{0}, to: 3, want: []Line{lineB, lineC, lineD, lineA}},
		{name: "last to front", from: []int{3}, to: 0, want: []Line{lineD, lineA, lineB, lineC}},
		{name: "block keeps order", from: []int{3, 1}, to: 0, want: []Line{lineB, lineD, lineA, lineC}},
		{name: "duplicates ignored", from: []int{1, 1}, to: 2, want: []Line{lineA, lineC, lineB, lineD}},
		{name: "target clamped high", from: []int{0}, to: 99, want: []Line{lineB, lineC, lineD, lineA}},
		{name: "target clamped low", from: []int{2}, to: -5, want: []Line{lineC, lineA, lineB, lineD}},
		{name: "empty set is identity", from: nil, to: 1, want: abcd()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := abcd()
			got, err := MoveRange(in, tt.from, tt.to)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("MoveRange mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(abcd(), in); diff != "" {
				t.Fatalf("input mutated (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMoveRange_OutOfRange(t *testing.T) {
	t.Parallel()

	d := NewDocument(abcd())
	var ie *IndexError
	require.ErrorAs(t, d.MoveRange([]int{0, 4}, 1), &ie)
	if diff := cmp.Diff(abcd(), d.Lines()); diff != "" {
		t.Fatalf("sequence changed (-want +got):\n%s", diff)
	}
}

func TestMoveRange_PreservesHiddenLines(t *testing.T) {
	t.Parallel()

	a := Mapping{Address: "10.0.0.1", Hostname: "a.local", Active: true}
	b := Mapping{Address: "10.0.0.2", Hostname: "b.internal", Active: true}
	c := Mapping{Address: "10.0.0.3", Hostname: "c.local", Active: true}
	d := Mapping{Address: "10.0.0.4", Hostname: "d.local", Active: true}
	lines := []Line{a, b, c, d}

	visible := VisibleIndices(lines, Query{Hostname: ".local"})
	require.Equal(t, []int{0, 2, 3}, visible)

	// Move visible A after the last visible line. After removing A the
	// sequence is [B C D], so "after D" is position 3.
	got, err := MoveRange(lines, []int{0}, 3)
	require.NoError(t, err)

	want := []Line{b, c, d, a}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("MoveRange mismatch (-want +got):\n%s", diff)
	}
	// B was never in the move set: it is still present and still sits
	// right before C, its original neighbour that was not moved.
	require.Equal(t, b, got[0])
	require.Equal(t, c, got[1])
}

func TestShiftVisible(t *testing.T) {
	t.Parallel()

	all := []int{0, 1, 2, 3}
	tests := []struct {
		name      string
		visible   []int
		from      []int
		delta     int
		want      []Line
		wantMoved []int
	}{
		{
			name: "down one", visible: all, from: []int{0}, delta: 1,
			want: []Line{lineB, lineA, lineC, lineD}, wantMoved: []int{1},
		},
		{
			name: "up one", visible: all, from: []int{2}, delta: -1,
			want: []Line{lineA, lineC, lineB, lineD}, wantMoved: []int{1},
		},
		{
			name: "up skips hidden line", visible: []int{0, 2, 3}, from: []int{2}, delta: -1,
			want: []Line{lineC, lineA, lineB, lineD}, wantMoved: []int{0},
		},
		{
			name: "down skips hidden line", visible: []int{0, 2, 3}, from: []int{0}, delta: 1,
			want: []Line{lineB, lineC, lineA, lineD}, wantMoved: []int{2},
		},
		{
			name: "marked block moves together", visible: all, from: []int{1, 3}, delta: -1,
			want: []Line{lineB, lineD, lineA, lineC}, wantMoved: []int{0, 1},
		},
		{
			name: "top stays put", visible: all, from: []int{0}, delta: -1,
			want: abcd(), wantMoved: []int{0},
		},
		{
			name: "bottom stays put", visible: all, from: []int{3}, delta: 1,
			want: abcd(), wantMoved: []int{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, moved, err := ShiftVisible(abcd(), tt.visible, tt.from, tt.delta)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ShiftVisible mismatch (-want +got):\n%s", diff)
			}
			require.Equal(t, tt.wantMoved, moved)
		})
	}
}
