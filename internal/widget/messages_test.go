package widget

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageStore_AppendAssignsIncreasingSequence(t *testing.T) {
	s := NewMessageStore()
	for i, text := range []string{"a", "b", "c"} {
		got := s.Append(Turn{Role: RoleUser, Text: text, Sequence: 99})
		require.Equal(t, i, got.Sequence)
	}
	require.Equal(t, 3, s.Len())
	last, ok := s.Last()
	require.True(t, ok)
	require.Equal(t, "c", last.Text)
}

func TestMessageStore_AllIsRestartableSnapshot(t *testing.T) {
	s := NewMessageStore()
	s.Append(Turn{Role: RoleUser, Text: "hi"})
	s.Append(Turn{Role: RoleBot, Text: "hello"})

	seq := s.All()
	s.Append(Turn{Role: RoleUser, Text: "later"})

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Equal(t, first, second)
	require.Len(t, first, 2)
	for i, turn := range first {
		require.Equal(t, i, turn.Sequence)
	}
	require.Len(t, slices.Collect(s.All()), 3)
}

func TestMessageStore_AllStopsEarly(t *testing.T) {
	s := NewMessageStore()
	for range 5 {
		s.Append(Turn{Role: RoleBot, Text: "x"})
	}
	n := 0
	for range s.All() {
		n++
		if n == 2 {
			break
		}
	}
	require.Equal(t, 2, n)
}

func TestMessageStore_EmptyLast(t *testing.T) {
	_, ok := NewMessageStore().Last()
	require.False(t, ok)
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	require.NotEqual(t, a, b)
	require.True(t, strings.HasPrefix(a, "session_"))
	require.Len(t, a, len("session_")+32)
}
