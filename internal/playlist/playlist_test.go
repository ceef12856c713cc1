package playlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNext_WrapsAround(t *testing.T) {
	p := New("a", "b", "c")
	got := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		got = append(got, p.Next())
	}
	require.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, got)
}

func TestNew_DefaultsToDemoReplies(t *testing.T) {
	p := New()
	require.Equal(t, DemoReplies[0], p.Next())
	require.Equal(t, DemoReplies[1], p.Next())
}

func TestNew_CopiesInput(t *testing.T) {
	in := []string{"x", "y"}
	p := New(in...)
	in[0] = "mutated"
	require.Equal(t, "x", p.Next())
}
