package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"leadchat-backend/internal/widget"
)

func turns(texts ...string) []widget.Turn {
	out := make([]widget.Turn, len(texts))
	for i, t := range texts {
		role := widget.RoleBot
		if i%2 == 0 {
			role = widget.RoleUser
		}
		out[i] = widget.Turn{Role: role, Text: t, Sequence: i}
	}
	return out
}

func TestRenderer_PrintsEachTurnOnce(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf)
	require.NoError(t, err)

	r.Render(widget.Snapshot{State: widget.StateOpenWaiting, Turns: turns("hi")})
	r.Render(widget.Snapshot{State: widget.StateOpenIdle, Turns: turns("hi", "hello")})
	r.Render(widget.Snapshot{State: widget.StateOpenIdle, Turns: turns("hi", "hello")})

	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "You: hi"))
	require.Equal(t, 1, strings.Count(out, "Bot: hello"))
	require.Contains(t, out, "[bot is typing...]")
	require.Equal(t, 1, strings.Count(out, "[chat open]"))
}

func TestRenderer_HoldsTurnsWhileMinimized(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf)
	require.NoError(t, err)

	r.Render(widget.Snapshot{State: widget.StateOpenMinimized, Turns: turns("hi", "late reply")})
	require.NotContains(t, buf.String(), "late reply")
	require.Contains(t, buf.String(), "[chat minimized]")

	r.Render(widget.Snapshot{State: widget.StateOpenIdle, Turns: turns("hi", "late reply")})
	require.Contains(t, buf.String(), "You: hi")
	require.Contains(t, buf.String(), "Bot: late reply")
}

func TestRenderer_LeadHintShownOncePerOpening(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf)
	require.NoError(t, err)

	snap := widget.Snapshot{State: widget.StateOpenIdle, LeadFormVisible: true, Turns: turns("hi", "your email?")}
	r.Render(snap)
	r.Render(snap)
	require.Equal(t, 1, strings.Count(buf.String(), "/lead"))

	snap.LeadFormVisible = false
	r.Render(snap)
	snap.LeadFormVisible = true
	r.Render(snap)
	require.Equal(t, 2, strings.Count(buf.String(), "/lead"))
}

func TestRenderer_HoldQueuesUntilRelease(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf)
	require.NoError(t, err)
	r.Render(widget.Snapshot{State: widget.StateOpenIdle, Turns: turns("hi", "hello")})
	printed := buf.Len()

	r.Hold()
	r.Render(widget.Snapshot{State: widget.StateOpenWaiting, Turns: turns("hi", "hello", "more")})
	r.Render(widget.Snapshot{State: widget.StateOpenIdle, Turns: turns("hi", "hello", "more", "answer")})
	require.Equal(t, printed, buf.Len())

	r.Release()
	out := buf.String()
	require.Contains(t, out, "You: more")
	require.Contains(t, out, "Bot: answer")
	require.Equal(t, 1, strings.Count(out, "Bot: hello"))

	r.Release()
	require.Equal(t, 1, strings.Count(buf.String(), "Bot: answer"))
}

func TestLeadFormValidators(t *testing.T) {
	require.Error(t, validateName("  "))
	require.NoError(t, validateName("Ada"))
	require.Error(t, validateEmail(""))
	require.Error(t, validateEmail("ada@example"))
	require.NoError(t, validateEmail("ada@example.com"))
}
