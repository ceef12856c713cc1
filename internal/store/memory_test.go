package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AppendTrimsToMax(t *testing.T) {
	m := NewMemoryStore(3)
	for _, c := range []string{"1", "2", "3", "4", "5"} {
		m.Append("s1", Message{Role: "user", Content: c})
	}
	got := m.Get("s1")
	require.Equal(t, []Message{{"user", "3"}, {"user", "4"}, {"user", "5"}}, got)

	got[0].Content = "mutated"
	require.Equal(t, "3", m.Get("s1")[0].Content)
	require.Nil(t, m.Get("unknown"))
}

func TestMemoryStore_SessionsAreIndependent(t *testing.T) {
	m := NewMemoryStore(0)
	m.Append("a", Message{Role: "user", Content: "hi"}, Message{Role: "assistant", Content: "hello"})
	m.Append("b", Message{Role: "user", Content: "other"})
	require.Len(t, m.Get("a"), 2)
	require.Len(t, m.Get("b"), 1)
	require.Equal(t, 2, m.Len())
}

func TestMemoryStore_PruneIdle(t *testing.T) {
	m := NewMemoryStore(10)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }
	m.Append("old", Message{Role: "user", Content: "x"})
	m.now = func() time.Time { return start.Add(20 * time.Minute) }
	m.Append("fresh", Message{Role: "user", Content: "y"})

	require.Zero(t, m.Prune(start.Add(30*time.Minute), 0))
	require.Equal(t, 1, m.Prune(start.Add(30*time.Minute), 30*time.Minute))
	require.Nil(t, m.Get("old"))
	require.Len(t, m.Get("fresh"), 1)
}

func TestMemoryStore_RunJanitorStopsWithContext(t *testing.T) {
	m := NewMemoryStore(10)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	m.Append("stale", Message{Role: "user", Content: "x"})

	ctx, cancel := context.WithCancel(context.Background())
	evicted := make(chan int, 1)
	done := make(chan error, 1)
	go func() {
		done <- m.RunJanitor(ctx, time.Minute, 10*time.Millisecond, func(n int) { evicted <- n })
	}()

	require.Equal(t, 1, <-evicted)
	cancel()
	require.NoError(t, <-done)
	require.Zero(t, m.Len())
}
