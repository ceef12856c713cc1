package store

import (
	"context"
	"sync"
	"time"
)

type Message struct {
	Role    string
	Content string
}

type transcript struct {
	messages     []Message
	lastActivity time.Time
}

// MemoryStore keeps a bounded transcript per relay session. Nothing outlives
// the process.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*transcript
	maxMessages int
	now         func() time.Time
}

func NewMemoryStore(maxMessages int) *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[string]*transcript),
		maxMessages: maxMessages,
		now:         time.Now,
	}
}

func (m *MemoryStore) Append(sessionID string, msgs ...Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.sessions[sessionID]
	if !ok {
		t = &transcript{}
		m.sessions[sessionID] = t
	}
	t.messages = append(t.messages, msgs...)
	t.lastActivity = m.now()
	m.trimLocked(t)
}

func (m *MemoryStore) Get(sessionID string) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	copyMsgs := make([]Message, len(t.messages))
	copy(copyMsgs, t.messages)
	return copyMsgs
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) trimLocked(t *transcript) {
	if m.maxMessages <= 0 {
		return
	}
	if len(t.messages) > m.maxMessages {
		t.messages = append([]Message(nil), t.messages[len(t.messages)-m.maxMessages:]...)
	}
}

// Prune drops sessions idle for at least idle and reports how many went.
func (m *MemoryStore) Prune(now time.Time, idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, t := range m.sessions {
		if now.Sub(t.lastActivity) >= idle {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// RunJanitor prunes idle sessions every interval until ctx is done.
func (m *MemoryStore) RunJanitor(ctx context.Context, idle, interval time.Duration, onEvict func(int)) error {
	if idle <= 0 || interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := m.Prune(now, idle); n > 0 && onEvict != nil {
				onEvict(n)
			}
		}
	}
}

// Delete forgets one session's transcript.
func (m *MemoryStore) Delete(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
