package widget

import (
	"iter"
	"sync"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Turn is one message in either direction. Sequence is assigned by the store.
type Turn struct {
	Role     Role
	Text     string
	Sequence int
}

// MessageStore is the append-only transcript of one session.
type MessageStore struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// Append stamps t with the next sequence number and stores it.
func (s *MessageStore) Append(t Turn) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Sequence = len(s.turns)
	s.turns = append(s.turns, t)
	return t
}

// All yields the turns present when All was called, in insertion order. The
// returned sequence can be ranged over any number of times.
func (s *MessageStore) All() iter.Seq[Turn] {
	s.mu.RLock()
	snapshot := s.turns[:len(s.turns):len(s.turns)]
	s.mu.RUnlock()
	return func(yield func(Turn) bool) {
		for _, t := range snapshot {
			if !yield(t) {
				return
			}
		}
	}
}

func (s *MessageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Last returns the newest turn, if any.
func (s *MessageStore) Last() (Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}
