// Package conversation keeps the AI assistant's turn history. The log
// is append-only while a session lives and restartable: clearing the
// session clears the log.
package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in the conversation.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is a mutex-guarded, lazily-growing turn sequence.
type Log struct {
	mu    sync.Mutex
	turns []Turn
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) append(role Role, text string) Turn {
	turn := Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}

	l.mu.Lock()
	l.turns = append(l.turns, turn)
	l.mu.Unlock()

	return turn
}

// AppendUser records the user's turn. Called synchronously before the
// backend round-trip so the user's words are never lost.
func (l *Log) AppendUser(text string) Turn {
	return l.append(RoleUser, text)
}

// AppendAssistant records the assistant's turn.
func (l *Log) AppendAssistant(text string) Turn {
	return l.append(RoleAssistant, text)
}

// Turns returns a snapshot of the conversation in order.
func (l *Log) Turns() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of turns.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Reset clears the conversation.
func (l *Log) Reset() {
	l.mu.Lock()
	l.turns = nil
	l.mu.Unlock()
}
