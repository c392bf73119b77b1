// Package turnlog is the append-only record of completed turns. It is an
// observability sink only; nothing reads it back into a prompt.
package turnlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dealer-assistant/internal/models"
)

// Log is an append-only sequence of turns. Appends from concurrent requests
// are serialized by the implementation.
type Log interface {
	Append(ctx context.Context, entry models.TurnLogEntry) error
	Entries(ctx context.Context) ([]models.TurnLogEntry, error)
	Len(ctx context.Context) (int, error)
}

// NewEntry stamps a completed turn with an ID and creation time.
func NewEntry(userText, assistantText string, now time.Time) models.TurnLogEntry {
	return models.TurnLogEntry{
		ID:            uuid.NewString(),
		UserText:      userText,
		AssistantText: assistantText,
		CreatedAt:     now.UTC(),
	}
}

// MemoryLog keeps turns for the lifetime of the process.
type MemoryLog struct {
	mu      sync.RWMutex
	entries []models.TurnLogEntry
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(_ context.Context, entry models.TurnLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	return nil
}

// Entries returns a snapshot copy.
func (l *MemoryLog) Entries(_ context.Context) ([]models.TurnLogEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.TurnLogEntry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

func (l *MemoryLog) Len(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries), nil
}
