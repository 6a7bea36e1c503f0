package session

import (
	"context"
	"errors"
	"sync"
)

// ErrEmptySlot is returned by Slot.Load when no token is persisted.
var ErrEmptySlot = errors.New("no persisted token")

// ErrSlotUnavailable wraps backend failures of a Slot.
var ErrSlotUnavailable = errors.New("token slot unavailable")

// Slot is the single key-value cell that persists the raw credential token.
// The Store is its only writer.
type Slot interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemorySlot keeps the token in process memory.
type MemorySlot struct {
	mu    sync.Mutex
	token string
}

// NewMemorySlot returns a slot pre-filled with token ("" for empty).
func NewMemorySlot(token string) *MemorySlot {
	return &MemorySlot{token: token}
}

func (m *MemorySlot) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrEmptySlot
	}
	return m.token, nil
}

func (m *MemorySlot) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemorySlot) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
