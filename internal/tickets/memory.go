package tickets

import (
	"context"
	"sync"
)

const defaultMemoryCap = 200

// Memory keeps the most recent tickets in process.
type Memory struct {
	mu      sync.RWMutex
	max     int
	tickets []Ticket
	closed  bool
}

func NewMemory(max int) *Memory {
	if max <= 0 {
		max = defaultMemoryCap
	}
	return &Memory{max: max}
}

func (m *Memory) Submit(_ context.Context, t Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.tickets = append(m.tickets, t)
	// Cap to avoid unbounded growth; oldest go first.
	if l := len(m.tickets); l > m.max {
		m.tickets = append([]Ticket(nil), m.tickets[l-m.max:]...)
	}
	return nil
}

// List returns up to limit tickets, newest first. limit <= 0 means all.
func (m *Memory) List(_ context.Context, limit int) ([]Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.tickets)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Ticket, 0, n)
	for i := len(m.tickets) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.tickets[i])
	}
	return out, nil
}

func (m *Memory) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
