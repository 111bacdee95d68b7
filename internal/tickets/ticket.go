// Package tickets hands confirmed orders to the kitchen.
package tickets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"voiceorder/agent/internal/order"
)

var ErrClosed = errors.New("ticket sink closed")

type Line struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitCents int64  `json:"unit_price_cents"`
}

type Ticket struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Lines      []Line    `json:"lines"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromOrder snapshots a confirmed order.
func FromOrder(sessionID string, o order.Order, now time.Time) Ticket {
	src := o.Lines()
	lines := make([]Line, len(src))
	for i, l := range src {
		lines[i] = Line{Name: l.Item.Name, Quantity: l.Quantity, UnitCents: l.Item.Price}
	}
	return Ticket{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Lines:      lines,
		TotalCents: o.Total(),
		CreatedAt:  now.UTC(),
	}
}

// Sink accepts confirmed orders.
type Sink interface {
	Submit(ctx context.Context, t Ticket) error
	Ping(ctx context.Context) error
	Close() error
}

// Lister is implemented by sinks that can show recent tickets.
type Lister interface {
	List(ctx context.Context, limit int) ([]Ticket, error)
}

// Instrument wraps a sink with submission metrics. The result implements
// Lister only when s does.
func Instrument(backend string, s Sink) Sink {
	in := &instrumented{Sink: s, backend: backend}
	if l, ok := s.(Lister); ok {
		return &instrumentedLister{instrumented: in, lister: l}
	}
	return in
}

type instrumented struct {
	Sink
	backend string
}

func (i *instrumented) Submit(ctx context.Context, t Ticket) error {
	err := i.Sink.Submit(ctx, t)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metricSubmitted.WithLabelValues(i.backend, status).Inc()
	return err
}

type instrumentedLister struct {
	*instrumented
	lister Lister
}

func (i *instrumentedLister) List(ctx context.Context, limit int) ([]Ticket, error) {
	return i.lister.List(ctx, limit)
}
