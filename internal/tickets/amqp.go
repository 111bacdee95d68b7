package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RoutingKeyNew = "kitchen.ticket.new"

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQP publishes tickets to a durable topic exchange.
type AMQP struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       publisher
	exchange string
}

func DialAMQP(url, exchange string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp declare %s: %w", exchange, err)
	}
	return &AMQP{conn: conn, ch: ch, exchange: exchange}, nil
}

func (a *AMQP) Submit(ctx context.Context, t Ticket) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ch == nil {
		return ErrClosed
	}
	return a.ch.PublishWithContext(ctx, a.exchange, RoutingKeyNew, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		MessageId:    t.ID,
		Body:         body,
	})
}

func (a *AMQP) Ping(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ch == nil || (a.conn != nil && a.conn.IsClosed()) {
		return ErrClosed
	}
	return nil
}

func (a *AMQP) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ch != nil {
		_ = a.ch.Close()
		a.ch = nil
	}
	if a.conn != nil {
		err := a.conn.Close()
		a.conn = nil
		return err
	}
	return nil
}
