package tickets

import (
	"context"
	"fmt"

	"voiceorder/agent/internal/config"
)

// Open builds the sink selected by cfg.Tickets.Backend, wrapped with metrics.
func Open(ctx context.Context, cfg config.Config) (Sink, error) {
	t := cfg.Tickets
	var (
		s   Sink
		err error
	)
	switch t.Backend {
	case "", "memory":
		s = NewMemory(0)
	case "redis":
		r := NewRedis(t.RedisAddr, WithTTL(t.RedisTTL))
		if err = r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("redis %s: %w", t.RedisAddr, err)
		}
		s = r
	case "amqp":
		s, err = DialAMQP(t.AMQPURL, t.AMQPExchange)
	case "postgres":
		s, err = ConnectPostgres(ctx, t.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrTicketsBackend, t.Backend)
	}
	if err != nil {
		return nil, err
	}
	backend := t.Backend
	if backend == "" {
		backend = "memory"
	}
	return Instrument(backend, s), nil
}
