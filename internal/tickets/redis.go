package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Redis stores each ticket as JSON under its own key and indexes it in a
// sorted set scored by creation time.
type Redis struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type RedisOption func(*Redis)

func WithTTL(ttl time.Duration) RedisOption { return func(r *Redis) { r.ttl = ttl } }

func WithPrefix(prefix string) RedisOption { return func(r *Redis) { r.prefix = prefix } }

func NewRedis(addr string, opts ...RedisOption) *Redis {
	return NewRedisFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

func NewRedisFromClient(client *backend.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: "kitchen:ticket:"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(id string) string { return r.prefix + id }
func (r *Redis) indexKey() string     { return r.prefix + "index" }

func (r *Redis) Submit(ctx context.Context, t Ticket) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(t.ID), data, r.ttl)
	pipe.ZAdd(ctx, r.indexKey(), backend.Z{Score: float64(t.CreatedAt.UnixMilli()), Member: t.ID})
	if r.ttl > 0 {
		cutoff := time.Now().Add(-r.ttl).UnixMilli()
		pipe.ZRemRangeByScore(ctx, r.indexKey(), "-inf", fmt.Sprintf("(%d", cutoff))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save ticket to redis: %w", err)
	}
	return nil
}

// List returns up to limit tickets, newest first. Expired entries are skipped.
func (r *Redis) List(ctx context.Context, limit int) ([]Ticket, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := r.client.ZRevRange(ctx, r.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list ticket index: %w", err)
	}
	if len(ids) == 0 {
		return []Ticket{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}
	out := make([]Ticket, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var t Ticket
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *Redis) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

func (r *Redis) Close() error { return r.client.Close() }
