package tickets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTable = `CREATE TABLE IF NOT EXISTS kitchen_tickets (
	id          UUID PRIMARY KEY,
	session_id  TEXT NOT NULL,
	lines       JSONB NOT NULL,
	total_cents BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

const insertTicket = `INSERT INTO kitchen_tickets (id, session_id, lines, total_cents, created_at)
VALUES ($1, $2, $3, $4, $5)`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// Postgres writes one row per ticket.
type Postgres struct {
	db    execer
	close func()
}

func ConnectPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	p := &Postgres{db: pool, close: pool.Close}
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create kitchen_tickets: %w", err)
	}
	return nil
}

func (p *Postgres) Submit(ctx context.Context, t Ticket) error {
	lines, err := json.Marshal(t.Lines)
	if err != nil {
		return fmt.Errorf("marshal ticket lines: %w", err)
	}
	if _, err := p.db.Exec(ctx, insertTicket, t.ID, t.SessionID, lines, t.TotalCents, t.CreatedAt); err != nil {
		return fmt.Errorf("insert ticket %s: %w", t.ID, err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.Ping(ctx) }

func (p *Postgres) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
