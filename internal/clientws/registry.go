package clientws

import (
    "context"
    "encoding/json"
    "fmt"
    "sync"

    ws "nhooyr.io/websocket"
)

// Registry maps live session ids to their connections. Entries are added on
// accept and removed before the session is released.
type Registry struct {
    mu    sync.Mutex
    conns map[string]*ws.Conn
}

func NewRegistry() *Registry { return &Registry{conns: make(map[string]*ws.Conn)} }

// Add registers c for sessionID, closing any connection it replaces.
func (r *Registry) Add(sessionID string, c *ws.Conn) (replaced bool) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if old, ok := r.conns[sessionID]; ok && old != nil && old != c {
        _ = old.Close(ws.StatusPolicyViolation, "replaced")
        replaced = true
    }
    r.conns[sessionID] = c
    return
}

func (r *Registry) Get(sessionID string) *ws.Conn {
    r.mu.Lock(); defer r.mu.Unlock()
    return r.conns[sessionID]
}

func (r *Registry) Remove(sessionID string) {
    r.mu.Lock(); defer r.mu.Unlock()
    delete(r.conns, sessionID)
}

func (r *Registry) Len() int {
    r.mu.Lock(); defer r.mu.Unlock()
    return len(r.conns)
}

// SendJSON writes v as one text frame. Sending to an unknown or removed
// session is a no-op.
func (r *Registry) SendJSON(ctx context.Context, sessionID string, v any) error {
    r.mu.Lock()
    c := r.conns[sessionID]
    r.mu.Unlock()
    if c == nil { return nil }
    b, err := json.Marshal(v)
    if err != nil {
        return fmt.Errorf("encode frame: %w", err)
    }
    if err := c.Write(ctx, ws.MessageText, b); err != nil {
        return err
    }
    metricMessages.WithLabelValues("out").Inc()
    return nil
}
