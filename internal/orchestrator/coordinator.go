package orchestrator

import (
    "context"
    "log/slog"
    "strings"
    "time"

    "voiceorder/agent/internal/floor"
    "voiceorder/agent/internal/intent"
    "voiceorder/agent/internal/llm"
    "voiceorder/agent/internal/order"
    "voiceorder/agent/internal/protocol"
    "voiceorder/agent/internal/tickets"
)

const (
    RepeatText      = "Sorry, I didn't catch that. Could you please repeat?"
    ApologyText     = "Sorry, I encountered an technical issue. Please try again."
    ConfirmedText   = "Okay, your order is confirmed. Please proceed to the window."
    EmptyOrderText  = "Your order is currently empty. What would you like to add?"
    InvalidFormText = "Error: Invalid message format."
)

// Outbox delivers commands to a connected client. Sending to a session that
// is no longer connected must be a no-op.
type Outbox interface {
    SendJSON(ctx context.Context, sessionID string, v any) error
}

type Resolver interface {
    Resolve(ctx context.Context, systemPrompt string, o order.Order, utterance string) (intent.Action, error)
}

type Conversation interface {
    Converse(ctx context.Context, history []llm.Turn, systemPrompt, utterance string) (string, error)
}

type Options struct {
    DefaultPrompt string
    Greeting      string
}

type Deps struct {
    Catalog  order.Lookup
    Resolver Resolver
    Model    Conversation
    Out      Outbox
    Tickets  tickets.Sink // optional
    Options  Options
    Log      *slog.Logger
    Now      func() time.Time
}

// Coordinator applies client events to sessions. It holds no per-session
// state of its own; each Session lives with its connection.
type Coordinator struct {
    d Deps
}

func New(d Deps) *Coordinator {
    if d.Now == nil {
        d.Now = time.Now
    }
    if d.Log == nil {
        d.Log = slog.Default()
    }
    return &Coordinator{d: d}
}

// Open starts a session in AwaitingPrompt with the default prompt.
func (c *Coordinator) Open(id string) *Session {
    s := &Session{ID: id, prompt: c.d.Options.DefaultPrompt}
    s.floor = floor.New(func(tr floor.Transition) {
        metricStateTransitions.WithLabelValues(tr.From.String(), tr.To.String()).Inc()
    })
    metricSessionsActive.Inc()
    c.d.Log.Info("session opened", "session_id", id)
    return s
}

// Close terminates s. Later events on it are ignored.
func (c *Coordinator) Close(s *Session) {
    if s == nil || s.Closed() {
        return
    }
    s.floor.Fire(floor.Disconnect)
    s.staged = nil
    s.pending = nil
    metricSessionsActive.Dec()
    c.d.Log.Info("session closed", "session_id", s.ID, "turns", len(s.history), "order", s.order.String())
}

// HandleRaw decodes one client frame and handles it. A malformed frame gets a
// status reply; an unknown type is logged and ignored. The returned error is
// a transport failure only.
func (c *Coordinator) HandleRaw(ctx context.Context, s *Session, data []byte) error {
    in, err := protocol.DecodeInbound(data)
    if err != nil {
        c.d.Log.Warn("invalid client message", "session_id", s.ID, "err", err)
        if s.Closed() {
            return nil
        }
        return c.d.Out.SendJSON(ctx, s.ID, protocol.Status(InvalidFormText))
    }
    return c.Handle(ctx, s, in)
}

// Handle processes one inbound message to completion. All session mutation
// finishes before any command for it is sent.
func (c *Coordinator) Handle(ctx context.Context, s *Session, in protocol.Inbound) error {
    if s.Closed() {
        return nil
    }
    switch in.Type {
    case protocol.TypeSetPrompt:
        c.setPrompt(s, in.Text)
    case protocol.TypeUserSpeech:
        c.userSpeech(ctx, s, in.Text)
    case protocol.TypeSpeechEnded:
        s.floor.Fire(floor.SpeechEnded)
        s.stage(protocol.Listen())
    default:
        c.d.Log.Warn("unhandled message type", "session_id", s.ID, "type", in.Type)
        return nil
    }
    if err := c.flush(ctx, s); err != nil {
        return err
    }
    c.submitPending(ctx, s)
    return nil
}

func (c *Coordinator) setPrompt(s *Session, text string) {
    if p := strings.TrimSpace(text); p != "" {
        s.prompt = p
    }
    c.d.Log.Debug("system prompt set", "session_id", s.ID, "prompt", s.prompt)
    s.floor.Fire(floor.SetPrompt)
    s.stage(protocol.Speak(c.d.Options.Greeting))
}

func (c *Coordinator) flush(ctx context.Context, s *Session) error {
    staged := s.staged
    s.staged = nil
    for _, m := range staged {
        if err := c.d.Out.SendJSON(ctx, s.ID, m); err != nil {
            c.d.Log.Warn("send failed", "session_id", s.ID, "action", m.Action, "err", err)
            return err
        }
    }
    return nil
}

func (c *Coordinator) submitPending(ctx context.Context, s *Session) {
    t := s.pending
    s.pending = nil
    if t == nil || c.d.Tickets == nil {
        return
    }
    if err := c.d.Tickets.Submit(ctx, *t); err != nil {
        metricTicketErrors.Inc()
        c.d.Log.Error("kitchen ticket rejected", "session_id", s.ID, "ticket_id", t.ID, "err", err)
        return
    }
    c.d.Log.Info("kitchen ticket submitted", "session_id", s.ID, "ticket_id", t.ID, "total_cents", t.TotalCents)
}
