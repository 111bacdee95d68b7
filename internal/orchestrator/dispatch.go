package orchestrator

import (
    "context"
    "errors"
    "fmt"
    "strings"

    "voiceorder/agent/internal/floor"
    "voiceorder/agent/internal/intent"
    "voiceorder/agent/internal/llm"
    "voiceorder/agent/internal/order"
    "voiceorder/agent/internal/protocol"
    "voiceorder/agent/internal/tickets"
)

var errEmptyReply = errors.New("empty conversational reply")

// outcome is the result of one utterance, computed before the session is
// touched.
type outcome struct {
    order    order.Order
    changed  bool
    finalize bool
    reply    string
}

func (c *Coordinator) userSpeech(ctx context.Context, s *Session, text string) {
    if strings.TrimSpace(text) == "" {
        s.stage(protocol.Speak(RepeatText))
        return
    }
    s.floor.Fire(floor.UserSpeech)

    prior := s.History()
    s.appendTurn(llm.RoleUser, text)

    out, err := c.respond(ctx, s, prior, text)
    if err != nil {
        s.dropLastUserTurn()
        metricApologies.Inc()
        c.d.Log.Error("utterance failed", "session_id", s.ID, "err", err)
        s.floor.Fire(floor.ResponseReady)
        s.stage(protocol.Speak(ApologyText))
        return
    }

    s.order = out.order
    switch {
    case out.finalize:
        s.stage(protocol.FinalizeOrder(s.order))
        t := tickets.FromOrder(s.ID, s.order, c.d.Now())
        s.pending = &t
    case out.changed:
        s.stage(protocol.UpdateOrder(s.order))
    }
    s.floor.Fire(floor.ResponseReady)
    s.stage(protocol.Speak(out.reply))
    s.appendTurn(llm.RoleAgent, out.reply)
}

// respond classifies text and computes the reply without mutating s.
func (c *Coordinator) respond(ctx context.Context, s *Session, prior []llm.Turn, text string) (outcome, error) {
    a, err := c.d.Resolver.Resolve(ctx, s.prompt, s.order, text)
    if err != nil {
        return outcome{}, err
    }
    metricIntents.WithLabelValues(intentLabel(a.Intent)).Inc()
    c.d.Log.Info("intent", "session_id", s.ID, "intent", a.Intent, "items", a.Items)

    out := outcome{order: s.order}
    if !a.Actionable() {
        reply, err := c.d.Model.Converse(ctx, prior, s.prompt, text)
        if err != nil {
            return outcome{}, fmt.Errorf("converse: %w", err)
        }
        if strings.TrimSpace(reply) == "" {
            return outcome{}, errEmptyReply
        }
        out.reply = reply
        return out, nil
    }

    switch a.Intent {
    case intent.AddItem:
        next, res := order.Add(c.d.Catalog, s.order, a.Items)
        out.order, out.changed, out.reply = next, res.Changed(), res.Summary()
    case intent.RemoveItem:
        next, res := order.Remove(c.d.Catalog, s.order, a.Items)
        out.order, out.changed, out.reply = next, res.Changed(), res.Summary()
    case intent.ConfirmOrder:
        if s.order.IsEmpty() {
            out.reply = EmptyOrderText
        } else {
            out.finalize = true
            out.reply = ConfirmedText
        }
    case intent.ClearOrder:
        next, cleared := order.Clear(s.order)
        out.order, out.changed, out.reply = next, cleared, order.ClearSummary(cleared)
    }
    return out, nil
}

func intentLabel(k intent.Kind) string {
    if k.Known() {
        return string(k)
    }
    return "unknown"
}
