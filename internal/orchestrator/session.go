package orchestrator

import (
    "voiceorder/agent/internal/floor"
    "voiceorder/agent/internal/llm"
    "voiceorder/agent/internal/order"
    "voiceorder/agent/internal/protocol"
    "voiceorder/agent/internal/tickets"
)

// Session is one client's conversation. It is owned by the connection's read
// loop and never shared, so it carries no lock.
type Session struct {
    ID string

    prompt  string
    history []llm.Turn
    order   order.Order
    floor   *floor.Manager

    staged  []protocol.Outbound
    pending *tickets.Ticket
}

func (s *Session) Prompt() string { return s.prompt }
func (s *Session) Order() order.Order { return s.order }
func (s *Session) State() floor.State { return s.floor.State() }
func (s *Session) Closed() bool { return s.floor.State() == floor.Terminated }

// History returns a copy of the conversation so far.
func (s *Session) History() []llm.Turn {
    out := make([]llm.Turn, len(s.history))
    copy(out, s.history)
    return out
}

func (s *Session) stage(m protocol.Outbound) { s.staged = append(s.staged, m) }

func (s *Session) appendTurn(r llm.Role, text string) {
    s.history = append(s.history, llm.Turn{Role: r, Text: text})
}

// dropLastUserTurn undoes the turn appended for a failed utterance.
func (s *Session) dropLastUserTurn() {
    if n := len(s.history); n > 0 && s.history[n-1].Role == llm.RoleUser {
        s.history = s.history[:n-1]
    }
}
