package kiosk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"voiceorder/agent/internal/protocol"
)

// Capture records one utterance per call. It is never called concurrently.
type Capture interface {
	Capture(ctx context.Context) (string, error)
}

// Playback speaks one utterance to completion. Cancelling ctx stops it.
type Playback interface {
	Speak(ctx context.Context, text string) error
}

// Hooks receive a one-way projection of the controller. All are optional and
// run on the controller goroutine.
type Hooks struct {
	OnState    func(State)
	OnOrder    func([]protocol.OrderLine)
	OnFinalize func([]protocol.OrderLine)
	OnStatus   func(string)
	OnAgent    func(string)
	OnUser     func(string)
}

var ErrDisconnected = errors.New("agent connection lost")

type event struct {
	in   Input
	gen  uint64
	text string
	msg  protocol.Outbound
	err  error
	cmd  bool
}

type Controller struct {
	conn     Conn
	capture  Capture
	playback Playback
	hooks    Hooks
	log      *slog.Logger

	events chan event
	done   chan struct{}
	once   sync.Once

	state State
	order []protocol.OrderLine

	captureGen    uint64
	captureCancel context.CancelFunc
	playGen       uint64
	playCancel    context.CancelFunc
}

func NewController(conn Conn, capture Capture, playback Playback, hooks Hooks, log *slog.Logger) *Controller {
	return &Controller{
		conn:     conn,
		capture:  capture,
		playback: playback,
		hooks:    hooks,
		log:      log,
		events:   make(chan event, 16),
		done:     make(chan struct{}),
		state:    Idle,
	}
}

// State is only meaningful from hooks or after Run returns.
func (c *Controller) State() State { return c.state }

// Order is the last order the agent sent.
func (c *Controller) Order() []protocol.OrderLine { return c.order }

// RequestListen asks for a manual capture, honoured only while idle.
func (c *Controller) RequestListen() { c.post(event{in: ManualListen}) }

// Run sends the system prompt and follows agent commands until the
// connection ends or ctx is cancelled.
func (c *Controller) Run(ctx context.Context, prompt string) error {
	defer c.once.Do(func() { close(c.done) })
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.readLoop(ctx)

	if err := c.send(ctx, protocol.Inbound{Type: protocol.TypeSetPrompt, Text: prompt}); err != nil {
		c.disconnect()
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	for {
		select {
		case <-ctx.Done():
			c.disconnect()
			_ = c.conn.Close()
			return ctx.Err()
		case ev := <-c.events:
			if err := c.handle(ctx, ev); err != nil {
				c.disconnect()
				_ = c.conn.Close()
				return err
			}
		}
	}
}

func (c *Controller) post(ev event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Controller) readLoop(ctx context.Context) {
	for {
		data, err := c.conn.Read(ctx)
		if err != nil {
			c.post(event{in: ConnLost, err: err})
			return
		}
		msg, err := protocol.DecodeOutbound(data)
		if err != nil {
			c.log.Warn("invalid agent message", "err", err)
			continue
		}
		c.post(event{cmd: true, msg: msg})
	}
}

func (c *Controller) handle(ctx context.Context, ev event) error {
	if ev.cmd {
		return c.command(ctx, ev.msg)
	}
	switch ev.in {
	case ConnLost:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrDisconnected, ev.err)
	case ManualListen:
		if c.transition(ManualListen) {
			c.startCapture(ctx)
		}
	case Captured, CaptureFailed:
		if ev.gen != c.captureGen {
			return nil
		}
		c.captureCancel = nil
		if ev.err != nil {
			c.status("Recognition error: " + ev.err.Error())
			c.transition(CaptureFailed)
			return nil
		}
		if !c.transition(Captured) {
			return nil
		}
		if c.hooks.OnUser != nil {
			c.hooks.OnUser(ev.text)
		}
		return c.send(ctx, protocol.Inbound{Type: protocol.TypeUserSpeech, Text: ev.text})
	case Played, PlaybackFailed:
		if ev.gen != c.playGen {
			return nil
		}
		c.playCancel = nil
		if ev.err != nil {
			c.status("Speech error: " + ev.err.Error())
			c.transition(PlaybackFailed)
			return nil
		}
		if c.transition(Played) {
			return c.send(ctx, protocol.Inbound{Type: protocol.TypeSpeechEnded})
		}
	}
	return nil
}

func (c *Controller) command(ctx context.Context, m protocol.Outbound) error {
	switch m.Action {
	case protocol.ActionListen:
		if c.transition(ListenCmd) {
			c.stopPlayback()
			c.startCapture(ctx)
		}
	case protocol.ActionSpeak:
		c.stopCapture()
		c.stopPlayback()
		c.transition(SpeakCmd)
		if strings.TrimSpace(m.Text) == "" {
			c.status("Agent sent empty response.")
			c.transition(Played)
			return c.send(ctx, protocol.Inbound{Type: protocol.TypeSpeechEnded})
		}
		if c.hooks.OnAgent != nil {
			c.hooks.OnAgent(m.Text)
		}
		c.startPlayback(ctx, m.Text)
	case protocol.ActionUpdateOrder:
		c.order = m.Order
		if c.hooks.OnOrder != nil {
			c.hooks.OnOrder(m.Order)
		}
	case protocol.ActionFinalizeOrder:
		c.order = m.Order
		if c.hooks.OnOrder != nil {
			c.hooks.OnOrder(m.Order)
		}
		if c.hooks.OnFinalize != nil {
			c.hooks.OnFinalize(m.Order)
		}
	case protocol.ActionStatusUpdate:
		c.status(m.Text)
	default:
		c.log.Warn("unknown agent action", "action", m.Action)
	}
	return nil
}

func (c *Controller) transition(in Input) bool {
	to, ok := Next(c.state, in)
	if !ok {
		return false
	}
	if to != c.state {
		c.log.Debug("kiosk state", "from", c.state, "to", to, "input", in)
		c.state = to
		if c.hooks.OnState != nil {
			c.hooks.OnState(to)
		}
	}
	return true
}

func (c *Controller) startCapture(ctx context.Context) {
	c.stopCapture()
	c.captureGen++
	gen := c.captureGen
	cctx, cancel := context.WithCancel(ctx)
	c.captureCancel = cancel
	go func() {
		defer cancel()
		text, err := c.capture.Capture(cctx)
		in := Captured
		if err != nil {
			in = CaptureFailed
		}
		c.post(event{in: in, gen: gen, text: text, err: err})
	}()
}

func (c *Controller) startPlayback(ctx context.Context, text string) {
	c.stopPlayback()
	c.playGen++
	gen := c.playGen
	pctx, cancel := context.WithCancel(ctx)
	c.playCancel = cancel
	go func() {
		defer cancel()
		err := c.playback.Speak(pctx, text)
		in := Played
		if err != nil {
			in = PlaybackFailed
		}
		c.post(event{in: in, gen: gen, err: err})
	}()
}

// stopCapture cancels an in-flight capture; its late result is dropped by
// generation.
func (c *Controller) stopCapture() {
	if c.captureCancel != nil {
		c.captureCancel()
		c.captureCancel = nil
		c.captureGen++
	}
}

func (c *Controller) stopPlayback() {
	if c.playCancel != nil {
		c.playCancel()
		c.playCancel = nil
		c.playGen++
	}
}

func (c *Controller) disconnect() {
	c.stopCapture()
	c.stopPlayback()
	c.transition(ConnLost)
}

func (c *Controller) status(text string) {
	c.log.Info("status", "text", text)
	if c.hooks.OnStatus != nil {
		c.hooks.OnStatus(text)
	}
}

func (c *Controller) send(ctx context.Context, in protocol.Inbound) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	if err := c.conn.Write(ctx, b); err != nil {
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	return nil
}
