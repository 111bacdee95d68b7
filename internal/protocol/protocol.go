// Package protocol defines the JSON frames exchanged between a kiosk and the
// ordering agent. Each websocket text frame carries exactly one object.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"voiceorder/agent/internal/menu"
	"voiceorder/agent/internal/order"
)

// Client to agent.
const (
	TypeSetPrompt   = "setPrompt"
	TypeUserSpeech  = "userSpeech"
	TypeSpeechEnded = "speechEnded"
)

// Agent to client.
const (
	ActionSpeak         = "speak"
	ActionListen        = "listen"
	ActionUpdateOrder   = "updateOrder"
	ActionFinalizeOrder = "finalizeOrder"
	ActionStatusUpdate  = "statusUpdate"
)

var ErrMalformed = errors.New("malformed message")

type Inbound struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// OrderLine is the wire form of one order line. Price is the unit price.
type OrderLine struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (l OrderLine) Subtotal() float64 { return l.Price * float64(l.Quantity) }

type Outbound struct {
	Action string      `json:"action"`
	Text   string      `json:"text,omitempty"`
	Order  []OrderLine `json:"order,omitempty"`
}

// MarshalJSON always includes "order" on order commands, so an empty order
// is sent as [] rather than omitted.
func (m Outbound) MarshalJSON() ([]byte, error) {
	switch m.Action {
	case ActionUpdateOrder, ActionFinalizeOrder:
		lines := m.Order
		if lines == nil {
			lines = []OrderLine{}
		}
		return json.Marshal(struct {
			Action string      `json:"action"`
			Order  []OrderLine `json:"order"`
		}{m.Action, lines})
	case ActionSpeak, ActionStatusUpdate:
		return json.Marshal(struct {
			Action string `json:"action"`
			Text   string `json:"text"`
		}{m.Action, m.Text})
	default:
		type plain Outbound
		return json.Marshal(plain(m))
	}
}

// DecodeInbound parses one client frame. Frames that are not a JSON object
// with a string "type" return ErrMalformed. Unknown types decode fine and are
// left for the caller to ignore.
func DecodeInbound(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if in.Type == "" {
		return Inbound{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return in, nil
}

func DecodeOutbound(data []byte) (Outbound, error) {
	var out Outbound
	if err := json.Unmarshal(data, &out); err != nil {
		return Outbound{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if out.Action == "" {
		return Outbound{}, fmt.Errorf("%w: missing action", ErrMalformed)
	}
	return out, nil
}

func Speak(text string) Outbound  { return Outbound{Action: ActionSpeak, Text: text} }
func Listen() Outbound            { return Outbound{Action: ActionListen} }
func Status(text string) Outbound { return Outbound{Action: ActionStatusUpdate, Text: text} }

func UpdateOrder(o order.Order) Outbound {
	return Outbound{Action: ActionUpdateOrder, Order: Lines(o)}
}

func FinalizeOrder(o order.Order) Outbound {
	return Outbound{Action: ActionFinalizeOrder, Order: Lines(o)}
}

// Lines projects an order onto its wire form.
func Lines(o order.Order) []OrderLine {
	src := o.Lines()
	out := make([]OrderLine, len(src))
	for i, l := range src {
		out[i] = OrderLine{Name: l.Item.Name, Price: menu.Dollars(l.Item.Price), Quantity: l.Quantity}
	}
	return out
}

// Total of wire lines in cents.
func Total(lines []OrderLine) int64 {
	var sum int64
	for _, l := range lines {
		sum += menu.Cents(l.Price) * int64(l.Quantity)
	}
	return sum
}
