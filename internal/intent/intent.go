// Package intent turns a recognized utterance into a structured ordering action.
package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"voiceorder/agent/internal/order"
)

type Kind string

const (
	AddItem      Kind = "add_item"
	RemoveItem   Kind = "remove_item"
	ConfirmOrder Kind = "confirm_order"
	ClearOrder   Kind = "clear_order"
	QueryMenu    Kind = "query_menu"
	Other        Kind = "other"
)

func (k Kind) Known() bool {
	switch k {
	case AddItem, RemoveItem, ConfirmOrder, ClearOrder, QueryMenu, Other:
		return true
	}
	return false
}

// Action is the model's classification. Items are raw names as mentioned and
// have not been matched against the menu.
type Action struct {
	Intent Kind     `json:"intent"`
	Items  []string `json:"items"`
}

// Fallback is the action used whenever the model output cannot be trusted.
func Fallback() Action { return Action{Intent: Other, Items: []string{}} }

// Actionable reports whether the action can be applied to an order without
// falling back to open conversation.
func (a Action) Actionable() bool {
	switch a.Intent {
	case AddItem, RemoveItem:
		return len(a.Items) > 0
	case ConfirmOrder, ClearOrder:
		return true
	}
	return false
}

var (
	ErrNotJSON   = errors.New("classification is not a JSON object")
	ErrBadIntent  = errors.New("classification intent must be a non-empty string")
	ErrBadItems  = errors.New("classification items must be an array of strings")
)

// Parse validates raw model output. Surrounding code fences are stripped.
func Parse(raw string) (Action, error) {
	text := StripFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil || fields == nil {
		return Fallback(), ErrNotJSON
	}

	var kind string
	if err := json.Unmarshal(fields["intent"], &kind); err != nil || strings.TrimSpace(kind) == "" {
		return Fallback(), ErrBadIntent
	}

	rawItems, ok := fields["items"]
	if !ok || string(rawItems) == "null" {
		return Fallback(), ErrBadItems
	}
	var items []string
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return Fallback(), ErrBadItems
	}
	if items == nil {
		items = []string{}
	}
	return Action{Intent: Kind(strings.TrimSpace(kind)), Items: items}, nil
}

// StripFences removes a leading ```json (or bare ```) fence and a trailing
// ``` fence.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimPrefix(s, "JSON")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Prompt builds the single classification request.
func Prompt(systemPrompt string, o order.Order, utterance string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nCurrent order: [")
	b.WriteString(o.String())
	b.WriteString("]\nUser said: \"")
	b.WriteString(utterance)
	b.WriteString("\"\n\n")
	b.WriteString(instructions)
	return b.String()
}

const instructions = "Analyze the user's request based ONLY on the current order and the user's statement. " +
	"Determine the primary intent ('add_item', 'remove_item', 'confirm_order', 'clear_order', 'query_menu', 'other') " +
	"and list the specific menu items mentioned accurately. If adding/removing, list only the items to be added/removed, " +
	"repeating an item once per unit. If the user asks a general question or makes a statement not related to ordering, " +
	"use intent 'other'. Provide the response ONLY as a valid JSON object with keys 'intent' (string) and 'items' " +
	`(array of strings). Example: {"intent": "add_item", "items": ["Chicken Fajita Platter", "Key Lime Pie"]}`

// Classifier is the model capability the resolver needs.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

type Resolver struct {
	model Classifier
	log   *slog.Logger
}

func NewResolver(model Classifier, log *slog.Logger) *Resolver {
	return &Resolver{model: model, log: log}
}

// Resolve classifies utterance against the current order. Malformed model
// output degrades to the fallback action; only a failed model call errors.
func (r *Resolver) Resolve(ctx context.Context, systemPrompt string, o order.Order, utterance string) (Action, error) {
	raw, err := r.model.Classify(ctx, Prompt(systemPrompt, o, utterance))
	if err != nil {
		return Action{}, fmt.Errorf("classify: %w", err)
	}
	a, err := Parse(raw)
	if err != nil {
		r.log.Warn("classification rejected", "err", err, "raw", raw)
		return a, nil
	}
	r.log.Debug("classified", "intent", a.Intent, "items", a.Items)
	return a, nil
}
