package order

import (
	"strings"

	"voiceorder/agent/internal/menu"
)

// Lookup resolves a spoken item name against the menu.
type Lookup interface {
	Lookup(raw string) (menu.Item, bool)
}

type AddResult struct {
	Added    []string // canonical names, one entry per increment
	NotFound []string // raw names as mentioned
}

func (r AddResult) Changed() bool { return len(r.Added) > 0 }

// Summary is the spoken acknowledgement for an add.
func (r AddResult) Summary() string {
	var b strings.Builder
	if len(r.Added) > 0 {
		b.WriteString("Okay, added " + strings.Join(r.Added, ", ") + ". ")
	}
	if len(r.NotFound) > 0 {
		b.WriteString(`Sorry, I couldn't find "` + strings.Join(r.NotFound, ", ") + `" on the menu. `)
	}
	if b.Len() == 0 {
		return "Could you clarify what you'd like to add?"
	}
	b.WriteString("Anything else?")
	return b.String()
}

type RemoveResult struct {
	Removed []string // canonical names, one entry per decrement
	Failed  []string // raw names either off the menu or not in the order
}

func (r RemoveResult) Changed() bool { return len(r.Removed) > 0 }

// Summary is the spoken acknowledgement for a remove. Off-menu and
// not-ordered names share one message.
func (r RemoveResult) Summary() string {
	var b strings.Builder
	if len(r.Removed) > 0 {
		b.WriteString("Okay, removed " + strings.Join(r.Removed, ", ") + ". ")
	}
	if len(r.Failed) > 0 {
		b.WriteString(`Couldn't remove "` + strings.Join(r.Failed, ", ") + `" as it wasn't found or wasn't in your order. `)
	}
	if b.Len() == 0 {
		return "Could you clarify what you'd like to remove?"
	}
	b.WriteString("Anything else you'd like to change or add?")
	return b.String()
}

const (
	ClearedText      = "Okay, I've cleared your order. What can I get started for you?"
	AlreadyEmptyText = "Your order is already empty."
)

// Add increments each resolved name by one. Repeated names each count.
func Add(cat Lookup, o Order, names []string) (Order, AddResult) {
	next := o.clone()
	var res AddResult
	for _, raw := range names {
		it, ok := cat.Lookup(raw)
		if !ok {
			res.NotFound = append(res.NotFound, raw)
			continue
		}
		if i := next.index(it.Key); i >= 0 {
			next.lines[i].Quantity++
		} else {
			next.lines = append(next.lines, Line{Item: it, Quantity: 1})
		}
		res.Added = append(res.Added, it.Name)
	}
	return next, res
}

// Remove decrements each resolved name by one, deleting lines that reach zero.
func Remove(cat Lookup, o Order, names []string) (Order, RemoveResult) {
	next := o.clone()
	var res RemoveResult
	for _, raw := range names {
		it, ok := cat.Lookup(raw)
		if !ok {
			res.Failed = append(res.Failed, raw)
			continue
		}
		i := next.index(it.Key)
		if i < 0 {
			res.Failed = append(res.Failed, raw)
			continue
		}
		next.lines[i].Quantity--
		if next.lines[i].Quantity <= 0 {
			next.lines = append(next.lines[:i], next.lines[i+1:]...)
		}
		res.Removed = append(res.Removed, it.Name)
	}
	return next, res
}

// Clear empties the order and reports whether anything was removed.
func Clear(o Order) (Order, bool) {
	return Order{}, !o.IsEmpty()
}

func ClearSummary(cleared bool) string {
	if cleared {
		return ClearedText
	}
	return AlreadyEmptyText
}
