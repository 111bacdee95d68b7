package order

import (
	"strconv"
	"strings"

	"voiceorder/agent/internal/menu"
)

// Line is one item in an order. Quantity is always positive.
type Line struct {
	Item     menu.Item
	Quantity int
}

func (l Line) Subtotal() int64 { return l.Item.Price * int64(l.Quantity) }

// Order is an immutable value. Lines keep first-added order and hold at most
// one line per catalog key. Mutating operations return a new Order.
type Order struct {
	lines []Line
}

func FromLines(lines ...Line) Order {
	var o Order
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := o.index(l.Item.Key); i >= 0 {
			o.lines[i].Quantity += l.Quantity
			continue
		}
		o.lines = append(o.lines, l)
	}
	return o
}

func (o Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

func (o Order) Len() int      { return len(o.lines) }
func (o Order) IsEmpty() bool { return len(o.lines) == 0 }

// Quantity of the item with the given catalog key, zero when absent.
func (o Order) Quantity(key string) int {
	if i := o.index(key); i >= 0 {
		return o.lines[i].Quantity
	}
	return 0
}

// Total in cents.
func (o Order) Total() int64 {
	var sum int64
	for _, l := range o.lines {
		sum += l.Subtotal()
	}
	return sum
}

// String renders the compact "2x Flan, 1x Key Lime Pie" form, or "empty".
func (o Order) String() string {
	if len(o.lines) == 0 {
		return "empty"
	}
	parts := make([]string, len(o.lines))
	for i, l := range o.lines {
		parts[i] = strconv.Itoa(l.Quantity) + "x " + l.Item.Name
	}
	return strings.Join(parts, ", ")
}

func (o Order) index(key string) int {
	for i, l := range o.lines {
		if l.Item.Key == key {
			return i
		}
	}
	return -1
}

func (o Order) clone() Order {
	return Order{lines: o.Lines()}
}
