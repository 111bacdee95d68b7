package menu

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyMenu     = errors.New("menu has no items")
	ErrDuplicateItem = errors.New("duplicate menu item")
	ErrInvalidItem   = errors.New("invalid menu item")
)

// Item is one immutable catalog entry. Price is in cents.
type Item struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Price int64  `json:"price_cents"`
}

// Catalog is a fixed set of items keyed by normalized name.
type Catalog struct {
	items []Item // sorted by key
	byKey map[string]Item
}

// New builds a catalog. Missing keys are derived from the item name.
func New(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmptyMenu
	}
	c := &Catalog{byKey: make(map[string]Item, len(items))}
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Key == "" {
			it.Key = it.Name
		}
		it.Key = Normalize(it.Key)
		if it.Key == "" || it.Name == "" || it.Price < 0 {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidItem, it)
		}
		if _, ok := c.byKey[it.Key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItem, it.Key)
		}
		c.byKey[it.Key] = it
		c.items = append(c.items, it)
	}
	sort.Slice(c.items, func(i, j int) bool { return c.items[i].Key < c.items[j].Key })
	return c, nil
}

// Lookup resolves a spoken item name. It accepts an exact key or a single
// trailing "s" difference in either direction and never guesses on partial
// matches.
func (c *Catalog) Lookup(raw string) (Item, bool) {
	n := Normalize(raw)
	if n == "" {
		return Item{}, false
	}
	if it, ok := c.byKey[n]; ok {
		return it, true
	}
	for _, it := range c.items {
		if n == it.Key+"s" || n+"s" == it.Key {
			return it, true
		}
	}
	return Item{}, false
}

// Items returns the catalog in key order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int { return len(c.items) }

func Normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// FormatPrice renders cents as a two-decimal amount without currency sign.
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Dollars converts cents to the decimal value used on the wire.
func Dollars(cents int64) float64 { return float64(cents) / 100 }

// Cents rounds a decimal amount to whole cents.
func Cents(amount float64) int64 {
	if amount < 0 {
		return -int64(-amount*100 + 0.5)
	}
	return int64(amount*100 + 0.5)
}
