package order

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceorder/agent/internal/menu"
)

func catalog(t *testing.T) *menu.Catalog {
	t.Helper()
	c, err := menu.Default()
	require.NoError(t, err)
	return c
}

func TestAddScenario(t *testing.T) {
	cat := catalog(t)
	o, res := Add(cat, Order{}, []string{"Chicken Fajita Platter", "Chicken Fajita Platter", "Flan"})

	require.Equal(t, 2, o.Len())
	lines := o.Lines()
	assert.Equal(t, "Chicken Fajita Platter", lines[0].Item.Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "Flan", lines[1].Item.Name)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, int64(3597), o.Total())
	assert.Equal(t, "35.97", menu.FormatPrice(o.Total()))
	assert.True(t, res.Changed())
	assert.Equal(t, "Okay, added Chicken Fajita Platter, Chicken Fajita Platter, Flan. Anything else?", res.Summary())
	assert.Equal(t, "2x Chicken Fajita Platter, 1x Flan", o.String())
}

func TestAddNotFound(t *testing.T) {
	cat := catalog(t)
	o, res := Add(cat, Order{}, []string{"tacos", "flans", "nachos"})
	assert.Equal(t, 1, o.Quantity("flan"))
	assert.Equal(t, []string{"tacos", "nachos"}, res.NotFound)
	assert.Equal(t, `Okay, added Flan. Sorry, I couldn't find "tacos, nachos" on the menu. Anything else?`, res.Summary())

	_, res = Add(cat, Order{}, nil)
	assert.False(t, res.Changed())
	assert.Equal(t, "Could you clarify what you'd like to add?", res.Summary())
}

func TestAddDoesNotMutateInput(t *testing.T) {
	cat := catalog(t)
	base, _ := Add(cat, Order{}, []string{"flan"})
	_, _ = Add(cat, base, []string{"flan", "key lime pie"})
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 1, base.Quantity("flan"))
}

func TestRemoveScenario(t *testing.T) {
	cat := catalog(t)
	o, _ := Add(cat, Order{}, []string{"Chicken Fajita Platter", "Chicken Fajita Platter", "Flan"})

	o, res := Remove(cat, o, []string{"Chicken Fajita Platter"})
	assert.Equal(t, 1, o.Quantity("chicken fajita platter"))
	assert.Equal(t, 1, o.Quantity("flan"))
	assert.Equal(t, "Okay, removed Chicken Fajita Platter. Anything else you'd like to change or add?", res.Summary())

	o, res = Remove(cat, o, []string{"Flan"})
	assert.True(t, res.Changed())
	assert.Equal(t, 0, o.Quantity("flan"))

	before := o.String()
	o, res = Remove(cat, o, []string{"Flan"})
	assert.False(t, res.Changed())
	assert.Equal(t, []string{"Flan"}, res.Failed)
	assert.Equal(t, `Couldn't remove "Flan" as it wasn't found or wasn't in your order. Anything else you'd like to change or add?`, res.Summary())
	assert.Equal(t, before, o.String())
}

func TestRemoveOffMenuSharesMessage(t *testing.T) {
	cat := catalog(t)
	_, res := Remove(cat, Order{}, []string{"tacos"})
	assert.Equal(t, []string{"tacos"}, res.Failed)

	_, res = Remove(cat, Order{}, nil)
	assert.Equal(t, "Could you clarify what you'd like to remove?", res.Summary())
}

func TestRemoveBelowZeroDeletesLine(t *testing.T) {
	cat := catalog(t)
	o, _ := Add(cat, Order{}, []string{"flan"})
	o, res := Remove(cat, o, []string{"flan", "flan", "flan"})
	assert.True(t, o.IsEmpty())
	assert.Equal(t, []string{"Flan"}, res.Removed)
	assert.Len(t, res.Failed, 2)
}

func TestClear(t *testing.T) {
	cat := catalog(t)
	o, _ := Add(cat, Order{}, []string{"flan"})
	o, cleared := Clear(o)
	assert.True(t, cleared)
	assert.True(t, o.IsEmpty())
	assert.Equal(t, ClearedText, ClearSummary(cleared))

	_, cleared = Clear(o)
	assert.False(t, cleared)
	assert.Equal(t, AlreadyEmptyText, ClearSummary(cleared))
	assert.Equal(t, "empty", o.String())
}

// Random add/remove sequences keep one positive line per key and a total
// matching a straightforward recount.
func TestLedgerInvariants(t *testing.T) {
	cat := catalog(t)
	items := cat.Items()
	rng := rand.New(rand.NewSource(7))

	o := Order{}
	want := map[string]int{}
	for step := 0; step < 500; step++ {
		it := items[rng.Intn(len(items))]
		if rng.Intn(3) == 0 {
			o, _ = Remove(cat, o, []string{it.Name})
			if want[it.Key] > 0 {
				want[it.Key]--
			}
		} else {
			o, _ = Add(cat, o, []string{it.Name})
			want[it.Key]++
		}

		seen := map[string]bool{}
		var total int64
		for _, l := range o.Lines() {
			require.False(t, seen[l.Item.Key], "duplicate line %s", l.Item.Key)
			seen[l.Item.Key] = true
			require.Positive(t, l.Quantity)
			require.Equal(t, want[l.Item.Key], l.Quantity)
			total += l.Item.Price * int64(l.Quantity)
		}
		for k, q := range want {
			if q > 0 {
				require.True(t, seen[k], "missing %s", k)
			}
		}
		require.Equal(t, total, o.Total())
	}
}

func TestFromLinesMerges(t *testing.T) {
	flan := menu.Item{Key: "flan", Name: "Flan", Price: 599}
	o := FromLines(Line{Item: flan, Quantity: 1}, Line{Item: flan, Quantity: 2}, Line{Item: flan, Quantity: 0})
	assert.Equal(t, 1, o.Len())
	assert.Equal(t, 3, o.Quantity("flan"))
}
