package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceorder/agent/internal/logging"
	"voiceorder/agent/internal/menu"
	"voiceorder/agent/internal/order"
)

func TestParseValid(t *testing.T) {
	a, err := Parse(`{"intent":"add_item","items":["Flan","Key Lime Pie"]}`)
	require.NoError(t, err)
	assert.Equal(t, AddItem, a.Intent)
	assert.Equal(t, []string{"Flan", "Key Lime Pie"}, a.Items)

	a, err = Parse("```json\n{\"intent\": \"confirm_order\", \"items\": []}\n```")
	require.NoError(t, err)
	assert.Equal(t, ConfirmOrder, a.Intent)
	assert.Empty(t, a.Items)
	assert.NotNil(t, a.Items)

	a, err = Parse("```{\"intent\":\"dance\",\"items\":[]}```")
	require.NoError(t, err)
	assert.Equal(t, Kind("dance"), a.Intent)
	assert.False(t, a.Intent.Known())
}

func TestParseFallsBack(t *testing.T) {
	cases := map[string]error{
		"Sure! I'll add that.":                  ErrNotJSON,
		`["add_item"]`:                          ErrNotJSON,
		`null`:                                  ErrNotJSON,
		`{"items":["Flan"]}`:                    ErrBadIntent,
		`{"intent":"","items":[]}`:              ErrBadIntent,
		`{"intent":7,"items":[]}`:               ErrBadIntent,
		`{"intent":"add_item"}`:                 ErrBadItems,
		`{"intent":"add_item","items":null}`:    ErrBadItems,
		`{"intent":"add_item","items":"Flan"}`:  ErrBadItems,
		`{"intent":"add_item","items":["a",1]}`: ErrBadItems,
	}
	for raw, want := range cases {
		a, err := Parse(raw)
		assert.ErrorIs(t, err, want, raw)
		assert.Equal(t, Fallback(), a, raw)
	}
}

func TestActionable(t *testing.T) {
	assert.True(t, Action{Intent: AddItem, Items: []string{"flan"}}.Actionable())
	assert.False(t, Action{Intent: AddItem}.Actionable())
	assert.False(t, Action{Intent: RemoveItem, Items: []string{}}.Actionable())
	assert.True(t, Action{Intent: ConfirmOrder}.Actionable())
	assert.True(t, Action{Intent: ClearOrder}.Actionable())
	assert.False(t, Action{Intent: QueryMenu}.Actionable())
	assert.False(t, Action{Intent: Other}.Actionable())
	assert.False(t, Action{Intent: "dance", Items: []string{"flan"}}.Actionable())
}

func TestPrompt(t *testing.T) {
	cat, err := menu.Default()
	require.NoError(t, err)
	o, _ := order.Add(cat, order.Order{}, []string{"flan", "flan"})

	p := Prompt("You are helpful.", o, "and a key lime pie")
	assert.True(t, strings.HasPrefix(p, "You are helpful.\n\nCurrent order: [2x Flan]\nUser said: \"and a key lime pie\""))
	assert.Contains(t, p, "'query_menu'")
	assert.Contains(t, p, `"items": [`)

	assert.Contains(t, Prompt("x", order.Order{}, "hi"), "Current order: [empty]")
}

type stubModel struct {
	reply  string
	err    error
	prompt string
}

func (s *stubModel) Classify(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func TestResolve(t *testing.T) {
	m := &stubModel{reply: "I think you want flan"}
	r := NewResolver(m, logging.NewNop())

	a, err := r.Resolve(context.Background(), "sys", order.Order{}, "flan please")
	require.NoError(t, err)
	assert.Equal(t, Fallback(), a)
	assert.Contains(t, m.prompt, `User said: "flan please"`)

	m.reply = `{"intent":"remove_item","items":["flan"]}`
	a, err = r.Resolve(context.Background(), "sys", order.Order{}, "no flan")
	require.NoError(t, err)
	assert.Equal(t, RemoveItem, a.Intent)

	m.err = errors.New("boom")
	_, err = r.Resolve(context.Background(), "sys", order.Order{}, "no flan")
	assert.Error(t, err)
}
