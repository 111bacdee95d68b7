package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/", APIKey: "k", Model: "m", Temperature: 0.5, MaxTokens: 64, Timeout: 5 * time.Second})
}

func reply(w http.ResponseWriter, content string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
	})
}

func TestConverseSendsHistory(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		reply(w, "  We have flan.  ")
	})

	hist := []Turn{{RoleUser, "hi"}, {RoleAgent, "hello"}}
	out, err := c.Converse(context.Background(), hist, "be nice", "what desserts?")
	require.NoError(t, err)
	assert.Equal(t, "We have flan.", out)

	require.Len(t, got.Messages, 4)
	assert.Equal(t, chatMessage{"system", "be nice"}, got.Messages[0])
	assert.Equal(t, chatMessage{"assistant", "hello"}, got.Messages[2])
	assert.Equal(t, chatMessage{"user", "what desserts?"}, got.Messages[3])
	assert.Equal(t, "m", got.Model)
	assert.Equal(t, 64, got.MaxTokens)
}

func TestClassifySingleMessage(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		reply(w, `{"intent":"other","items":[]}`)
	})
	out, err := c.Classify(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"intent":"other","items":[]}`, out)
	assert.Equal(t, []chatMessage{{"user", "prompt"}}, got.Messages)
}

func TestErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	})
	_, err := c.Classify(context.Background(), "x")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, err = c.Classify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	assert.NoError(t, c.Ping(context.Background()))

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	assert.Error(t, c.Ping(context.Background()))
}
