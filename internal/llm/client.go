// Package llm talks to an OpenAI-compatible chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Turn is one entry of a conversation history.
type Turn struct {
	Role Role
	Text string
}

var ErrNoChoices = errors.New("llm: response has no choices")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: status=%d body=%s", e.Code, e.Body)
}

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type Client struct {
	opts  Options
	httpc *http.Client
}

func NewClient(opts Options) *Client {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{opts: opts, httpc: &http.Client{Timeout: opts.Timeout}}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Classify sends a single self-contained prompt and returns the raw reply.
func (c *Client) Classify(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, "classify", []chatMessage{{Role: "user", Content: prompt}})
}

// Converse continues a conversation. history holds the turns before utterance.
func (c *Client) Converse(ctx context.Context, history []Turn, systemPrompt, utterance string) (string, error) {
	msgs := make([]chatMessage, 0, len(history)+2)
	if systemPrompt != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: systemPrompt})
	}
	for _, t := range history {
		msgs = append(msgs, chatMessage{Role: apiRole(t.Role), Content: t.Text})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: utterance})
	return c.complete(ctx, "converse", msgs)
}

// Ping checks that the endpoint answers and accepts the key.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/models", nil)
	if err != nil {
		return err
	}
	c.authorize(req)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode/100 != 2 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

func (c *Client) complete(ctx context.Context, kind string, msgs []chatMessage) (string, error) {
	start := time.Now()
	text, err := c.do(ctx, msgs)
	metricRequestMS.WithLabelValues(kind).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metricErrors.WithLabelValues(kind).Inc()
		return "", err
	}
	return text, nil
}

func (c *Client) do(ctx context.Context, msgs []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.opts.Model,
		Messages:    msgs,
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &StatusError{Code: resp.StatusCode, Body: string(b)}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrNoChoices
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *Client) authorize(req *http.Request) {
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}
}

func apiRole(r Role) string {
	if r == RoleAgent {
		return "assistant"
	}
	return string(r)
}
