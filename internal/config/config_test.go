package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear relevant envs
	for _, k := range []string{"PORT", "LOG_LEVEL", "LLM_MODEL", "LLM_TIMEOUT_SECONDS", "TICKETS_BACKEND", "AGENT_GREETING", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	c := Load()

	if c.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", c.Server.Port)
	}
	if c.Server.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", c.Server.LogLevel)
	}
	if c.LLM.Timeout != 30*time.Second {
		t.Fatalf("expected 30s llm timeout, got %s", c.LLM.Timeout)
	}
	if c.Tickets.Backend != "memory" {
		t.Fatalf("expected memory ticket backend, got %q", c.Tickets.Backend)
	}
	if c.Agent.Greeting != DefaultGreeting {
		t.Fatalf("expected default greeting, got %q", c.Agent.Greeting)
	}
	if len(c.Server.AllowedOrigins) != 0 {
		t.Fatalf("expected no allowed origins, got %v", c.Server.AllowedOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LLM_BASE_URL", "http://llm.local/v1/")
	t.Setenv("TICKETS_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("ALLOWED_ORIGINS", "localhost:3000, kiosk.local")

	c := Load()

	if c.Server.Port != "9000" {
		t.Fatalf("expected port 9000, got %q", c.Server.Port)
	}
	if c.LLM.BaseURL != "http://llm.local/v1" {
		t.Fatalf("expected trimmed base url, got %q", c.LLM.BaseURL)
	}
	if c.Tickets.Backend != "redis" {
		t.Fatalf("expected lowercased backend, got %q", c.Tickets.Backend)
	}
	if len(c.Server.AllowedOrigins) != 2 || c.Server.AllowedOrigins[1] != "kiosk.local" {
		t.Fatalf("unexpected origins %v", c.Server.AllowedOrigins)
	}
}

func TestValidate(t *testing.T) {
	var c Config
	if err := c.Validate(); !errors.Is(err, ErrMissingLLMKey) {
		t.Fatalf("expected missing key error, got %v", err)
	}

	c.LLM.APIKey = "sk-test"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	c.Tickets.Backend = "amqp"
	if err := c.Validate(); !errors.Is(err, ErrMissingTicketDSN) {
		t.Fatalf("expected missing dsn error, got %v", err)
	}

	c.Tickets.Backend = "kafka"
	if err := c.Validate(); !errors.Is(err, ErrTicketsBackend) {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}
