package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingLLMKey    = errors.New("LLM_API_KEY is required")
	ErrTicketsBackend   = errors.New("unknown TICKETS_BACKEND")
	ErrMissingTicketDSN = errors.New("ticket backend address not configured")
)

const (
	DefaultSystemPrompt = "You are a helpful order-taking assistant for Mario's Kitchen."
	DefaultGreeting     = "Hello! Welcome to Mario's Kitchen. How can I help you take your order?"
)

type Config struct {
	Server struct {
		Port           string
		LogLevel       string
		LogFile        string
		GRPCHealthAddr string
		AllowedOrigins []string
	}
	LLM struct {
		BaseURL     string
		APIKey      string
		Model       string
		Temperature float64
		MaxTokens   int
		Timeout     time.Duration
	}
	Agent struct {
		SystemPrompt string
		Greeting     string
		MenuFile     string
	}
	Tickets struct {
		Backend      string
		RedisAddr    string
		RedisTTL     time.Duration
		AMQPURL      string
		AMQPExchange string
		PostgresDSN  string
	}
	Kiosk struct {
		TokenSecret   string
		TokenSkewSecs int
	}
}

func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.5)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout_seconds", 30)

	v.SetDefault("agent.system_prompt", DefaultSystemPrompt)
	v.SetDefault("agent.greeting", DefaultGreeting)

	v.SetDefault("tickets.backend", "memory")
	v.SetDefault("tickets.redis_ttl_hours", 24)
	v.SetDefault("tickets.amqp_exchange", "kitchen_topic")

	v.SetDefault("kiosk.token_skew_seconds", 60)

	// Map envs
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.log_level", "LOG_LEVEL")
	v.BindEnv("server.log_file", "LOG_FILE")
	v.BindEnv("server.grpc_health_addr", "GRPC_HEALTH_ADDR")
	v.BindEnv("server.allowed_origins", "ALLOWED_ORIGINS")

	v.BindEnv("llm.base_url", "LLM_BASE_URL")
	v.BindEnv("llm.api_key", "LLM_API_KEY")
	v.BindEnv("llm.model", "LLM_MODEL")
	v.BindEnv("llm.temperature", "LLM_TEMPERATURE")
	v.BindEnv("llm.max_tokens", "LLM_MAX_TOKENS")
	v.BindEnv("llm.timeout_seconds", "LLM_TIMEOUT_SECONDS")

	v.BindEnv("agent.system_prompt", "AGENT_SYSTEM_PROMPT")
	v.BindEnv("agent.greeting", "AGENT_GREETING")
	v.BindEnv("agent.menu_file", "MENU_FILE")

	v.BindEnv("tickets.backend", "TICKETS_BACKEND")
	v.BindEnv("tickets.redis_addr", "REDIS_ADDR")
	v.BindEnv("tickets.redis_ttl_hours", "REDIS_TTL_HOURS")
	v.BindEnv("tickets.amqp_url", "AMQP_URL")
	v.BindEnv("tickets.amqp_exchange", "AMQP_EXCHANGE")
	v.BindEnv("tickets.postgres_dsn", "POSTGRES_DSN")

	v.BindEnv("kiosk.token_secret", "KIOSK_TOKEN_SECRET")
	v.BindEnv("kiosk.token_skew_seconds", "KIOSK_TOKEN_SKEW_SECONDS")

	var c Config
	c.Server.Port = toString(v.Get("server.port"))
	c.Server.LogLevel = v.GetString("server.log_level")
	c.Server.LogFile = v.GetString("server.log_file")
	c.Server.GRPCHealthAddr = v.GetString("server.grpc_health_addr")
	c.Server.AllowedOrigins = splitList(v.GetString("server.allowed_origins"))

	c.LLM.BaseURL = strings.TrimRight(v.GetString("llm.base_url"), "/")
	c.LLM.APIKey = v.GetString("llm.api_key")
	c.LLM.Model = v.GetString("llm.model")
	c.LLM.Temperature = v.GetFloat64("llm.temperature")
	c.LLM.MaxTokens = v.GetInt("llm.max_tokens")
	c.LLM.Timeout = time.Duration(v.GetInt("llm.timeout_seconds")) * time.Second

	c.Agent.SystemPrompt = v.GetString("agent.system_prompt")
	c.Agent.Greeting = v.GetString("agent.greeting")
	c.Agent.MenuFile = v.GetString("agent.menu_file")

	c.Tickets.Backend = strings.ToLower(strings.TrimSpace(v.GetString("tickets.backend")))
	c.Tickets.RedisAddr = v.GetString("tickets.redis_addr")
	c.Tickets.RedisTTL = time.Duration(v.GetInt("tickets.redis_ttl_hours")) * time.Hour
	c.Tickets.AMQPURL = v.GetString("tickets.amqp_url")
	c.Tickets.AMQPExchange = v.GetString("tickets.amqp_exchange")
	c.Tickets.PostgresDSN = v.GetString("tickets.postgres_dsn")

	c.Kiosk.TokenSecret = v.GetString("kiosk.token_secret")
	c.Kiosk.TokenSkewSecs = v.GetInt("kiosk.token_skew_seconds")

	return c
}

// Validate reports configuration that must abort startup.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingLLMKey
	}
	switch c.Tickets.Backend {
	case "", "memory":
	case "redis":
		if c.Tickets.RedisAddr == "" {
			return fmt.Errorf("%w: REDIS_ADDR", ErrMissingTicketDSN)
		}
	case "amqp":
		if c.Tickets.AMQPURL == "" {
			return fmt.Errorf("%w: AMQP_URL", ErrMissingTicketDSN)
		}
	case "postgres":
		if c.Tickets.PostgresDSN == "" {
			return fmt.Errorf("%w: POSTGRES_DSN", ErrMissingTicketDSN)
		}
	default:
		return fmt.Errorf("%w: %q", ErrTicketsBackend, c.Tickets.Backend)
	}
	return nil
}

func toString(v any) string { return fmt.Sprint(v) }

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
