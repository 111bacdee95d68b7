package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates the application logger. Text goes to stderr; when file is set
// JSON records are also written to a size-rotated log file.
func New(level, file string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	text := slog.NewTextHandler(os.Stderr, opts)
	if file == "" {
		return slog.New(text)
	}
	w := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    64, // MB
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	}
	return slog.New(fanout{text, slog.NewJSONHandler(w, opts)})
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
