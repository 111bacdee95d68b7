package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"voiceorder/agent/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Console kiosk for the voice ordering agent",
	Long: `Connects to the agent over websocket and plays the customer side of the
conversation. Each line typed on stdin is one utterance.`,
	RunE: runKiosk,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.String("url", "ws://localhost:8080/ws", "agent websocket URL")
	f.String("prompt", config.DefaultSystemPrompt, "system prompt sent when the session opens")
	f.String("restaurant", "Mario's Kitchen", "restaurant name printed on receipts")
	f.String("export-dir", ".", "directory finalized receipts are written to")
	f.String("token-secret", os.Getenv("KIOSK_TOKEN_SECRET"), "shared secret used to mint a kiosk token")
	f.String("kiosk-id", "kiosk-1", "kiosk identity carried in the token")
	f.Duration("token-ttl", time.Hour, "lifetime of the minted token")
	f.Duration("speak-delay", 20*time.Millisecond, "simulated speaking time per character")
	f.String("log-level", "warn", "log level")
}
