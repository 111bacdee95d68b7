package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"voiceorder/agent/internal/auth"
	"voiceorder/agent/internal/kiosk"
	"voiceorder/agent/internal/logging"
	"voiceorder/agent/internal/protocol"
)

func main() {
	Execute()
}

// eofCapture ends the session when stdin is exhausted.
type eofCapture struct {
	inner kiosk.Capture
	stop  context.CancelFunc
}

func (e eofCapture) Capture(ctx context.Context) (string, error) {
	text, err := e.inner.Capture(ctx)
	if errors.Is(err, io.EOF) {
		e.stop()
	}
	return text, err
}

func runKiosk(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	rawURL, _ := f.GetString("url")
	prompt, _ := f.GetString("prompt")
	restaurant, _ := f.GetString("restaurant")
	exportDir, _ := f.GetString("export-dir")
	secret, _ := f.GetString("token-secret")
	kioskID, _ := f.GetString("kiosk-id")
	ttl, _ := f.GetDuration("token-ttl")
	delay, _ := f.GetDuration("speak-delay")
	level, _ := f.GetString("log-level")

	log := logging.New(level, "")

	target, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("bad --url: %w", err)
	}
	if secret != "" {
		token, err := auth.IssueKioskToken(secret, kioskID, time.Now(), ttl)
		if err != nil {
			return err
		}
		q := target.Query()
		q.Set("token", token)
		q.Set("kiosk_id", kioskID)
		target.RawQuery = q.Encode()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, err := kiosk.Dial(dctx, target.String(), nil)
	cancel()
	if err != nil {
		return fmt.Errorf("connect %s: %w", rawURL, err)
	}

	out := cmd.OutOrStdout()
	hooks := kiosk.Hooks{
		OnState: func(s kiosk.State) {
			if s == kiosk.Listening {
				fmt.Fprintln(out, "[listening]")
			}
		},
		OnOrder: func(lines []protocol.OrderLine) {
			fmt.Fprintf(out, "\n%s\n\n", kiosk.RenderOrder(lines))
		},
		OnFinalize: func(lines []protocol.OrderLine) {
			path, err := kiosk.WriteReceipt(exportDir, restaurant, lines, time.Now())
			if err != nil {
				fmt.Fprintf(out, "Status: receipt not written: %v\n", err)
				return
			}
			fmt.Fprintf(out, "Status: receipt saved to %s\n", path)
		},
		OnStatus: func(text string) { fmt.Fprintf(out, "Status: %s\n", text) },
	}

	c := kiosk.NewController(conn,
		eofCapture{inner: kiosk.NewConsoleCapture(os.Stdin, out, "You: "), stop: stop},
		kiosk.NewConsolePlayback(out, delay),
		hooks, log)

	err = c.Run(ctx, prompt)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, "Goodbye.")
		return nil
	}
	return err
}
