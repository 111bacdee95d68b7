package kiosk

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// ConsoleCapture treats each input line as one recognized utterance. A
// single goroutine owns the reader so a cancelled capture loses no input.
type ConsoleCapture struct {
	out    io.Writer
	prompt string
	lines  chan string
	errc   chan error
	start  sync.Once
	in     io.Reader
}

func NewConsoleCapture(in io.Reader, out io.Writer, prompt string) *ConsoleCapture {
	return &ConsoleCapture{in: in, out: out, prompt: prompt, lines: make(chan string), errc: make(chan error, 1)}
}

func (c *ConsoleCapture) pump() {
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		c.lines <- sc.Text()
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	c.errc <- err
	close(c.lines)
}

func (c *ConsoleCapture) Capture(ctx context.Context) (string, error) {
	c.start.Do(func() { go c.pump() })
	if c.prompt != "" && c.out != nil {
		fmt.Fprint(c.out, c.prompt)
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			err := <-c.errc
			c.errc <- err
			return "", err
		}
		return line, nil
	}
}

// ConsolePlayback prints agent speech. Delay approximates speaking time per
// character so cancellation can be observed.
type ConsolePlayback struct {
	out   io.Writer
	delay time.Duration
	mu    sync.Mutex
}

func NewConsolePlayback(out io.Writer, perChar time.Duration) *ConsolePlayback {
	return &ConsolePlayback{out: out, delay: perChar}
}

func (p *ConsolePlayback) Speak(ctx context.Context, text string) error {
	p.mu.Lock()
	fmt.Fprintf(p.out, "Agent: %s\n", text)
	p.mu.Unlock()
	if p.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.delay * time.Duration(len(text)))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
