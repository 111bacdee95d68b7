package kiosk

import (
	"context"
	"net/http"

	ws "nhooyr.io/websocket"
)

// Conn is a message-framed duplex channel to the agent.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

type wsConn struct{ c *ws.Conn }

// Dial opens the agent websocket.
func Dial(ctx context.Context, url string, header http.Header) (Conn, error) {
	c, _, err := ws.Dial(ctx, url, &ws.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, err
	}
	c.SetReadLimit(64 << 10)
	return &wsConn{c: c}, nil
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	for {
		typ, data, err := w.c.Read(ctx)
		if err != nil {
			return nil, err
		}
		if typ == ws.MessageText || typ == ws.MessageBinary {
			return data, nil
		}
	}
}

func (w *wsConn) Write(ctx context.Context, data []byte) error {
	return w.c.Write(ctx, ws.MessageText, data)
}

func (w *wsConn) Close() error { return w.c.Close(ws.StatusNormalClosure, "bye") }
