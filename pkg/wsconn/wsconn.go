// Package wsconn abstracts the WebSocket connection a subscription runs on.
//
// Two implementations are provided. NhooyrDialer is the default,
// GorillaDialer additionally supports dialing through a proxy.
package wsconn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type MessageType int

const (
	MessageText MessageType = iota + 1
	MessageBinary
)

func (m MessageType) String() string {
	switch m {
	case MessageText:
		return "text"
	case MessageBinary:
		return "binary"
	}
	return fmt.Sprintf("MessageType(%d)", int(m))
}

// ErrClosed is returned by Read once the peer closed the connection
// normally.
var ErrClosed = errors.New("websocket: connection closed")

const DefaultWriteTimeout = 5 * time.Second

// Conn is a single WebSocket connection. Read must not be called
// concurrently, Write may be called from multiple goroutines.
type Conn interface {
	// Read blocks until a message arrives. Cancelling ctx aborts the read
	// and renders the connection unusable.
	Read(ctx context.Context) (MessageType, []byte, error)
	Write(ctx context.Context, typ MessageType, data []byte) error
	Close() error
	// Subprotocol returns the sub-protocol the server selected, if any.
	Subprotocol() string
}

type DialOptions struct {
	Header       http.Header
	Subprotocols []string
}

type Dialer interface {
	Dial(ctx context.Context, url string, opts DialOptions) (Conn, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, url string, opts DialOptions) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context, url string, opts DialOptions) (Conn, error) {
	return f(ctx, url, opts)
}

// WebsocketURL rewrites http and https endpoints to ws and wss.
func WebsocketURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported websocket scheme %q", u.Scheme)
	}
	return u.String(), nil
}
