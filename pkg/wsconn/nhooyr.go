package wsconn

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"nhooyr.io/websocket"
)

// NhooyrDialer dials with nhooyr.io/websocket. Compression is disabled.
type NhooyrDialer struct {
	// HTTPClient is used for the upgrade request, http.DefaultClient if nil.
	HTTPClient *http.Client
}

func (d NhooyrDialer) Dial(ctx context.Context, url string, opts DialOptions) (Conn, error) {
	url, err := WebsocketURL(url)
	if err != nil {
		return nil, err
	}

	conn, upgradeResponse, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient:      d.HTTPClient,
		HTTPHeader:      opts.Header,
		Subprotocols:    opts.Subprotocols,
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		return nil, err
	}
	if upgradeResponse.StatusCode != http.StatusSwitchingProtocols {
		_ = conn.CloseNow()
		return nil, fmt.Errorf("upgrade unsuccessful: %s", upgradeResponse.Status)
	}

	return &nhooyrConn{conn: conn}, nil
}

type nhooyrConn struct {
	conn *websocket.Conn
}

func (c *nhooyrConn) Read(ctx context.Context) (MessageType, []byte, error) {
	typ, data, err := c.conn.Read(ctx)
	if err != nil {
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			return 0, nil, ErrClosed
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, err
	}

	if typ == websocket.MessageBinary {
		return MessageBinary, data, nil
	}
	return MessageText, data, nil
}

func (c *nhooyrConn) Write(ctx context.Context, typ MessageType, data []byte) error {
	messageType := websocket.MessageText
	if typ == MessageBinary {
		messageType = websocket.MessageBinary
	}
	return c.conn.Write(ctx, messageType, data)
}

func (c *nhooyrConn) Close() error {
	err := c.conn.Close(websocket.StatusNormalClosure, "")
	if err == nil || errors.Is(err, net.ErrClosed) {
		return nil
	}
	var closeErr websocket.CloseError
	if errors.As(err, &closeErr) {
		return nil
	}
	return err
}

func (c *nhooyrConn) Subprotocol() string {
	return c.conn.Subprotocol()
}
