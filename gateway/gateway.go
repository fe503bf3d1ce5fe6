// Package gateway handles the Discord gateway (or Websocket) connection, its
// frame envelope, and the protocol commands sent over it.
//
// This package does not abstract events into function handlers; that is the
// job of the session package, whose dispatcher consumes the raw frames this
// package decodes.
package gateway

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kagerou/hibiki/utils/json"
	"github.com/kagerou/hibiki/utils/wsutil"
)

// Gateway owns the Websocket and the protocol-level operations on it. The
// receive loop belongs to the session that opened the Gateway.
type Gateway struct {
	WS        *wsutil.Websocket
	WSTimeout time.Duration

	Identifier *Identifier
}

// NewGateway makes an undialed Gateway for the given Websocket URL.
func NewGateway(wsURL, token string) *Gateway {
	return NewCustomGateway(wsutil.New(wsURL), token)
}

// NewCustomGateway makes a Gateway over a custom Websocket. Tests use this
// with an in-memory Connection.
func NewCustomGateway(ws *wsutil.Websocket, token string) *Gateway {
	return &Gateway{
		WS:         ws,
		WSTimeout:  wsutil.WSTimeout,
		Identifier: DefaultIdentifier(token),
	}
}

// Open dials the Websocket and sends IDENTIFY.
func (g *Gateway) Open(ctx context.Context) error {
	if err := g.WS.Dial(ctx); err != nil {
		return errors.Wrap(err, "failed to dial gateway")
	}

	if err := g.Identify(ctx); err != nil {
		return errors.Wrap(err, "failed to identify")
	}

	return nil
}

// Listen exposes the socket's event channel.
func (g *Gateway) Listen() <-chan wsutil.Event {
	return g.WS.Listen()
}

// Close closes the underlying Websocket connection.
func (g *Gateway) Close() error {
	err := g.WS.Close()
	if errors.Is(err, wsutil.ErrWebsocketClosed) {
		return nil
	}
	return err
}

// Identify sends the op 2 IDENTIFY frame, respecting the identify rate
// limits.
func (g *Gateway) Identify(ctx context.Context) error {
	if err := g.Identifier.Wait(ctx); err != nil {
		return errors.Wrap(err, "can't wait for identify limits")
	}

	return g.SendCtx(ctx, IdentifyOP, g.Identifier.IdentifyData)
}

// Heartbeat sends the op 1 frame carrying the current Unix millisecond
// timestamp.
func (g *Gateway) Heartbeat() error {
	ms := time.Now().UnixNano() / int64(time.Millisecond)
	return g.Send(HeartbeatOP, ms)
}

// Send is SendCtx with a background context.
func (g *Gateway) Send(code OPCode, v interface{}) error {
	return g.SendCtx(context.Background(), code, v)
}

// SendCtx is a low-level function to send an OP payload to the gateway.
func (g *Gateway) SendCtx(ctx context.Context, code OPCode, v interface{}) error {
	var op = OP{
		Code: code,
	}

	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "failed to encode v")
		}

		op.Data = b
	}

	b, err := json.Marshal(op)
	if err != nil {
		return errors.Wrap(err, "failed to encode payload")
	}

	// WS is already thread-safe.
	return g.WS.SendCtx(ctx, b)
}
