// Package binance is the event source: it owns the websocket to the
// public market streams and turns raw frames into market events.
package binance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"trade-tape/internal/market"
	"trade-tape/internal/symbols"
)

// Stream selects which event class a connection subscribes to.
type Stream string

const (
	StreamTrade Stream = "trade"
	StreamDepth Stream = "depth@100ms"
)

const (
	DefaultEndpoint = "wss://stream.binance.com:9443/ws"

	readLimit    = 1 << 20
	readDeadline = 60 * time.Second
	pongWait     = 60 * time.Second
)

// Dialer opens single-symbol, single-stream connections.
type Dialer struct {
	Endpoint string
	Stream   Stream
	Log      *slog.Logger
}

// Dial connects and subscribes to one symbol's stream. Failures of any
// kind surface as a transport error; the caller decides retry policy.
func (d *Dialer) Dial(ctx context.Context, symbol string) (*Conn, error) {
	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	url := endpoint + "/" + symbols.Stream(symbol) + "@" + string(d.Stream)

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, &market.TransportError{Op: "dial", Symbol: symbol, Err: err}
	}

	c := &Conn{
		ws:     ws,
		symbol: symbol,
		log:    d.Log,
		events: make(chan market.Event, 256),
		done:   make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

// Conn is one live subscription. The read pump decodes frames into the
// events channel and closes it on any transport failure; Err then
// reports the failure. Close unblocks a pending read.
type Conn struct {
	ws     *websocket.Conn
	symbol string
	log    *slog.Logger

	events chan market.Event

	once sync.Once
	done chan struct{}

	errMu sync.Mutex
	err   error
}

func (c *Conn) Events() <-chan market.Event { return c.events }

// Err reports the transport failure that ended the pump, or nil when
// the connection was closed by the consumer. Valid once Events is
// closed.
func (c *Conn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) setErr(err error) {
	c.errMu.Lock()
	c.err = err
	c.errMu.Unlock()
}

func (c *Conn) readPump() {
	defer close(c.events)
	defer c.ws.Close()

	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(readDeadline))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	// The server pings periodically; answering keeps an otherwise idle
	// stream from tripping the read deadline.
	c.ws.SetPingHandler(func(appData string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(readDeadline))
		return c.ws.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				// Close requested by the consumer; not a failure.
			default:
				c.setErr(&market.TransportError{Op: "receive", Symbol: c.symbol, Err: err})
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(readDeadline))

		ev, err := parseEvent(raw)
		if err != nil {
			// Malformed payload: skip it, the stream stays up.
			if c.log != nil {
				c.log.Debug("skipping malformed payload", slog.String("symbol", c.symbol), slog.String("err", err.Error()))
			}
			continue
		}
		if ev == nil {
			continue
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}
