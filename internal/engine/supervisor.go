package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trade-tape/internal/control"
	"trade-tape/internal/market"
)

// Conn is one live feed connection. Events is closed when the
// connection dies, after which Err reports the transport failure (nil
// when the close was requested by the consumer). Close must unblock a
// pending read.
type Conn interface {
	Events() <-chan market.Event
	Err() error
	Close() error
}

// DialFunc opens a Conn subscribed to one symbol.
type DialFunc func(ctx context.Context, symbol string) (Conn, error)

type phase int

const (
	phaseConnecting phase = iota
	phaseStreaming
	phaseBackoff
)

// Supervisor owns the connection lifecycle and the single engine loop.
// It drains the control channel every iteration, reconnects on symbol
// switches and transport errors, and never terminates on a transport
// failure. All handler state is owned by this one goroutine.
type Supervisor struct {
	dial    DialFunc
	control *control.Channel
	handler Handler
	view    StatusView
	log     *slog.Logger
	backoff time.Duration

	symbol string
	conn   Conn
}

func NewSupervisor(dial DialFunc, ctrl *control.Channel, handler Handler, view StatusView, logger *slog.Logger, symbol string, backoff time.Duration) *Supervisor {
	return &Supervisor{
		dial:    dial,
		control: ctrl,
		handler: handler,
		view:    view,
		log:     logger,
		backoff: backoff,
		symbol:  symbol,
	}
}

// Run drives the CONNECTING/STREAMING/BACKOFF state machine until the
// context is canceled. Transport errors are retried forever with a
// constant delay; any other dial error is considered a bug and aborts.
func (s *Supervisor) Run(ctx context.Context) error {
	ph := phaseConnecting
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch ph {
		case phaseConnecting:
			var err error
			if ph, err = s.connect(ctx); err != nil {
				return err
			}
		case phaseStreaming:
			ph = s.stream(ctx)
		case phaseBackoff:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.backoff):
				ph = phaseConnecting
			}
		}
	}
}

func (s *Supervisor) connect(ctx context.Context) (phase, error) {
	// A switch requested during backoff or a burst of requests: only
	// the most recent symbol matters.
	if sym, ok := s.control.Drain(); ok {
		s.switchTo(sym)
	}
	conn, err := s.dial(ctx, s.symbol)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return phaseConnecting, nil // Run observes ctx and exits
		}
		var te *market.TransportError
		if !errors.As(err, &te) {
			// Not a connection problem; retrying would hide a bug.
			s.log.Error("dial failed with non-transport error", slog.String("symbol", s.symbol), slog.String("err", err.Error()))
			return phaseConnecting, fmt.Errorf("dial %s: %w", s.symbol, err)
		}
		s.view.FeedError(s.symbol, err)
		return phaseBackoff, nil
	}
	s.conn = conn
	s.view.Connected(s.symbol)
	return phaseStreaming, nil
}

func (s *Supervisor) stream(ctx context.Context) phase {
	defer func() {
		_ = s.conn.Close()
		s.conn = nil
	}()
	for {
		select {
		case <-ctx.Done():
			// Closing the connection first guarantees no event can land
			// after the final flush.
			_ = s.conn.Close()
			s.handler.Flush(s.symbol)
			return phaseConnecting // Run observes ctx and exits
		case sym := <-s.control.C():
			s.switchTo(s.control.Coalesce(sym))
			return phaseConnecting
		case ev, ok := <-s.conn.Events():
			if !ok {
				err := s.conn.Err()
				if err == nil {
					err = &market.TransportError{Op: "receive", Symbol: s.symbol, Err: errors.New("connection closed")}
				}
				s.view.FeedError(s.symbol, err)
				s.handler.Reset()
				return phaseBackoff
			}
			s.handler.HandleEvent(s.symbol, ev)
		}
	}
}

// switchTo abandons the current instrument's partial state. Events from
// the old connection still in flight are never processed: the old Conn
// is closed and its channel left undrained.
func (s *Supervisor) switchTo(symbol string) {
	s.log.Info("switching instrument", slog.String("from", s.symbol), slog.String("to", symbol))
	s.symbol = symbol
	s.handler.Reset()
}
