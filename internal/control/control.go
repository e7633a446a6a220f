// Package control carries instrument-switch requests from the console
// input goroutine to the engine loop. The channel is the only structure
// shared between the two; producers never block and the consumer never
// waits on a producer.
package control

import (
	"bufio"
	"io"
	"strings"
)

// Channel is a multi-producer, single-consumer queue of symbol-switch
// requests. When producers outrun the consumer the oldest unconsumed
// request is dropped: intermediate switches may be coalesced, the most
// recent one is always retained.
type Channel struct {
	ch chan string
}

func NewChannel() *Channel {
	return &Channel{ch: make(chan string, 8)}
}

// Push enqueues a request without ever blocking the caller.
func (c *Channel) Push(symbol string) {
	for {
		select {
		case c.ch <- symbol:
			return
		default:
		}
		// Full: evict the oldest request and retry.
		select {
		case <-c.ch:
		default:
		}
	}
}

// C exposes the queue for use in a select.
func (c *Channel) C() <-chan string { return c.ch }

// Drain empties the queue and returns the most recent request, if any.
func (c *Channel) Drain() (string, bool) {
	var (
		last string
		ok   bool
	)
	for {
		select {
		case s := <-c.ch:
			last, ok = s, true
		default:
			return last, ok
		}
	}
}

// Coalesce folds any further queued requests on top of an already
// received one, so the consumer acts on the latest symbol only.
func (c *Channel) Coalesce(first string) string {
	if last, ok := c.Drain(); ok {
		return last
	}
	return first
}

// ReadLines consumes line-oriented input until EOF, normalizes each
// non-empty line through canon and pushes the result. It is meant to
// run on its own goroutine wrapping os.Stdin; the blocking read never
// touches the engine loop.
func ReadLines(r io.Reader, canon func(string) string, ch *Channel) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if sym := canon(line); sym != "" {
			ch.Push(sym)
		}
	}
}
