package market

import "fmt"

// TransportError covers every connection-level failure uniformly:
// refused dial, reset, protocol violation, unexpected close. The
// supervisor retries on this kind and only this kind; malformed
// individual messages are skipped at decode time and never surface as
// an error.
type TransportError struct {
	Op     string // "dial" or "receive"
	Symbol string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Symbol, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
