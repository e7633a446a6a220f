package market

// Side classifies a trade by its aggressor (BUY/SELL) or a book level
// by its book side (BID/ASK). The two pairs are never mixed: trades
// carry BUY/SELL, depth updates carry BID/ASK.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
	SideBid  Side = "BID"
	SideAsk  Side = "ASK"
)

// Event is a single message decoded off the feed. Timestamps are
// millisecond epoch and non-decreasing per connection only; nothing may
// assume monotonicity across a reconnect.
type Event interface {
	EventTime() int64
}

// Trade is one executed trade. Side is derived from the buyer-maker
// flag: buyer was maker means the aggressor sold.
type Trade struct {
	Symbol string
	Time   int64 // ms epoch
	Price  float64
	Amount float64
	Side   Side
}

func (t Trade) EventTime() int64 { return t.Time }

// Quote is one side of the top of book.
type Quote struct {
	Price float64
	Qty   float64
}

// Notional is the quote-currency value resting at the level.
func (q Quote) Notional() float64 { return q.Price * q.Qty }

// DepthUpdate carries the best bid and ask after a book change. A nil
// side means the update reported no liquidity there.
type DepthUpdate struct {
	Symbol string
	Time   int64 // ms epoch
	Bid    *Quote
	Ask    *Quote
}

func (d DepthUpdate) EventTime() int64 { return d.Time }
