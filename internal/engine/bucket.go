package engine

import (
	"time"

	"trade-tape/internal/market"
)

// SideTotals accumulates one side of a bucket.
type SideTotals struct {
	Amount float64 // sum of base-asset amounts
	Value  float64 // sum of amount*price, quote currency
}

// AvgPrice is derived at emission time, never stored cumulatively.
func (t SideTotals) AvgPrice() float64 {
	if t.Amount == 0 {
		return 0
	}
	return t.Value / t.Amount
}

// Bucket is one fixed-width time window of trade totals. Key is the
// millisecond timestamp truncated to the bucket width.
type Bucket struct {
	Key  int64
	Buy  SideTotals
	Sell SideTotals
}

// Totals returns the accumulated totals for a side.
func (b Bucket) Totals(side market.Side) SideTotals {
	if side == market.SideSell {
		return b.Sell
	}
	return b.Buy
}

// Bucketer folds trades into the current bucket and emits the previous
// bucket on rollover. The current bucket is replaced wholesale at each
// rollover and on Reset, so no totals can leak across windows or
// instrument switches.
type Bucketer struct {
	widthMs int64
	cur     *Bucket
}

func NewBucketer(width time.Duration) *Bucketer {
	ms := width.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return &Bucketer{widthMs: ms}
}

// Ingest accumulates one trade. When the trade's truncated timestamp
// differs from the open bucket's key, the open bucket is returned
// finalized and a fresh bucket takes the new trade.
func (b *Bucketer) Ingest(t market.Trade) *Bucket {
	key := t.Time - t.Time%b.widthMs

	var done *Bucket
	if b.cur == nil {
		b.cur = &Bucket{Key: key}
	} else if key != b.cur.Key {
		done = b.cur
		b.cur = &Bucket{Key: key}
	}

	switch t.Side {
	case market.SideSell:
		b.cur.Sell.Amount += t.Amount
		b.cur.Sell.Value += t.Amount * t.Price
	default:
		b.cur.Buy.Amount += t.Amount
		b.cur.Buy.Value += t.Amount * t.Price
	}
	return done
}

// Flush closes and returns the open bucket, if any. Used only at
// shutdown; a live stream finalizes buckets through Ingest rollovers.
func (b *Bucketer) Flush() *Bucket {
	done := b.cur
	b.cur = nil
	return done
}

// Reset discards the open bucket without emitting it. Switching
// instruments abandons partial aggregation.
func (b *Bucketer) Reset() {
	b.cur = nil
}
