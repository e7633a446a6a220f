package engine

import (
	"trade-tape/internal/market"
)

// StatusView receives the supervisor's user-facing lifecycle lines.
type StatusView interface {
	// Connected announces a (re)subscription to a symbol.
	Connected(symbol string)
	// FeedError reports a transport failure ahead of a reconnect attempt.
	FeedError(symbol string, err error)
}

// TapeView renders finalized, threshold-passing bucket sides.
type TapeView interface {
	BucketSide(key int64, side market.Side, totals SideTotals, tier Tier, bars int)
}

// BoardView renders the qualifying sides of top-of-book updates.
type BoardView interface {
	DepthTop(ts int64, sides []DepthSide)
}

// DepthSide is one filtered, tiered side of a depth update.
type DepthSide struct {
	Side  market.Side
	Price float64
	Qty   float64
	Value float64
	Tier  Tier
	Bars  int
}

// Sink receives the same projections the view does, for export off-box.
// The Kafka producer implements it; a nil sink disables export.
type Sink interface {
	PublishBucketSide(symbol string, key int64, side market.Side, totals SideTotals) error
	PublishDepthTop(symbol string, ts int64, sides []DepthSide) error
}

// Handler processes decoded events for one instrument. Reset is called
// by the supervisor whenever the stream restarts (switch or reconnect)
// so no per-bucket or filter state survives into the new connection.
type Handler interface {
	HandleEvent(symbol string, ev market.Event)
	Reset()
	// Flush emits whatever the handler is still holding; called once at
	// shutdown.
	Flush(symbol string)
}

// TradePipeline is the tape path: noise filter, bucketer, thresholds,
// view. Ingesting a trade that rolls the bucket over emits the closed
// bucket's qualifying sides in BUY, SELL order.
type TradePipeline struct {
	noise    *NoiseFilter // nil disables noise filtering
	bucketer *Bucketer
	policy   Thresholds
	view     TapeView
	sink     Sink
}

func NewTradePipeline(noise *NoiseFilter, bucketer *Bucketer, policy Thresholds, view TapeView, sink Sink) *TradePipeline {
	return &TradePipeline{noise: noise, bucketer: bucketer, policy: policy, view: view, sink: sink}
}

func (p *TradePipeline) HandleEvent(symbol string, ev market.Event) {
	t, ok := ev.(market.Trade)
	if !ok {
		return
	}
	if p.noise != nil && !p.noise.Accept(t.Amount, t.Time/1000) {
		return
	}
	if done := p.bucketer.Ingest(t); done != nil {
		p.emit(symbol, done)
	}
}

func (p *TradePipeline) emit(symbol string, b *Bucket) {
	for _, side := range []market.Side{market.SideBuy, market.SideSell} {
		totals := b.Totals(side)
		if !p.policy.Exceeds(totals.Value) {
			continue
		}
		tier := p.policy.TierFor(totals.Value, side)
		bars := p.policy.Bars(totals.Value)
		p.view.BucketSide(b.Key, side, totals, tier, bars)
		if p.sink != nil {
			_ = p.sink.PublishBucketSide(symbol, b.Key, side, totals)
		}
	}
}

func (p *TradePipeline) Reset() {
	p.bucketer.Reset()
	if p.noise != nil {
		p.noise.Reset()
	}
}

func (p *TradePipeline) Flush(symbol string) {
	if done := p.bucketer.Flush(); done != nil {
		p.emit(symbol, done)
	}
}

// DepthPipeline is the order-book path. Every update is its own bucket:
// no accumulation, immediate flush, each side thresholded on notional
// independently.
type DepthPipeline struct {
	policy Thresholds
	view   BoardView
	sink   Sink
}

func NewDepthPipeline(policy Thresholds, view BoardView, sink Sink) *DepthPipeline {
	return &DepthPipeline{policy: policy, view: view, sink: sink}
}

func (p *DepthPipeline) HandleEvent(symbol string, ev market.Event) {
	d, ok := ev.(market.DepthUpdate)
	if !ok {
		return
	}
	sides := make([]DepthSide, 0, 2)
	if s, ok := p.qualify(market.SideBid, d.Bid); ok {
		sides = append(sides, s)
	}
	if s, ok := p.qualify(market.SideAsk, d.Ask); ok {
		sides = append(sides, s)
	}
	if len(sides) == 0 {
		return
	}
	p.view.DepthTop(d.Time, sides)
	if p.sink != nil {
		_ = p.sink.PublishDepthTop(symbol, d.Time, sides)
	}
}

func (p *DepthPipeline) qualify(side market.Side, q *market.Quote) (DepthSide, bool) {
	if q == nil {
		return DepthSide{}, false
	}
	v := q.Notional()
	if !p.policy.Exceeds(v) {
		return DepthSide{}, false
	}
	return DepthSide{
		Side:  side,
		Price: q.Price,
		Qty:   q.Qty,
		Value: v,
		Tier:  p.policy.TierFor(v, side),
		Bars:  p.policy.Bars(v),
	}, true
}

func (p *DepthPipeline) Reset() {}

func (p *DepthPipeline) Flush(symbol string) {}
