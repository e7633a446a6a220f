package engine

import (
	"testing"
	"time"

	"trade-tape/internal/market"
)

// recordingView captures engine projections for assertions.
type recordingView struct {
	connected []string
	buckets   []renderedSide
	depths    [][]DepthSide
	errors    []error
}

type renderedSide struct {
	key    int64
	side   market.Side
	totals SideTotals
	tier   Tier
	bars   int
}

func (v *recordingView) Connected(symbol string) { v.connected = append(v.connected, symbol) }

func (v *recordingView) BucketSide(key int64, side market.Side, totals SideTotals, tier Tier, bars int) {
	v.buckets = append(v.buckets, renderedSide{key, side, totals, tier, bars})
}

func (v *recordingView) DepthTop(ts int64, sides []DepthSide) {
	v.depths = append(v.depths, sides)
}

func (v *recordingView) FeedError(symbol string, err error) { v.errors = append(v.errors, err) }

func tapePipeline(view TapeView) *TradePipeline {
	return NewTradePipeline(
		nil,
		NewBucketer(time.Second),
		Thresholds{Value: 50, Large: 1e6, BarUnit: 10_000},
		view,
		nil,
	)
}

func TestTradePipelineEndToEnd(t *testing.T) {
	view := &recordingView{}
	p := tapePipeline(view)

	p.HandleEvent("BTCUSDT", market.Trade{Time: 1000, Side: market.SideBuy, Amount: 0.5, Price: 100})
	p.HandleEvent("BTCUSDT", market.Trade{Time: 1200, Side: market.SideBuy, Amount: 0.6, Price: 101})
	if len(view.buckets) != 0 {
		t.Fatal("nothing should render before rollover")
	}

	p.HandleEvent("BTCUSDT", market.Trade{Time: 2100, Side: market.SideSell, Amount: 2.0, Price: 99})
	if len(view.buckets) != 1 {
		t.Fatalf("rendered sides got %d want 1", len(view.buckets))
	}
	got := view.buckets[0]
	if got.side != market.SideBuy || got.key != 1000 {
		t.Fatalf("got %+v", got)
	}
	if !closeEnough(got.totals.Value, 110.6) || !closeEnough(got.totals.Amount, 1.1) {
		t.Fatalf("totals got %+v", got.totals)
	}
	if got.tier != TierBuy || got.bars != 0 {
		t.Fatalf("tier/bars got %v/%d", got.tier, got.bars)
	}

	// The open SELL bucket surfaces only at shutdown.
	p.Flush("BTCUSDT")
	if len(view.buckets) != 2 {
		t.Fatalf("flush should render the sell side, got %d", len(view.buckets))
	}
	if view.buckets[1].side != market.SideSell {
		t.Fatalf("flushed side got %v", view.buckets[1].side)
	}
}

func TestTradePipelineThresholdDropsQuietSides(t *testing.T) {
	view := &recordingView{}
	p := tapePipeline(view)

	// Total value 40 < 50: dropped silently, not carried forward.
	p.HandleEvent("BTCUSDT", market.Trade{Time: 1000, Side: market.SideBuy, Amount: 4, Price: 10})
	p.HandleEvent("BTCUSDT", market.Trade{Time: 2000, Side: market.SideBuy, Amount: 4, Price: 10})
	p.HandleEvent("BTCUSDT", market.Trade{Time: 3000, Side: market.SideBuy, Amount: 4, Price: 10})
	if len(view.buckets) != 0 {
		t.Fatalf("below-threshold sides rendered: %d", len(view.buckets))
	}
}

func TestTradePipelineNoiseFilterWiredIn(t *testing.T) {
	view := &recordingView{}
	p := NewTradePipeline(
		NewNoiseFilter(1e-4),
		NewBucketer(time.Second),
		Thresholds{Value: 50, Large: 1e6, BarUnit: 10_000},
		view,
		nil,
	)

	// Duplicate amount in the same second is suppressed before bucketing.
	p.HandleEvent("BTCUSDT", market.Trade{Time: 1000, Side: market.SideBuy, Amount: 1, Price: 100})
	p.HandleEvent("BTCUSDT", market.Trade{Time: 1500, Side: market.SideBuy, Amount: 1.00005, Price: 100})
	p.Flush("BTCUSDT")

	if len(view.buckets) != 1 {
		t.Fatalf("rendered sides got %d", len(view.buckets))
	}
	if !closeEnough(view.buckets[0].totals.Amount, 1) {
		t.Fatalf("duplicate accumulated: %+v", view.buckets[0].totals)
	}
}

func TestTradePipelineIgnoresDepthEvents(t *testing.T) {
	view := &recordingView{}
	p := tapePipeline(view)
	p.HandleEvent("BTCUSDT", market.DepthUpdate{Time: 1000})
	p.Flush("BTCUSDT")
	if len(view.buckets) != 0 || len(view.depths) != 0 {
		t.Fatal("depth event must be ignored by the trade pipeline")
	}
}

func TestDepthPipelinePerSideThreshold(t *testing.T) {
	view := &recordingView{}
	p := NewDepthPipeline(Thresholds{Value: 100, Large: 1e6, BarUnit: 10_000}, view, nil)

	p.HandleEvent("BTCUSDT", market.DepthUpdate{
		Time: 1234,
		Bid:  &market.Quote{Price: 100, Qty: 2},   // 200: shown
		Ask:  &market.Quote{Price: 100, Qty: 0.5}, // 50: hidden
	})
	if len(view.depths) != 1 {
		t.Fatalf("updates rendered got %d", len(view.depths))
	}
	sides := view.depths[0]
	if len(sides) != 1 || sides[0].Side != market.SideBid {
		t.Fatalf("sides got %+v", sides)
	}
	if !closeEnough(sides[0].Value, 200) {
		t.Fatalf("bid value got %v", sides[0].Value)
	}
	if sides[0].Tier != TierBid {
		t.Fatalf("tier got %v", sides[0].Tier)
	}
}

func TestDepthPipelineSkipsQuietAndEmptyUpdates(t *testing.T) {
	view := &recordingView{}
	p := NewDepthPipeline(Thresholds{Value: 100, Large: 1e6, BarUnit: 10_000}, view, nil)

	p.HandleEvent("BTCUSDT", market.DepthUpdate{Time: 1})
	p.HandleEvent("BTCUSDT", market.DepthUpdate{Time: 2, Bid: &market.Quote{Price: 10, Qty: 1}})
	if len(view.depths) != 0 {
		t.Fatalf("quiet updates rendered: %d", len(view.depths))
	}
}

func TestDepthPipelineLargeTier(t *testing.T) {
	view := &recordingView{}
	p := NewDepthPipeline(Thresholds{Value: 100, Large: 1e6, BarUnit: 10_000}, view, nil)

	p.HandleEvent("BTCUSDT", market.DepthUpdate{
		Time: 5,
		Ask:  &market.Quote{Price: 50_000, Qty: 30}, // 1.5M
	})
	if len(view.depths) != 1 {
		t.Fatal("expected a rendered update")
	}
	got := view.depths[0][0]
	if got.Tier != TierLarge {
		t.Fatalf("tier got %v want large", got.Tier)
	}
	if got.Bars != 150 {
		t.Fatalf("bars got %d want 150", got.Bars)
	}
}
