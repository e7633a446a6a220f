package render

import (
	"errors"
	"strings"
	"testing"

	"trade-tape/internal/engine"
	"trade-tape/internal/market"
)

func TestGroupThousands(t *testing.T) {
	cases := map[float64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		110.6:      "111",
		1234567.89: "1,234,568",
		987654321:  "987,654,321",
	}
	for in, want := range cases {
		if got := groupThousands(in); got != want {
			t.Errorf("groupThousands(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTapeBucketSideLine(t *testing.T) {
	var buf strings.Builder
	tape := NewTape(&buf, "▬", 100)
	tape.Connected("btcusdt")
	buf.Reset()

	totals := engine.SideTotals{Amount: 1.1, Value: 110.6}
	tape.BucketSide(1000, market.SideBuy, totals, engine.TierBuy, 0)

	line := strings.TrimSuffix(buf.String(), "\n")
	for _, want := range []string{"BUY", "$111", "(1.1000 BTC)", "@ 100.55", ansiCyan} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "▬") {
		t.Errorf("no bars expected: %q", line)
	}
}

func TestTapeBarGlyphCountAndTier(t *testing.T) {
	var buf strings.Builder
	tape := NewTape(&buf, "▬", 100)
	tape.Connected("ethusdt")
	buf.Reset()

	totals := engine.SideTotals{Amount: 500, Value: 1_250_000}
	tape.BucketSide(2000, market.SideSell, totals, engine.TierLarge, 125)

	out := buf.String()
	if got := strings.Count(out, "▬"); got != 125 {
		t.Fatalf("bar glyphs got %d want 125", got)
	}
	if !strings.Contains(out, ansiGold) {
		t.Fatal("large tier should render gold")
	}
}

func TestTapeConnectedBanner(t *testing.T) {
	var buf strings.Builder
	tape := NewTape(&buf, "▬", 100)
	tape.Connected("dogeusdt")

	out := buf.String()
	if !strings.Contains(out, "Connected to WebSocket for DOGE/USDT") {
		t.Fatalf("banner got %q", out)
	}
	if !strings.Contains(out, "Watching large trades (>$100) for DOGE/USDT") {
		t.Fatalf("watch line got %q", out)
	}
}

func TestTapeFeedError(t *testing.T) {
	var buf strings.Builder
	tape := NewTape(&buf, "▬", 100)
	tape.FeedError("btcusdt", errors.New("reset by peer"))

	out := buf.String()
	if !strings.Contains(out, "Connection Error for BTC/USDT") || !strings.Contains(out, ansiRed) {
		t.Fatalf("error line got %q", out)
	}
}

func countLines(s string) int {
	return strings.Count(s, "\n")
}

func TestBoardErasesExactlyLastBlock(t *testing.T) {
	var buf strings.Builder
	board := NewBoard(&buf, "▬", 100)
	board.Connected("btcusdt")
	buf.Reset()

	two := []engine.DepthSide{
		{Side: market.SideBid, Price: 42000.10, Qty: 0.5, Value: 21000, Tier: engine.TierBid, Bars: 2},
		{Side: market.SideAsk, Price: 42000.20, Qty: 0.25, Value: 10500, Tier: engine.TierAsk, Bars: 1},
	}
	board.DepthTop(1700000000200, two)
	first := buf.String()
	if strings.Contains(first, cursorUp) {
		t.Fatal("first draw must not erase anything")
	}
	if got := countLines(first); got != 5 {
		t.Fatalf("first block lines got %d want 5", got)
	}

	buf.Reset()
	one := two[:1]
	board.DepthTop(1700000000300, one)
	second := buf.String()
	if got := strings.Count(second, cursorUp); got != 5 {
		t.Fatalf("erase height got %d want 5", got)
	}
	if got := countLines(second); got != 4 {
		t.Fatalf("second block lines got %d want 4", got)
	}

	// And the next redraw erases the 4-line block, not the old 5.
	buf.Reset()
	board.DepthTop(1700000000400, two)
	if got := strings.Count(buf.String(), cursorUp); got != 4 {
		t.Fatalf("erase height got %d want 4", got)
	}
}

func TestBoardErrorStartsFreshBlock(t *testing.T) {
	var buf strings.Builder
	board := NewBoard(&buf, "▬", 100)
	board.Connected("btcusdt")
	board.DepthTop(1, []engine.DepthSide{
		{Side: market.SideBid, Price: 10, Qty: 20, Value: 200, Tier: engine.TierBid},
	})
	board.FeedError("btcusdt", errors.New("eof"))

	buf.Reset()
	board.DepthTop(2, []engine.DepthSide{
		{Side: market.SideAsk, Price: 10, Qty: 20, Value: 200, Tier: engine.TierAsk},
	})
	if strings.Contains(buf.String(), cursorUp) {
		t.Fatal("redraw after an error line must not erase it")
	}
}
