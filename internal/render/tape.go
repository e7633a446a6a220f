// Package render turns engine output into colored console text. It
// performs no engine state mutation; the only state kept is the
// bookkeeping the in-place board needs to erase what it last drew.
package render

import (
	"fmt"
	"io"

	"trade-tape/internal/engine"
	"trade-tape/internal/market"
	"trade-tape/internal/symbols"
)

// Tape is the append-only trade view: one line per finalized,
// qualifying bucket side.
type Tape struct {
	w         io.Writer
	glyph     string
	threshold float64
	baseLabel string
}

func NewTape(w io.Writer, glyph string, threshold float64) *Tape {
	return &Tape{w: w, glyph: glyph, threshold: threshold}
}

func (t *Tape) Connected(symbol string) {
	disp := symbols.Display(symbol)
	t.baseLabel = symbols.Base(symbol)
	fmt.Fprintf(t.w, "%sConnected to WebSocket for %s%s\n", ansiCyan, disp, ansiReset)
	fmt.Fprintf(t.w, "\nWatching large trades (>$%s) for %s on Binance... (Enter new symbol like 'doge' to switch)\n",
		groupThousands(t.threshold), disp)
	fmt.Fprintln(t.w, "Timestamp | Side | $Value (Base Amount) @ Avg Price")
}

func (t *Tape) BucketSide(key int64, side market.Side, totals engine.SideTotals, tier engine.Tier, barCount int) {
	color := tierColor(tier)
	line := fmt.Sprintf("%s | %s%s%s | $%s (%.4f %s) @ %.2f",
		clockTime(key, false),
		color, side, ansiReset,
		groupThousands(totals.Value),
		totals.Amount,
		t.baseLabel,
		totals.AvgPrice(),
	)
	if barCount > 0 {
		line += " " + bars(t.glyph, color, barCount)
	}
	fmt.Fprintln(t.w, line)
}

func (t *Tape) FeedError(symbol string, err error) {
	fmt.Fprintf(t.w, "%sConnection Error for %s: %v. Reconnecting...%s\n",
		ansiRed, symbols.Display(symbol), err, ansiReset)
}
