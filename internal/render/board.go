package render

import (
	"fmt"
	"io"

	"trade-tape/internal/engine"
	"trade-tape/internal/symbols"
)

const boardRule = "--------------------------------------------------"

// Board is the in-place top-of-book view. Each qualifying update
// redraws a fixed-height table; the previously drawn block is erased
// line-for-line first, never more and never less.
type Board struct {
	w         io.Writer
	glyph     string
	threshold float64
	lastLines int
}

func NewBoard(w io.Writer, glyph string, threshold float64) *Board {
	return &Board{w: w, glyph: glyph, threshold: threshold}
}

func (b *Board) Connected(symbol string) {
	disp := symbols.Display(symbol)
	fmt.Fprintf(b.w, "%sConnected to WebSocket for %s%s\n", ansiCyan, disp, ansiReset)
	fmt.Fprintf(b.w, "\nWatching order book depth for %s on Binance... (Enter new symbol like 'doge' to switch)\n", disp)
	// The banner is not part of the redrawn block.
	b.lastLines = 0
}

func (b *Board) DepthTop(ts int64, sides []engine.DepthSide) {
	for i := 0; i < b.lastLines; i++ {
		fmt.Fprint(b.w, cursorUp, eraseLine)
	}

	n := 0
	w := func(format string, args ...any) {
		fmt.Fprintf(b.w, format+"\n", args...)
		n++
	}

	w("%s", boardRule)
	w("| %-12s | %-4s | %-12s | %-13s | %-12s | %s", "Time", "Side", "Price", "Volume (Base)", "$Value", "Depth")
	w("%s", boardRule)
	for _, s := range sides {
		color := tierColor(s.Tier)
		w("| %-12s | %s%-4s%s | %-12.2f | %-13.4f | $%-11s | %s",
			clockTime(ts, true),
			color, s.Side, ansiReset,
			s.Price,
			s.Qty,
			groupThousands(s.Value),
			bars(b.glyph, color, s.Bars),
		)
	}
	b.lastLines = n
}

func (b *Board) FeedError(symbol string, err error) {
	fmt.Fprintf(b.w, "%sConnection Error for %s: %v. Reconnecting...%s\n",
		ansiRed, symbols.Display(symbol), err, ansiReset)
	// The error line sits below the last table; start a fresh block.
	b.lastLines = 0
}
