package render

import "trade-tape/internal/engine"

// ANSI SGR codes. Cyan marks buys/bids and connection banners, red
// sells/asks and errors, gold anything at or above the large tier.
const (
	ansiCyan  = "\033[36m"
	ansiRed   = "\033[31m"
	ansiGold  = "\033[33m"
	ansiReset = "\033[0m"

	cursorUp  = "\033[1A"
	eraseLine = "\033[2K"
)

func tierColor(t engine.Tier) string {
	switch t {
	case engine.TierSell, engine.TierAsk:
		return ansiRed
	case engine.TierLarge:
		return ansiGold
	default:
		return ansiCyan
	}
}
