package engine

import (
	"math"

	"trade-tape/internal/market"
)

// Tier selects the visual weight of a rendered value. Large overrides
// the side's base tier once the value crosses the large threshold.
type Tier int

const (
	TierBuy Tier = iota
	TierSell
	TierBid
	TierAsk
	TierLarge
)

// BaseTier maps a side to its normal tier.
func BaseTier(side market.Side) Tier {
	switch side {
	case market.SideSell:
		return TierSell
	case market.SideBid:
		return TierBid
	case market.SideAsk:
		return TierAsk
	default:
		return TierBuy
	}
}

// Thresholds holds the render policy constants.
type Thresholds struct {
	Value   float64 // minimum notional for a side to be rendered at all
	Large   float64 // notional at or above which TierLarge applies
	BarUnit float64 // quote value per bar glyph
}

// Exceeds reports whether a value qualifies for rendering. Strictly
// greater: a value exactly at the threshold is dropped.
func (t Thresholds) Exceeds(v float64) bool { return v > t.Value }

// TierFor picks the tier for a value on the given side.
func (t Thresholds) TierFor(v float64, side market.Side) Tier {
	if v >= t.Large {
		return TierLarge
	}
	return BaseTier(side)
}

// Bars is the number of bar glyphs for a value: floor(v/unit) when v
// strictly exceeds the unit, else zero. The equality case deliberately
// renders no bars.
func (t Thresholds) Bars(v float64) int {
	if v <= t.BarUnit {
		return 0
	}
	return int(math.Floor(v / t.BarUnit))
}

// NoiseFilter suppresses the feed's occasional duplicate of a trade
// within the same second: an amount within epsilon of the previously
// accepted amount, in the same second, is dropped.
type NoiseFilter struct {
	epsilon  float64
	lastAmt  float64
	lastKey  int64
	hasPrior bool
}

func NewNoiseFilter(epsilon float64) *NoiseFilter {
	return &NoiseFilter{epsilon: epsilon}
}

// Accept decides whether a trade passes, and on pass records it as the
// new comparison point. secondKey is the event timestamp truncated to
// seconds.
func (f *NoiseFilter) Accept(amount float64, secondKey int64) bool {
	if f.hasPrior && f.lastKey == secondKey && math.Abs(amount-f.lastAmt) < f.epsilon {
		return false
	}
	f.lastAmt = amount
	f.lastKey = secondKey
	f.hasPrior = true
	return true
}

// Reset clears the comparison memory, e.g. across instrument switches.
func (f *NoiseFilter) Reset() {
	f.hasPrior = false
	f.lastAmt = 0
	f.lastKey = 0
}
