package binance

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"trade-tape/internal/market"
)

// parseEvent decodes one stream message. A nil event with a nil error
// means the message is not one we display (subscription acks, unknown
// event types); those are skipped without breaking the loop. A non-nil
// error marks a malformed payload, also skipped, but worth a debug log.
func parseEvent(raw []byte) (market.Event, error) {
	var tag struct {
		EventType string `json:"e"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode tag: %w", err)
	}

	switch tag.EventType {
	case "trade":
		return parseTrade(raw)
	case "depthUpdate":
		return parseDepth(raw)
	default:
		return nil, nil
	}
}

func parseTrade(raw []byte) (market.Event, error) {
	var t tradeEvent
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode trade: %w", err)
	}
	price, err := parseNumber(t.Price)
	if err != nil {
		return nil, fmt.Errorf("trade price %q: %w", t.Price, err)
	}
	amount, err := parseNumber(t.Quantity)
	if err != nil {
		return nil, fmt.Errorf("trade quantity %q: %w", t.Quantity, err)
	}
	// Buyer was maker: the aggressor sold.
	side := market.SideBuy
	if t.IsBuyerMaker {
		side = market.SideSell
	}
	return market.Trade{
		Symbol: t.Symbol,
		Time:   t.TradeTime,
		Price:  price,
		Amount: amount,
		Side:   side,
	}, nil
}

func parseDepth(raw []byte) (market.Event, error) {
	var d depthEvent
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode depth: %w", err)
	}
	bid, err := parseLevel(d.Bids)
	if err != nil {
		return nil, fmt.Errorf("depth bid: %w", err)
	}
	ask, err := parseLevel(d.Asks)
	if err != nil {
		return nil, fmt.Errorf("depth ask: %w", err)
	}
	return market.DepthUpdate{
		Symbol: d.Symbol,
		Time:   d.EventTime,
		Bid:    bid,
		Ask:    ask,
	}, nil
}

// parseLevel extracts the best level of one side. An empty side or a
// zero quantity (level removal) means no liquidity there.
func parseLevel(levels [][]string) (*market.Quote, error) {
	if len(levels) == 0 {
		return nil, nil
	}
	best := levels[0]
	if len(best) < 2 {
		return nil, fmt.Errorf("level has %d fields", len(best))
	}
	price, err := parseNumber(best[0])
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", best[0], err)
	}
	qty, err := parseNumber(best[1])
	if err != nil {
		return nil, fmt.Errorf("qty %q: %w", best[1], err)
	}
	if qty == 0 {
		return nil, nil
	}
	return &market.Quote{Price: price, Qty: qty}, nil
}

func parseNumber(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
