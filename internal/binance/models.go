package binance

// Wire payloads for the public market streams. Prices and quantities
// arrive as strings and stay strings here; decoding to numbers happens
// in one place in parse.go.

type tradeEvent struct {
	EventType    string `json:"e"`
	EventTime    int64  `json:"E"`
	Symbol       string `json:"s"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	TradeTime    int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
}

type depthEvent struct {
	EventType string     `json:"e"`
	EventTime int64      `json:"E"`
	Symbol    string     `json:"s"`
	Bids      [][]string `json:"b"` // [[price, qty], ...] best first
	Asks      [][]string `json:"a"`
}
