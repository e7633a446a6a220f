// Package symbols canonicalizes user-typed instrument identifiers into
// the forms the feed and the display need.
package symbols

import "strings"

// Normalize strips separators and whitespace and upper-cases, so
// "btc-usdt", " BTC/USDT " and "btcusdt" all canonicalize the same.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	replacer := strings.NewReplacer("-", "", "_", "", "/", "", " ", "")
	return strings.ToUpper(replacer.Replace(s))
}

// WithQuote appends the quote-asset suffix when the symbol does not
// already carry it. Input and suffix may be any case.
func WithQuote(symbol, quote string) string {
	s := Normalize(symbol)
	q := Normalize(quote)
	if s == "" || q == "" {
		return s
	}
	if !strings.HasSuffix(s, q) {
		s += q
	}
	return s
}

// Stream is the lowercase form Binance stream paths use.
func Stream(symbol string) string {
	return strings.ToLower(Normalize(symbol))
}

// Split returns the base and quote assets. Only the known quote
// suffixes are recognized; anything else is treated as all base.
func Split(symbol string) (base, quote string) {
	s := Normalize(symbol)
	for _, q := range []string{"USDT", "USDC", "USD", "BTC", "ETH"} {
		if strings.HasSuffix(s, q) && len(s) > len(q) {
			return strings.TrimSuffix(s, q), q
		}
	}
	return s, ""
}

// Display renders "BTCUSDT" as "BTC/USDT" for banners and errors.
func Display(symbol string) string {
	base, quote := Split(symbol)
	if quote == "" {
		return base
	}
	return base + "/" + quote
}

// Base returns the base asset, e.g. "BTC" for "btcusdt".
func Base(symbol string) string {
	base, _ := Split(symbol)
	return base
}
