// Package market holds the small vocabulary types shared between the price
// filter and the core engine: order side and the market-update tagged union
// (spec.md §6). Kept dependency-free (besides money) so both internal/filter
// and internal/core can import it without a cycle.
package market

import "github.com/marginforge/isolex/internal/money"

// Side is the direction of an order or a trade.
type Side int8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "Sell"
	}
	return "Buy"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Update is the tagged union of market updates the exchange accepts
// (spec.md §6): Bba, Trade, or Candle.
type Update interface {
	isUpdate()
}

// Bba carries an update to the best bid and ask.
type Bba struct {
	Bid money.Quote
	Ask money.Quote
}

func (Bba) isUpdate() {}

// Trade carries a single observed trade print (price/quantity/side). The
// matching loop treats its price as both the low and the high of the tick,
// and it does not move the market state's quoted bid/ask.
type Trade struct {
	Price    money.Quote
	Quantity money.Amount
	Side     Side
}

func (Trade) isUpdate() {}

// Candle carries a period's best bid/ask plus high/low extrema.
type Candle struct {
	Bid  money.Quote
	Ask  money.Quote
	Low  money.Quote
	High money.Quote
}

func (Candle) isUpdate() {}
