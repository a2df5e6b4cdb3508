package filter

import (
	"github.com/marginforge/isolex/internal/market"
	"github.com/marginforge/isolex/internal/money"
	"github.com/shopspring/decimal"
)

// PriceFilter defines the price rules for the single instrument an Exchange
// trades (spec.md §4.2). A zero value for MinPrice/MaxPrice/MultiplierUp/
// MultiplierDown disables that check.
type PriceFilter struct {
	MinPrice        money.Quote
	MaxPrice        money.Quote
	TickSize        money.Quote
	MultiplierUp    decimal.Decimal
	MultiplierDown  decimal.Decimal
}

// DefaultPriceFilter mirrors the Rust source's Default impl: no price
// bounds, a unit tick size, and a 2x/0 (disabled) price band.
func DefaultPriceFilter() PriceFilter {
	return PriceFilter{
		MinPrice:       money.QuoteZero,
		MaxPrice:       money.QuoteZero,
		TickSize:       money.QuoteFromFloat(1),
		MultiplierUp:   decimal.NewFromInt(2),
		MultiplierDown: decimal.Zero,
	}
}

// ValidateLimitPrice checks a candidate limit price against the filter.
// mark is the reference price the multiplier bands are measured from
// (best ask for buys, best bid for sells, per the GLOSSARY's definition of
// mark price). Market orders never reach this function (spec.md §4.2: "market
// orders always pass the price filter").
func (f PriceFilter) ValidateLimitPrice(price money.Quote, mark money.Quote) error {
	if !f.MinPrice.IsZero() && price.LessThan(f.MinPrice) {
		return ErrLimitPriceBelowMin
	}
	if !f.MaxPrice.IsZero() && price.GreaterThan(f.MaxPrice) {
		return ErrLimitPriceAboveMax
	}
	if !price.Sub(f.MinPrice).(money.Quote).Mod(f.TickSize).(money.Quote).IsZero() {
		return ErrInvalidOrderPriceStepSize
	}
	if !f.MultiplierUp.IsZero() && price.GreaterThan(mark.MulDecimal(f.MultiplierUp)) {
		return ErrLimitPriceAboveMultiple
	}
	if !f.MultiplierDown.IsZero() && price.LessThan(mark.MulDecimal(f.MultiplierDown)) {
		return ErrLimitPriceBelowMultiple
	}
	return nil
}

// ValidateUpdate checks every price carried by a market update against the
// filter, plus the bid<ask (and low<high, for candles) spread invariant
// (spec.md §4.2).
func (f PriceFilter) ValidateUpdate(u market.Update) error {
	switch v := u.(type) {
	case market.Bba:
		if err := f.enforceBounds(v.Bid); err != nil {
			return err
		}
		if err := f.enforceBounds(v.Ask); err != nil {
			return err
		}
		return enforceSpread(v.Bid, v.Ask)
	case market.Trade:
		return f.enforceBounds(v.Price)
	case market.Candle:
		for _, p := range []money.Quote{v.Bid, v.Ask, v.Low, v.High} {
			if err := f.enforceBounds(p); err != nil {
				return err
			}
		}
		if err := enforceSpread(v.Bid, v.Ask); err != nil {
			return err
		}
		return enforceSpread(v.Low, v.High)
	default:
		return ErrInvalidPrice
	}
}

func (f PriceFilter) enforceBounds(price money.Quote) error {
	if !f.MinPrice.IsZero() && price.LessThan(f.MinPrice) {
		return ErrMarketUpdatePriceTooLow
	}
	if !f.MaxPrice.IsZero() && price.GreaterThan(f.MaxPrice) {
		return ErrMarketUpdatePriceTooHigh
	}
	if !price.Mod(f.TickSize).(money.Quote).IsZero() {
		return ErrMarketUpdatePriceStepSize
	}
	return nil
}

func enforceSpread(low, high money.Quote) error {
	if low.GreaterThanOrEqual(high) {
		return ErrInvalidMarketUpdateBidAskSpread
	}
	return nil
}
