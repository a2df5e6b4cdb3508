package core

import "github.com/marginforge/isolex/internal/money"

// Position holds the isolated-margin position state for an account's single
// instrument (spec.md §3/§4.4). All operations here are internal: the
// caller (Validator, Exchange) is responsible for having already approved
// the quantity/price/margin involved. A malformed call (negative quantity,
// reducing past zero) is a programmer error and panics, per spec.md §4.10.
type Position struct {
	futuresType    money.FuturesType
	size           money.Amount // signed paired currency: >0 long, <0 short, 0 flat
	entryPrice     money.Quote
	positionMargin money.Amount // margin currency M
	leverage       money.Leverage
}

// NewPosition creates a flat position for the given contract flavor and
// leverage (spec.md §3: "a Position is created flat at account
// construction").
func NewPosition(ft money.FuturesType, leverage money.Leverage) *Position {
	return &Position{
		futuresType:    ft,
		size:           money.PairedZero(ft),
		entryPrice:     money.QuoteZero,
		positionMargin: money.MarginZero(ft),
		leverage:       leverage,
	}
}

func (p *Position) Size() money.Amount            { return p.size }
func (p *Position) EntryPrice() money.Quote        { return p.entryPrice }
func (p *Position) PositionMargin() money.Amount   { return p.positionMargin }
func (p *Position) Leverage() money.Leverage       { return p.leverage }
func (p *Position) IsFlat() bool                   { return p.size.IsZero() }
func (p *Position) IsLong() bool                   { return p.size.IsPositive() }
func (p *Position) IsShort() bool                  { return p.size.IsNegative() }

// ImpliedLeverage returns the position's notional value at price divided by
// its locked margin (supplemented feature from position.rs's
// implied_leverage, see SPEC_FULL.md §5).
func (p *Position) ImpliedLeverage(price money.Quote) float64 {
	if p.positionMargin.IsZero() {
		return 0
	}
	value := p.size.Abs().Convert(price)
	f, _ := value.Decimal().Div(p.positionMargin.Decimal()).Float64()
	return f
}

// UnrealizedPnL evaluates the position's P&L at the conservative fill price:
// bid for a long (what you'd get closing now), ask for a short (spec.md
// §4.4).
func (p *Position) UnrealizedPnL(bid, ask money.Quote) money.Amount {
	if p.size.IsPositive() {
		return money.PnL(p.futuresType, p.entryPrice, bid, p.size)
	}
	return money.PnL(p.futuresType, p.entryPrice, ask, p.size)
}

// Open transitions a flat position to long or short (spec.md §4.4).
func (p *Position) Open(size money.Amount, price money.Quote, margin money.Amount) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	p.size = size
	p.entryPrice = price
	p.positionMargin = margin
	return nil
}

// IncreaseLong grows a long (or flat) position, volume-weighting the entry
// price (spec.md §4.4).
func (p *Position) IncreaseLong(qty money.Amount, price money.Quote, marginAdd money.Amount) {
	if !qty.IsPositive() {
		panic("position: IncreaseLong requires a positive quantity")
	}
	if p.size.IsNegative() {
		panic("position: IncreaseLong called while short is open")
	}
	newSize := p.size.Add(qty)
	num := p.entryPrice.Decimal().Mul(p.size.Decimal()).Add(price.Decimal().Mul(qty.Decimal()))
	p.entryPrice = money.NewQuote(num.DivRound(newSize.Decimal(), money.DecimalPlaces))
	p.size = newSize
	p.positionMargin = p.positionMargin.Add(marginAdd)
}

// DecreaseLong reduces a long position, returning the realized P&L for the
// closed quantity. position_margin is re-derived from the new size rather
// than subtracted, to avoid cumulative rounding drift (spec.md §4.4).
func (p *Position) DecreaseLong(qty money.Amount, price money.Quote) money.Amount {
	if !p.size.IsPositive() {
		panic("position: DecreaseLong called on a non-long position")
	}
	if !qty.IsPositive() || qty.Cmp(p.size) > 0 {
		panic("position: DecreaseLong quantity must be in (0, size]")
	}
	pnl := money.PnL(p.futuresType, p.entryPrice, price, qty)
	p.size = p.size.Sub(qty)
	p.positionMargin = money.DivLeverage(p.size.Abs().Convert(p.entryPrice), p.leverage)
	return pnl
}

// IncreaseShort grows a short (or flat) position, symmetric with
// IncreaseLong (spec.md §4.4). The entry-price formula uses the magnitude
// form (resolving the Open Question in spec.md §9).
func (p *Position) IncreaseShort(qty money.Amount, price money.Quote, marginAdd money.Amount) {
	if !qty.IsPositive() {
		panic("position: IncreaseShort requires a positive quantity")
	}
	if p.size.IsPositive() {
		panic("position: IncreaseShort called while long is open")
	}
	newSize := p.size.Sub(qty)
	num := p.entryPrice.Decimal().Mul(p.size.Abs().Decimal()).Add(price.Decimal().Mul(qty.Decimal()))
	p.entryPrice = money.NewQuote(num.DivRound(newSize.Abs().Decimal(), money.DecimalPlaces))
	p.size = newSize
	p.positionMargin = p.positionMargin.Add(marginAdd)
}

// DecreaseShort reduces a short position, returning the realized P&L. Unlike
// the Rust source (which leaves position_margin untouched here, an
// asymmetry with DecreaseLong), this re-derives position_margin from the new
// size for the same anti-drift reason DecreaseLong does — see DESIGN.md.
func (p *Position) DecreaseShort(qty money.Amount, price money.Quote) money.Amount {
	if !p.size.IsNegative() {
		panic("position: DecreaseShort called on a non-short position")
	}
	if !qty.IsPositive() || qty.Cmp(p.size.Abs()) > 0 {
		panic("position: DecreaseShort quantity must be in (0, |size|]")
	}
	pnl := money.PnL(p.futuresType, p.entryPrice, price, qty.Neg())
	p.size = p.size.Add(qty)
	if p.size.IsZero() {
		p.positionMargin = money.MarginZero(p.futuresType)
	} else {
		p.positionMargin = money.DivLeverage(p.size.Abs().Convert(p.entryPrice), p.leverage)
	}
	return pnl
}
