package core

import (
	"github.com/marginforge/isolex/internal/market"
	"github.com/marginforge/isolex/internal/money"
)

// Status is the lifecycle state of an Order (spec.md §4.1).
type Status int8

const (
	Pending Status = iota
	Filled
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Filled:
		return "Filled"
	case Cancelled:
		return "Cancelled"
	default:
		return "Pending"
	}
}

// Order is a single market or limit order (spec.md §4.1). LimitPrice is nil
// for a market order, matching the Rust source's Option<QuoteCurrency>.
type Order struct {
	ID          uint64
	Side        market.Side
	Size        money.Amount
	LimitPrice  *money.Quote
	TimestampNs uint64
	Status      Status
}

// IsMarket reports whether the order has no resting limit price.
func (o *Order) IsMarket() bool { return o.LimitPrice == nil }

// NewMarketOrder builds a pending market order.
func NewMarketOrder(id uint64, side market.Side, size money.Amount, ts uint64) *Order {
	return &Order{ID: id, Side: side, Size: size, TimestampNs: ts, Status: Pending}
}

// NewLimitOrder builds a pending limit order resting at price.
func NewLimitOrder(id uint64, side market.Side, size money.Amount, price money.Quote, ts uint64) *Order {
	p := price
	return &Order{ID: id, Side: side, Size: size, LimitPrice: &p, TimestampNs: ts, Status: Pending}
}

// Notional is the order's value at price, in the margin currency M
// (size.Convert(price)).
func (o *Order) Notional(price money.Quote) money.Amount {
	return o.Size.Convert(price)
}
