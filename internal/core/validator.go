package core

import (
	"github.com/marginforge/isolex/internal/filter"
	"github.com/marginforge/isolex/internal/market"
	"github.com/marginforge/isolex/internal/money"
)

// Validator is the admission gate every order passes through before it can
// touch an Account's margin or position (spec.md §4.6). It never mutates
// anything itself — it only computes what a fill or a newly resting order
// would cost and checks that available_balance can cover it.
type Validator struct {
	Leverage    money.Leverage
	MakerFee    money.Rate
	TakerFee    money.Rate
	PriceFilter filter.PriceFilter
	QtyFilter   filter.QuantityFilter
	MaxOrders   int
}

// ValidateMarketOrder prices an immediate fill at markPrice (the side's
// aggressor price: ask for a buy, bid for a sell) against spec.md §4.6's
// debit/credit table, keyed on order.size rather than a reconstructed
// position-margin delta:
//
//   - flat position: both sides are credited at order.size; whatever
//     portion of the order immediately offsets a resting limit order on the
//     opposite side (capped by order.size) is debited instead.
//   - long position: a buy only ever grows the position, so it is debited
//     nothing and credited the full size; a sell closes up to the existing
//     size (debited) before any excess opens a short (credited).
//   - short position: the mirror image of long.
//
// debit and credit are computed in the paired (size) currency, divided by
// leverage, and — together with the taker fee, order.size · taker_fee —
// converted through markPrice into the margin currency M (Amount.Convert:
// multiply for linear, divide for inverse). The order is rejected when the
// resulting credit exceeds available_balance plus the resulting debit. It
// returns the fee and the net margin delta (credit − debit) so the caller
// can commit them atomically; it does not itself touch the account.
func (v Validator) ValidateMarketOrder(pos *Position, margin *Margin, restingOrders []*Order, side market.Side, qty money.Amount, markPrice money.Quote) (fee money.Amount, positionMarginDelta money.Amount, err error) {
	if err := v.QtyFilter.ValidateQuantity(qty); err != nil {
		return nil, nil, err
	}

	debit, credit := marketOrderDebitCredit(pos, restingOrders, side, qty)

	debitM := money.DivLeverage(debit, v.Leverage).Convert(markPrice)
	creditM := money.DivLeverage(credit, v.Leverage).Convert(markPrice)
	fee = qty.MulScalar(v.TakerFee.Decimal()).Convert(markPrice)

	if creditM.Cmp(margin.AvailableBalance().Add(debitM)) > 0 {
		return nil, nil, filter.ErrNotEnoughAvailableBalance
	}
	return fee, creditM.Sub(debitM), nil
}

// marketOrderDebitCredit implements spec.md §4.6's per-side case table,
// returning debit and credit in the paired (size) currency.
func marketOrderDebitCredit(pos *Position, restingOrders []*Order, side market.Side, qty money.Amount) (debit, credit money.Amount) {
	zero := qty.Sub(qty)
	size := pos.Size()

	switch {
	case size.IsZero():
		offsetting := sumRestingQty(restingOrders, side.Opposite(), zero)
		return money.MinAmount(qty, offsetting), qty
	case size.IsPositive(): // long
		if side == market.Buy {
			return zero, qty
		}
		closing := money.MinAmount(qty, size)
		return closing, money.MaxAmount(qty.Sub(closing), zero)
	default: // short
		if side == market.Sell {
			return zero, qty
		}
		closing := money.MinAmount(qty, size.Abs())
		return closing, money.MaxAmount(qty.Sub(closing), zero)
	}
}

// sumRestingQty sums the size of every pending limit order on side.
func sumRestingQty(orders []*Order, side market.Side, zero money.Amount) money.Amount {
	sum := zero
	for _, o := range orders {
		if o.Status != Pending || o.IsMarket() || o.Side != side {
			continue
		}
		sum = sum.Add(o.Size)
	}
	return sum
}

// ValidateLimitOrder checks a candidate resting order against the price and
// quantity filters, the max-active-orders cap, and available_balance — by
// recomputing order_margin with the hypothetical order appended and
// comparing it to the order_margin currently locked (spec.md §4.5/§4.6). It
// returns the order_margin delta the caller should apply on acceptance.
func (v Validator) ValidateLimitOrder(ft money.FuturesType, restingOrders []*Order, pos *Position, margin *Margin, side market.Side, qty money.Amount, price money.Quote, markPrice money.Quote) (orderMarginDelta money.Amount, err error) {
	if len(restingOrders) >= v.MaxOrders {
		return nil, filter.ErrMaxActiveOrders
	}
	if err := v.QtyFilter.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	if err := v.PriceFilter.ValidateLimitPrice(price, markPrice); err != nil {
		return nil, err
	}

	before := ComputeOrderMargin(ft, restingOrders, pos.Size(), v.Leverage, v.MakerFee)

	hypothetical := NewLimitOrder(0, side, qty, price, 0)
	withNew := append(append([]*Order{}, restingOrders...), hypothetical)
	after := ComputeOrderMargin(ft, withNew, pos.Size(), v.Leverage, v.MakerFee)

	orderMarginDelta = after.Sub(before)
	if orderMarginDelta.IsPositive() && orderMarginDelta.Cmp(margin.AvailableBalance()) > 0 {
		return nil, filter.ErrNotEnoughAvailableBalance
	}
	return orderMarginDelta, nil
}
