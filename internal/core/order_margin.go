package core

import (
	"github.com/marginforge/isolex/internal/market"
	"github.com/marginforge/isolex/internal/money"
	"github.com/shopspring/decimal"
)

// ComputeOrderMargin is the order_margin formula (spec.md §4.5, "the heart
// of the core"): the margin a resting book of limit orders requires, on top
// of whatever position margin is already locked.
//
// It is a pure function of its inputs — no Account or Validator state is
// read or mutated — and is meant to be recomputed from scratch whenever the
// resting order set changes, rather than maintained incrementally, so it
// can never drift from the orders that are actually resting.
//
// Buy orders and sell orders are tallied separately. Within a side, the
// notional (size × limit price, in currency M) is summed across every
// resting limit order. Whatever portion of that side's quantity is already
// offset by an opposing existing position (a short offsets buys, a long
// offsets sells) needs no incremental margin, because closing that much of
// the position would free exactly that much room. The exposed remainder is
// margined at 1/leverage. Buy and sell are mutually exclusive in their
// effect on the position — only one side can ever actually grow the
// exposure — so only the larger of the two margin-only figures is charged;
// both sides' maker fees are added on top regardless, since either side may
// independently go on to fill as the maker.
//
// The function is monotonic in the order set: adding a resting order, or
// growing one, never decreases the result, because offset can only reduce
// the notional actually counted once per unit of existing position size,
// and both the max term and the fee term are themselves non-decreasing in
// each side's notional.
func ComputeOrderMargin(ft money.FuturesType, orders []*Order, positionSize money.Amount, leverage money.Leverage, makerFee money.Rate) money.Amount {
	pairedZero := money.PairedZero(ft)
	marginZero := money.MarginZero(ft)

	buyQty, buyNotional := tallySide(orders, market.Buy, pairedZero, marginZero)
	sellQty, sellNotional := tallySide(orders, market.Sell, pairedZero, marginZero)

	oppositeOfBuys := money.MaxAmount(positionSize.Neg(), pairedZero)
	oppositeOfSells := money.MaxAmount(positionSize, pairedZero)

	buyMargin, buyFee := sideMarginAndFee(buyQty, buyNotional, oppositeOfBuys, leverage, makerFee, marginZero)
	sellMargin, sellFee := sideMarginAndFee(sellQty, sellNotional, oppositeOfSells, leverage, makerFee, marginZero)

	return money.MaxAmount(buyMargin, sellMargin).Add(buyFee).Add(sellFee)
}

func tallySide(orders []*Order, side market.Side, pairedZero, marginZero money.Amount) (qty, notional money.Amount) {
	qty, notional = pairedZero, marginZero
	for _, o := range orders {
		if o.Status != Pending || o.IsMarket() || o.Side != side {
			continue
		}
		qty = qty.Add(o.Size)
		notional = notional.Add(o.Notional(*o.LimitPrice))
	}
	return qty, notional
}

// sideMarginAndFee computes the margin-only and fee-only amounts one side
// (buy or sell) of the resting book requires, after subtracting whatever is
// offset by an existing opposing position. The two are kept separate
// because only the larger side's margin is ever charged, while both sides'
// fees always are.
func sideMarginAndFee(qty, notional, offsettingQty money.Amount, leverage money.Leverage, makerFee money.Rate, marginZero money.Amount) (margin, fee money.Amount) {
	if qty.IsZero() {
		return marginZero, marginZero
	}
	offsetQty := money.MinAmount(qty, offsettingQty)
	exposedFraction := decimal.NewFromInt(1).Sub(offsetQty.Decimal().DivRound(qty.Decimal(), money.DecimalPlaces))
	exposedNotional := notional.MulScalar(exposedFraction)
	margin = money.DivLeverage(exposedNotional, leverage)
	fee = money.Fee(exposedNotional, makerFee)
	return margin, fee
}
