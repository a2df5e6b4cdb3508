package core

import (
	"github.com/marginforge/isolex/internal/market"
	"github.com/marginforge/isolex/internal/money"
)

// Account aggregates one trader's margin ledger, single open position, and
// resting limit orders on the (single) instrument an Exchange trades
// (spec.md §3/§4). New orders (AppendLimitOrder, SubmitMarketOrder) are
// admitted only through Validator, which rejects what available_balance
// cannot cover; resting-order fills, liquidation, and the fixture/restore
// helpers change state without consulting it.
type Account struct {
	futuresType money.FuturesType
	margin      *Margin
	position    *Position
	validator   Validator
	orders      map[uint64]*Order
	nextOrderID uint64
	liquidated  bool
}

// NewAccount opens a flat account with the given starting wallet balance.
func NewAccount(ft money.FuturesType, startingBalance money.Amount, leverage money.Leverage, v Validator) *Account {
	return &Account{
		futuresType: ft,
		margin:      NewMargin(startingBalance),
		position:    NewPosition(ft, leverage),
		validator:   v,
		orders:      make(map[uint64]*Order),
		nextOrderID: 1,
	}
}

func (a *Account) Margin() *Margin       { return a.margin }
func (a *Account) Position() *Position   { return a.position }
func (a *Account) IsLiquidated() bool    { return a.liquidated }

// ActiveOrders returns the currently resting (Pending) orders, oldest id
// first.
func (a *Account) ActiveOrders() []*Order {
	out := make([]*Order, 0, len(a.orders))
	for _, o := range a.orders {
		if o.Status == Pending {
			out = append(out, o)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ID < out[j-1].ID; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Order looks up a resting order by id. Filled and cancelled orders are
// removed from the account and are not found.
func (a *Account) Order(id uint64) (*Order, bool) {
	o, ok := a.orders[id]
	return o, ok
}

// AppendLimitOrder validates and admits a new resting limit order.
// markPrice is the instrument's current aggressor price for side (ask for a
// buy, bid for a sell), used for the price-filter multiplier bands.
func (a *Account) AppendLimitOrder(side market.Side, qty money.Amount, price money.Quote, markPrice money.Quote, ts uint64) (*Order, error) {
	if a.liquidated {
		return nil, ErrAccountLiquidated
	}
	delta, err := a.validator.ValidateLimitOrder(a.futuresType, a.ActiveOrders(), a.position, a.margin, side, qty, price, markPrice)
	if err != nil {
		return nil, err
	}
	order := NewLimitOrder(a.nextOrderID, side, qty, price, ts)
	a.nextOrderID++
	a.orders[order.ID] = order
	a.margin.ApplyOrderMarginDelta(delta)
	return order, nil
}

// CancelOrder removes a resting order and releases whatever order_margin it
// was holding.
func (a *Account) CancelOrder(id uint64) error {
	order, ok := a.orders[id]
	if !ok || order.Status != Pending {
		return ErrOrderNotFound
	}
	order.Status = Cancelled
	delete(a.orders, id)
	newOM := ComputeOrderMargin(a.futuresType, a.ActiveOrders(), a.position.Size(), a.position.Leverage(), a.validator.MakerFee)
	a.margin.ApplyOrderMarginDelta(newOM.Sub(a.margin.OrderMargin()))
	return nil
}

// SubmitMarketOrder validates and immediately fills qty at markPrice,
// paying the taker fee, and returns whatever P&L the fill realized (zero if
// it only opened or added to the position) (spec.md §4.6).
func (a *Account) SubmitMarketOrder(side market.Side, qty money.Amount, markPrice money.Quote) (money.Amount, error) {
	if a.liquidated {
		return nil, ErrAccountLiquidated
	}
	fee, _, err := a.validator.ValidateMarketOrder(a.position, a.margin, a.ActiveOrders(), side, qty, markPrice)
	if err != nil {
		return nil, err
	}
	return a.fill(side, qty, markPrice, fee), nil
}

// SettleFilledOrder executes a resting limit order against fillPrice,
// paying the maker fee, removes it from the active set, and returns
// whatever P&L the fill realized (spec.md §4.8).
func (a *Account) SettleFilledOrder(id uint64, fillPrice money.Quote) (money.Amount, error) {
	order, ok := a.orders[id]
	if !ok || order.Status != Pending {
		return nil, ErrOrderNotFound
	}
	notional := order.Size.Convert(fillPrice)
	fee := money.Fee(notional, a.validator.MakerFee)

	order.Status = Filled
	delete(a.orders, id)
	remainingOM := ComputeOrderMargin(a.futuresType, a.ActiveOrders(), a.position.Size(), a.position.Leverage(), a.validator.MakerFee)
	a.margin.ApplyOrderMarginDelta(remainingOM.Sub(a.margin.OrderMargin()))

	return a.fill(order.Side, order.Size, fillPrice, fee), nil
}

// fill applies a trade of qty at price against the position: opening,
// adding to, reducing, or flipping it as needed, then syncs the margin
// ledger's position_margin mirror and debits the fee. It returns the
// realized P&L, or a zero amount if nothing closed.
func (a *Account) fill(side market.Side, qty money.Amount, price money.Quote, fee money.Amount) money.Amount {
	signedQty := qty
	if side == market.Sell {
		signedQty = qty.Neg()
	}
	cur := a.position.Size()
	realized := money.MarginZero(a.futuresType)

	switch {
	case cur.IsZero():
		newMargin := money.DivLeverage(qty.Convert(price), a.position.Leverage())
		a.position.Open(signedQty, price, newMargin)

	case cur.IsPositive() && side == market.Buy:
		a.position.IncreaseLong(qty, price, money.DivLeverage(qty.Convert(price), a.position.Leverage()))

	case cur.IsNegative() && side == market.Sell:
		a.position.IncreaseShort(qty, price, money.DivLeverage(qty.Convert(price), a.position.Leverage()))

	case cur.IsPositive(): // side == Sell: reducing or flipping a long
		closing := money.MinAmount(qty, cur)
		pnl := a.position.DecreaseLong(closing, price)
		a.margin.ApplyRealizedPnL(pnl)
		realized = pnl
		remainder := qty.Sub(closing)
		if remainder.IsPositive() {
			newMargin := money.DivLeverage(remainder.Convert(price), a.position.Leverage())
			a.position.Open(remainder.Neg(), price, newMargin)
		}

	default: // cur.IsNegative(), side == Buy: reducing or flipping a short
		closing := money.MinAmount(qty, cur.Abs())
		pnl := a.position.DecreaseShort(closing, price)
		a.margin.ApplyRealizedPnL(pnl)
		realized = pnl
		remainder := qty.Sub(closing)
		if remainder.IsPositive() {
			newMargin := money.DivLeverage(remainder.Convert(price), a.position.Leverage())
			a.position.Open(remainder, price, newMargin)
		}
	}

	a.margin.SetPositionMargin(a.position.PositionMargin())
	a.margin.ApplyFee(fee)
	return realized
}

// Liquidate forcibly closes the position at price, zeroes position_margin,
// cancels every resting order, and marks the account unable to trade
// further (spec.md §4.9).
func (a *Account) Liquidate(price money.Quote) {
	if a.liquidated {
		return
	}
	if !a.position.IsFlat() {
		qty := a.position.Size().Abs()
		var pnl money.Amount
		if a.position.IsLong() {
			pnl = a.position.DecreaseLong(qty, price)
		} else {
			pnl = a.position.DecreaseShort(qty, price)
		}
		a.margin.ApplyRealizedPnL(pnl)
		a.margin.SetPositionMargin(a.position.PositionMargin())
	}
	for id, o := range a.orders {
		o.Status = Cancelled
		delete(a.orders, id)
	}
	a.margin.ApplyOrderMarginDelta(a.margin.OrderMargin().Neg())
	a.liquidated = true
}

// ChangePosition is a test utility that directly overwrites the position
// and position_margin, bypassing the Validator. It exists to set up
// scenario fixtures (spec.md §8) without replaying a fill sequence, and
// must never be reachable from order-admission code paths.
func (a *Account) ChangePosition(size money.Amount, entryPrice money.Quote, positionMargin money.Amount) {
	_ = a.position.Open(size, entryPrice, positionMargin)
	a.margin.SetPositionMargin(positionMargin)
}

// FuturesType reports the contract flavor this account trades.
func (a *Account) FuturesType() money.FuturesType { return a.futuresType }

// RestoreOrder reinserts a previously-persisted resting order, bypassing
// the Validator, and advances nextOrderID past it so new orders never
// collide with a restored id. For use by pkg/persist only.
func (a *Account) RestoreOrder(o *Order) {
	a.orders[o.ID] = o
	if o.ID >= a.nextOrderID {
		a.nextOrderID = o.ID + 1
	}
}

// RestoreMargin overwrites the full margin ledger from a persisted
// snapshot. For use by pkg/persist only.
func (a *Account) RestoreMargin(wallet, positionMargin, orderMargin money.Amount) {
	a.margin.SetWalletBalance(wallet)
	a.margin.SetPositionMargin(positionMargin)
	a.margin.ApplyOrderMarginDelta(orderMargin.Sub(a.margin.OrderMargin()))
}
