package core

import (
	"github.com/marginforge/isolex/internal/filter"
	"github.com/marginforge/isolex/internal/market"
	"github.com/marginforge/isolex/internal/money"
)

// Config bundles the instrument parameters an Exchange is constructed with
// (spec.md §6): fee schedule, leverage, contract flavor, and the price and
// quantity filters.
type Config struct {
	FuturesType     money.FuturesType
	StartingBalance money.Amount
	Leverage        money.Leverage
	MakerFee        money.Rate
	TakerFee        money.Rate
	PriceFilter     filter.PriceFilter
	QuantityFilter  filter.QuantityFilter
	MaxActiveOrders int
}

// Exchange is the single-account, single-instrument orchestrator: it owns
// the market state, the one Account it simulates, and drives both order
// admission and the market-update tick loop (spec.md §4/§4.8).
type Exchange struct {
	cfg     Config
	state   *MarketState
	account *Account
	tracker AccountTracker
}

// NewExchange constructs an Exchange seeded with an initial bid/ask. If
// tracker is nil, a NoTracker is used.
func NewExchange(cfg Config, initialBid, initialAsk money.Quote, tracker AccountTracker) *Exchange {
	if tracker == nil {
		tracker = NoTracker{}
	}
	v := Validator{
		Leverage:    cfg.Leverage,
		MakerFee:    cfg.MakerFee,
		TakerFee:    cfg.TakerFee,
		PriceFilter: cfg.PriceFilter,
		QtyFilter:   cfg.QuantityFilter,
		MaxOrders:   cfg.MaxActiveOrders,
	}
	return &Exchange{
		cfg:     cfg,
		state:   NewMarketState(initialBid, initialAsk),
		account: NewAccount(cfg.FuturesType, cfg.StartingBalance, cfg.Leverage, v),
		tracker: tracker,
	}
}

func (e *Exchange) Account() *Account       { return e.account }
func (e *Exchange) MarketState() *MarketState { return e.state }

// SubmitMarketOrder validates and immediately fills qty, aggressing against
// the current ask (buy) or bid (sell).
func (e *Exchange) SubmitMarketOrder(side market.Side, qty money.Amount) error {
	markPrice := e.state.Ask()
	if side == market.Sell {
		markPrice = e.state.Bid()
	}
	ghost := NewMarketOrder(0, side, qty, e.state.Timestamp())
	pnl, err := e.account.SubmitMarketOrder(side, qty, markPrice)
	if err != nil {
		ghost.Status = Cancelled
		e.tracker.OrderRejected(ghost, err)
		return err
	}
	ghost.Status = Filled
	e.tracker.OrderAccepted(ghost)
	e.tracker.OrderFilled(ghost, markPrice, pnl)
	e.evaluateLiquidation()
	return nil
}

// SubmitLimitOrder validates and admits a new resting limit order.
func (e *Exchange) SubmitLimitOrder(side market.Side, qty money.Amount, price money.Quote) (*Order, error) {
	markPrice := e.state.Ask()
	if side == market.Sell {
		markPrice = e.state.Bid()
	}
	order, err := e.account.AppendLimitOrder(side, qty, price, markPrice, e.state.Timestamp())
	if err != nil {
		ghost := NewLimitOrder(0, side, qty, price, e.state.Timestamp())
		e.tracker.OrderRejected(ghost, err)
		return nil, err
	}
	e.tracker.OrderAccepted(order)
	return order, nil
}

// CancelOrder cancels a resting limit order by id.
func (e *Exchange) CancelOrder(id uint64) error {
	order, ok := e.account.Order(id)
	if err := e.account.CancelOrder(id); err != nil {
		return err
	}
	if ok {
		e.tracker.OrderCancelled(order)
	}
	return nil
}

// UpdateState feeds a new market update to the engine: validating and
// committing it to MarketState, matching any resting limit orders it
// crosses (in ascending order-id, i.e. time, priority), and
// evaluating liquidation against the resulting position (spec.md §4.8).
func (e *Exchange) UpdateState(update market.Update, ts uint64) error {
	if err := e.state.UpdateState(update, e.cfg.PriceFilter, ts); err != nil {
		return err
	}
	e.matchRestingOrders(update)
	e.evaluateLiquidation()
	return nil
}

func (e *Exchange) matchRestingOrders(update market.Update) {
	low, high, ok := crossingRange(update)
	if !ok {
		return
	}
	for _, order := range e.account.ActiveOrders() {
		price := *order.LimitPrice
		var crossed bool
		switch order.Side {
		case market.Buy:
			crossed = low.LessThanOrEqual(price)
		case market.Sell:
			crossed = high.GreaterThanOrEqual(price)
		}
		if !crossed {
			continue
		}
		pnl, err := e.account.SettleFilledOrder(order.ID, price)
		if err != nil {
			continue
		}
		e.tracker.OrderFilled(order, price, pnl)
	}
}

// crossingRange reports the price range an update touches, for resting
// order matching: a Bba's bid/ask, a Candle's low/high (its intratick
// excursion, not the market state's running extrema), or a Trade's single
// print on both sides.
func crossingRange(u market.Update) (low, high money.Quote, ok bool) {
	switch v := u.(type) {
	case market.Bba:
		return v.Bid, v.Ask, true
	case market.Candle:
		return v.Low, v.High, true
	case market.Trade:
		return v.Price, v.Price, true
	default:
		return money.Quote{}, money.Quote{}, false
	}
}

// evaluateLiquidation checks available_balance plus unrealized P&L at the
// adverse best-side price (bid for a long, ask for a short) and forcibly
// closes the position if that sum has fallen to zero or below (spec.md
// §4.8 step 5 / §7, resolving the Open Question in spec.md §9 in favor of
// the adverse best-side price over the mark price). It is available_balance
// that is at risk of running out, not position_margin: a thin wallet or a
// large order_margin can push an account toward liquidation even while its
// position_margin alone looks healthy.
func (e *Exchange) evaluateLiquidation() {
	pos := e.account.Position()
	if pos.IsFlat() || e.account.IsLiquidated() {
		return
	}
	pnl := pos.UnrealizedPnL(e.state.Bid(), e.state.Ask())
	equity := e.account.Margin().AvailableBalance().Add(pnl)
	if equity.IsPositive() {
		return
	}
	price := e.state.Bid()
	if pos.IsShort() {
		price = e.state.Ask()
	}
	e.account.Liquidate(price)
	e.tracker.PositionLiquidated(e.account, price)
}
