package core

import (
	"github.com/marginforge/isolex/internal/filter"
	"github.com/marginforge/isolex/internal/market"
	"github.com/marginforge/isolex/internal/money"
	"github.com/shopspring/decimal"
)

// MarketState tracks the exchange's view of the traded instrument: the
// current best bid/ask, the running high/low since construction, a
// monotonic step counter, and the last update's timestamp (spec.md §4.7).
type MarketState struct {
	bid, ask   money.Quote
	low, high  money.Quote
	step       uint64
	timestamp  uint64
}

// NewMarketState seeds the state with an initial bid/ask; high/low start
// pinned to that same spread.
func NewMarketState(bid, ask money.Quote) *MarketState {
	return &MarketState{bid: bid, ask: ask, low: bid, high: ask}
}

func (s *MarketState) Bid() money.Quote  { return s.bid }
func (s *MarketState) Ask() money.Quote  { return s.ask }
func (s *MarketState) Low() money.Quote  { return s.low }
func (s *MarketState) High() money.Quote { return s.high }
func (s *MarketState) Step() uint64      { return s.step }
func (s *MarketState) Timestamp() uint64 { return s.timestamp }

// MidPrice is the simple average of the current bid and ask (supplemented
// feature, see SPEC_FULL.md §5).
func (s *MarketState) MidPrice() money.Quote {
	return s.bid.Add(s.ask).DivScalar(decimal.NewFromInt(2)).(money.Quote)
}

// UpdateState validates u against pf and, if it passes, commits the new
// bid/ask/high/low and advances step and timestamp (spec.md §4.7). Applying
// the same update twice is idempotent: the second call recomputes the same
// bid/ask/high/low from the same input and only step/timestamp change.
func (s *MarketState) UpdateState(u market.Update, pf filter.PriceFilter, ts uint64) error {
	if err := pf.ValidateUpdate(u); err != nil {
		return err
	}
	switch v := u.(type) {
	case market.Bba:
		s.bid, s.ask = v.Bid, v.Ask
		s.low = money.MinAmount(s.low, v.Bid).(money.Quote)
		s.high = money.MaxAmount(s.high, v.Ask).(money.Quote)
	case market.Trade:
		// A trade print does not move the quoted spread on its own.
	case market.Candle:
		s.bid, s.ask = v.Bid, v.Ask
		s.low = money.MinAmount(s.low, v.Low).(money.Quote)
		s.high = money.MaxAmount(s.high, v.High).(money.Quote)
	}
	s.step++
	s.timestamp = ts
	return nil
}
