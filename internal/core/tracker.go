package core

import "github.com/marginforge/isolex/internal/money"

// AccountTracker is the Exchange's sole collaborator interface (spec.md
// §4.10): a set of notification hooks fired as the simulation progresses,
// with no return value and no ability to veto or alter the event. The
// default NoTracker makes every hook a no-op so the Exchange never pays for
// observation it doesn't need.
type AccountTracker interface {
	OrderAccepted(order *Order)
	OrderRejected(order *Order, err error)
	OrderFilled(order *Order, fillPrice money.Quote, pnl money.Amount)
	OrderCancelled(order *Order)
	PositionLiquidated(account *Account, price money.Quote)
	MarginInvariantViolated(account *Account)
}

// NoTracker is the zero-cost default AccountTracker (spec.md §9's Open
// Question on tracker cost: "prefer a no-op default over an Option so the
// hot path never branches on nil").
type NoTracker struct{}

func (NoTracker) OrderAccepted(order *Order)                                    {}
func (NoTracker) OrderRejected(order *Order, err error)                         {}
func (NoTracker) OrderFilled(order *Order, fillPrice money.Quote, pnl money.Amount) {}
func (NoTracker) OrderCancelled(order *Order)                                    {}
func (NoTracker) PositionLiquidated(account *Account, price money.Quote)        {}
func (NoTracker) MarginInvariantViolated(account *Account)                      {}

var _ AccountTracker = NoTracker{}
