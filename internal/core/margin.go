package core

import "github.com/marginforge/isolex/internal/money"

// Margin is the isolated-margin ledger for a single account (spec.md §4.1/
// §4.5): wallet_balance funds everything; position_margin and order_margin
// are carved out of it; available_balance is what remains free to back new
// orders. All four quantities are denominated in the margin currency M and
// must stay non-negative (spec.md §8, invariant (i)).
type Margin struct {
	walletBalance  money.Amount
	positionMargin money.Amount
	orderMargin    money.Amount
}

// NewMargin starts a ledger with the given wallet balance and zero
// position/order margin, in the same concrete currency as startingBalance.
func NewMargin(startingBalance money.Amount) *Margin {
	zero := startingBalance.Sub(startingBalance)
	return &Margin{
		walletBalance:  startingBalance,
		positionMargin: zero,
		orderMargin:    zero,
	}
}

func (m *Margin) WalletBalance() money.Amount { return m.walletBalance }
func (m *Margin) PositionMargin() money.Amount { return m.positionMargin }
func (m *Margin) OrderMargin() money.Amount    { return m.orderMargin }

// AvailableBalance is wallet_balance minus both carve-outs.
func (m *Margin) AvailableBalance() money.Amount {
	return m.walletBalance.Sub(m.positionMargin).Sub(m.orderMargin)
}

// SetWalletBalance overwrites wallet_balance directly. It exists for
// restoring a ledger from a persisted snapshot (pkg/persist) and must never
// be reachable from order-admission or fill code paths.
func (m *Margin) SetWalletBalance(wb money.Amount) { m.walletBalance = wb }

// SetPositionMargin overwrites the position_margin carve-out. Called after
// every Position mutation, which re-derives the figure itself (spec.md
// §4.4) — Margin just mirrors it.
func (m *Margin) SetPositionMargin(pm money.Amount) { m.positionMargin = pm }

// ApplyOrderMarginDelta adjusts order_margin by delta (signed), used by
// Account when a limit order rests, fills, or cancels (spec.md §4.5/§4.6).
func (m *Margin) ApplyOrderMarginDelta(delta money.Amount) { m.orderMargin = m.orderMargin.Add(delta) }

// ApplyRealizedPnL credits or debits the wallet with a closed trade's P&L.
func (m *Margin) ApplyRealizedPnL(pnl money.Amount) { m.walletBalance = m.walletBalance.Add(pnl) }

// ApplyFee debits the wallet by a (non-negative) fee amount.
func (m *Margin) ApplyFee(fee money.Amount) { m.walletBalance = m.walletBalance.Sub(fee) }

// Invariant reports whether all four ledger quantities remain non-negative
// (spec.md §8, invariant (i)).
func (m *Margin) Invariant() bool {
	return !m.walletBalance.IsNegative() &&
		!m.positionMargin.IsNegative() &&
		!m.orderMargin.IsNegative() &&
		!m.AvailableBalance().IsNegative()
}
