package core

import (
	"testing"

	"github.com/marginforge/isolex/internal/money"
)

func TestMarginStartsFlatWithFullAvailableBalance(t *testing.T) {
	m := NewMargin(money.QuoteFromFloat(1000))
	if !m.WalletBalance().(money.Quote).Equal(money.QuoteFromFloat(1000)) {
		t.Fatalf("WalletBalance = %s, want 1000", m.WalletBalance())
	}
	if !m.AvailableBalance().(money.Quote).Equal(money.QuoteFromFloat(1000)) {
		t.Fatalf("AvailableBalance = %s, want 1000", m.AvailableBalance())
	}
	if !m.Invariant() {
		t.Fatal("a freshly opened margin ledger should satisfy its invariant")
	}
}

func TestMarginCarveOutsReduceAvailableBalance(t *testing.T) {
	m := NewMargin(money.QuoteFromFloat(1000))
	m.ApplyOrderMarginDelta(money.QuoteFromFloat(50))
	m.SetPositionMargin(money.QuoteFromFloat(100))

	if !m.OrderMargin().(money.Quote).Equal(money.QuoteFromFloat(50)) {
		t.Fatalf("OrderMargin = %s, want 50", m.OrderMargin())
	}
	if !m.AvailableBalance().(money.Quote).Equal(money.QuoteFromFloat(850)) {
		t.Fatalf("AvailableBalance = %s, want 850", m.AvailableBalance())
	}
}

func TestMarginApplyFeeAndRealizedPnL(t *testing.T) {
	m := NewMargin(money.QuoteFromFloat(1000))
	m.ApplyFee(money.QuoteFromFloat(5))
	m.ApplyRealizedPnL(money.QuoteFromFloat(20))

	if !m.WalletBalance().(money.Quote).Equal(money.QuoteFromFloat(1015)) {
		t.Fatalf("WalletBalance = %s, want 1015", m.WalletBalance())
	}
}

func TestMarginInvariantCatchesOverdrawnAvailableBalance(t *testing.T) {
	m := NewMargin(money.QuoteFromFloat(100))
	m.SetPositionMargin(money.QuoteFromFloat(60))
	m.ApplyOrderMarginDelta(money.QuoteFromFloat(60))

	if m.Invariant() {
		t.Fatal("expected Invariant to catch available_balance going negative")
	}
}

func TestMarginSetWalletBalanceForRestore(t *testing.T) {
	m := NewMargin(money.QuoteFromFloat(1000))
	m.SetWalletBalance(money.QuoteFromFloat(500))
	if !m.WalletBalance().(money.Quote).Equal(money.QuoteFromFloat(500)) {
		t.Fatalf("WalletBalance = %s, want 500", m.WalletBalance())
	}
}
