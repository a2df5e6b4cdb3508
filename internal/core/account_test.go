package core

import (
	"testing"

	"github.com/marginforge/isolex/internal/filter"
	"github.com/marginforge/isolex/internal/market"
	"github.com/marginforge/isolex/internal/money"
)

func testAccountValidator() Validator {
	return Validator{
		Leverage:    money.LeverageFromFloat(10),
		MakerFee:    money.RateFromFloat(0.001),
		TakerFee:    money.RateFromFloat(0.001),
		PriceFilter: filter.PriceFilter{TickSize: money.QuoteFromFloat(1)},
		QtyFilter:   filter.QuantityFilter{StepSize: money.BaseFromFloat(0.1)},
		MaxOrders:   10,
	}
}

func TestAccountSubmitMarketOrderOpensPosition(t *testing.T) {
	acc := NewAccount(money.Linear, money.QuoteFromFloat(1000), money.LeverageFromFloat(10), testAccountValidator())

	pnl, err := acc.SubmitMarketOrder(market.Buy, money.BaseFromFloat(4), money.QuoteFromFloat(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pnl.(money.Quote).IsZero() {
		t.Fatalf("opening a position should realize no P&L, got %s", pnl)
	}
	if !acc.Position().Size().(money.Base).Equal(money.BaseFromFloat(4)) {
		t.Fatalf("Position size = %s, want 4", acc.Position().Size())
	}
	if !acc.Margin().WalletBalance().(money.Quote).Equal(money.QuoteFromFloat(999.6)) {
		t.Fatalf("WalletBalance = %s, want 999.6", acc.Margin().WalletBalance())
	}
	if !acc.Margin().PositionMargin().(money.Quote).Equal(money.QuoteFromFloat(40)) {
		t.Fatalf("PositionMargin = %s, want 40", acc.Margin().PositionMargin())
	}
}

func TestAccountAppendAndCancelLimitOrder(t *testing.T) {
	acc := NewAccount(money.Linear, money.QuoteFromFloat(1000), money.LeverageFromFloat(10), testAccountValidator())
	_, err := acc.SubmitMarketOrder(market.Buy, money.BaseFromFloat(4), money.QuoteFromFloat(100))
	if err != nil {
		t.Fatalf("setup SubmitMarketOrder failed: %v", err)
	}

	order, err := acc.AppendLimitOrder(market.Sell, money.BaseFromFloat(5), money.QuoteFromFloat(120), money.QuoteFromFloat(100), 0)
	if err != nil {
		t.Fatalf("AppendLimitOrder failed: %v", err)
	}
	if !acc.Margin().OrderMargin().(money.Quote).Equal(money.QuoteFromFloat(12.12)) {
		t.Fatalf("OrderMargin after resting the order = %s, want 12.12", acc.Margin().OrderMargin())
	}

	if err := acc.CancelOrder(order.ID); err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	if !acc.Margin().OrderMargin().(money.Quote).IsZero() {
		t.Fatalf("OrderMargin after cancelling = %s, want 0", acc.Margin().OrderMargin())
	}
	if _, ok := acc.Order(order.ID); ok {
		t.Fatal("a cancelled order should no longer be active")
	}
}

func TestAccountCancelUnknownOrderFails(t *testing.T) {
	acc := NewAccount(money.Linear, money.QuoteFromFloat(1000), money.LeverageFromFloat(10), testAccountValidator())
	if err := acc.CancelOrder(999); err != ErrOrderNotFound {
		t.Fatalf("got %v, want ErrOrderNotFound", err)
	}
}

func TestAccountSettleFilledOrderReducesAndFlipsPosition(t *testing.T) {
	acc := NewAccount(money.Linear, money.QuoteFromFloat(1000), money.LeverageFromFloat(10), testAccountValidator())
	if _, err := acc.SubmitMarketOrder(market.Buy, money.BaseFromFloat(4), money.QuoteFromFloat(100)); err != nil {
		t.Fatalf("setup SubmitMarketOrder failed: %v", err)
	}

	order, err := acc.AppendLimitOrder(market.Sell, money.BaseFromFloat(5), money.QuoteFromFloat(120), money.QuoteFromFloat(100), 0)
	if err != nil {
		t.Fatalf("AppendLimitOrder failed: %v", err)
	}

	pnl, err := acc.SettleFilledOrder(order.ID, money.QuoteFromFloat(120))
	if err != nil {
		t.Fatalf("SettleFilledOrder failed: %v", err)
	}
	if !pnl.(money.Quote).Equal(money.QuoteFromFloat(80)) {
		t.Fatalf("realized pnl = %s, want 80", pnl)
	}
	if !acc.Position().IsShort() {
		t.Fatal("selling past a full long close should flip the position short")
	}
	if !acc.Position().Size().(money.Base).Equal(money.BaseFromFloat(-1)) {
		t.Fatalf("Position size after flipping = %s, want -1", acc.Position().Size())
	}
	if !acc.Position().EntryPrice().Equal(money.QuoteFromFloat(120)) {
		t.Fatalf("EntryPrice after flipping = %s, want 120", acc.Position().EntryPrice())
	}
	if !acc.Margin().OrderMargin().(money.Quote).IsZero() {
		t.Fatalf("OrderMargin after the order filled = %s, want 0", acc.Margin().OrderMargin())
	}
	if !acc.Margin().WalletBalance().(money.Quote).Equal(money.QuoteFromFloat(1079)) {
		t.Fatalf("WalletBalance = %s, want 1079", acc.Margin().WalletBalance())
	}
	if !acc.Margin().PositionMargin().(money.Quote).Equal(money.QuoteFromFloat(12)) {
		t.Fatalf("PositionMargin after flipping = %s, want 12", acc.Margin().PositionMargin())
	}
	if !acc.Margin().Invariant() {
		t.Fatal("margin invariant should hold after the fill")
	}
}

func TestAccountLiquidateClosesPositionAndCancelsOrders(t *testing.T) {
	acc := NewAccount(money.Linear, money.QuoteFromFloat(1000), money.LeverageFromFloat(10), testAccountValidator())
	acc.ChangePosition(money.BaseFromFloat(-2), money.QuoteFromFloat(100), money.QuoteFromFloat(20))

	acc.Liquidate(money.QuoteFromFloat(130))

	if !acc.IsLiquidated() {
		t.Fatal("expected the account to be marked liquidated")
	}
	if !acc.Position().IsFlat() {
		t.Fatal("expected the position to be flat after liquidation")
	}
	if !acc.Margin().WalletBalance().(money.Quote).Equal(money.QuoteFromFloat(940)) {
		t.Fatalf("WalletBalance after liquidation = %s, want 940", acc.Margin().WalletBalance())
	}
	if !acc.Margin().PositionMargin().(money.Quote).IsZero() {
		t.Fatalf("PositionMargin after liquidation = %s, want 0", acc.Margin().PositionMargin())
	}
}

func TestAccountRejectsOrdersAfterLiquidation(t *testing.T) {
	acc := NewAccount(money.Linear, money.QuoteFromFloat(1000), money.LeverageFromFloat(10), testAccountValidator())
	acc.Liquidate(money.QuoteFromFloat(100))

	if _, err := acc.SubmitMarketOrder(market.Buy, money.BaseFromFloat(1), money.QuoteFromFloat(100)); err != ErrAccountLiquidated {
		t.Fatalf("got %v, want ErrAccountLiquidated", err)
	}
	if _, err := acc.AppendLimitOrder(market.Buy, money.BaseFromFloat(1), money.QuoteFromFloat(100), money.QuoteFromFloat(100), 0); err != ErrAccountLiquidated {
		t.Fatalf("got %v, want ErrAccountLiquidated", err)
	}
}
