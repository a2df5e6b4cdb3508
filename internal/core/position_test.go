package core

import (
	"testing"

	"github.com/marginforge/isolex/internal/money"
)

func TestPositionOpenAndAccessors(t *testing.T) {
	p := NewPosition(money.Linear, money.LeverageFromFloat(10))
	if !p.IsFlat() {
		t.Fatal("a new position should be flat")
	}

	if err := p.Open(money.BaseFromFloat(2), money.QuoteFromFloat(100), money.QuoteFromFloat(20)); err != nil {
		t.Fatalf("Open returned an error: %v", err)
	}
	if !p.IsLong() {
		t.Fatal("positive size should be long")
	}
	if !p.EntryPrice().Equal(money.QuoteFromFloat(100)) {
		t.Fatalf("EntryPrice = %s, want 100", p.EntryPrice())
	}
	if !p.PositionMargin().(money.Quote).Equal(money.QuoteFromFloat(20)) {
		t.Fatalf("PositionMargin = %s, want 20", p.PositionMargin())
	}
}

func TestPositionOpenRejectsNonPositivePrice(t *testing.T) {
	p := NewPosition(money.Linear, money.LeverageFromFloat(10))
	if err := p.Open(money.BaseFromFloat(1), money.QuoteZero, money.QuoteFromFloat(10)); err != ErrInvalidPrice {
		t.Fatalf("got %v, want ErrInvalidPrice", err)
	}
}

func TestPositionIncreaseLongWeightsEntryPrice(t *testing.T) {
	p := NewPosition(money.Linear, money.LeverageFromFloat(10))
	_ = p.Open(money.BaseFromFloat(2), money.QuoteFromFloat(100), money.QuoteFromFloat(20))

	p.IncreaseLong(money.BaseFromFloat(2), money.QuoteFromFloat(110), money.QuoteFromFloat(22))

	if !p.Size().(money.Base).Equal(money.BaseFromFloat(4)) {
		t.Fatalf("Size = %s, want 4", p.Size())
	}
	if !p.EntryPrice().Equal(money.QuoteFromFloat(105)) {
		t.Fatalf("EntryPrice = %s, want 105", p.EntryPrice())
	}
	if !p.PositionMargin().(money.Quote).Equal(money.QuoteFromFloat(42)) {
		t.Fatalf("PositionMargin = %s, want 42", p.PositionMargin())
	}
}

func TestPositionIncreaseLongPanicsWhileShort(t *testing.T) {
	p := NewPosition(money.Linear, money.LeverageFromFloat(10))
	_ = p.Open(money.BaseFromFloat(-2), money.QuoteFromFloat(100), money.QuoteFromFloat(20))
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic increasing long while short")
		}
	}()
	p.IncreaseLong(money.BaseFromFloat(1), money.QuoteFromFloat(100), money.QuoteFromFloat(10))
}

func TestPositionDecreaseLongRealizesPnLAndRederivesMargin(t *testing.T) {
	p := NewPosition(money.Linear, money.LeverageFromFloat(10))
	_ = p.Open(money.BaseFromFloat(4), money.QuoteFromFloat(105), money.QuoteFromFloat(42))

	pnl := p.DecreaseLong(money.BaseFromFloat(1), money.QuoteFromFloat(120))

	if !pnl.(money.Quote).Equal(money.QuoteFromFloat(15)) {
		t.Fatalf("pnl = %s, want 15", pnl)
	}
	if !p.Size().(money.Base).Equal(money.BaseFromFloat(3)) {
		t.Fatalf("Size = %s, want 3", p.Size())
	}
	if !p.PositionMargin().(money.Quote).Equal(money.QuoteFromFloat(31.5)) {
		t.Fatalf("PositionMargin = %s, want 31.5", p.PositionMargin())
	}
}

func TestPositionIncreaseShortWeightsEntryPriceByMagnitude(t *testing.T) {
	p := NewPosition(money.Linear, money.LeverageFromFloat(10))
	_ = p.Open(money.BaseFromFloat(-2), money.QuoteFromFloat(100), money.QuoteFromFloat(20))

	p.IncreaseShort(money.BaseFromFloat(2), money.QuoteFromFloat(90), money.QuoteFromFloat(18))

	if !p.Size().(money.Base).Equal(money.BaseFromFloat(-4)) {
		t.Fatalf("Size = %s, want -4", p.Size())
	}
	if !p.EntryPrice().Equal(money.QuoteFromFloat(95)) {
		t.Fatalf("EntryPrice = %s, want 95", p.EntryPrice())
	}
	if !p.PositionMargin().(money.Quote).Equal(money.QuoteFromFloat(38)) {
		t.Fatalf("PositionMargin = %s, want 38", p.PositionMargin())
	}
}

func TestPositionDecreaseShortRealizesPnLAndRederivesMargin(t *testing.T) {
	p := NewPosition(money.Linear, money.LeverageFromFloat(10))
	_ = p.Open(money.BaseFromFloat(-4), money.QuoteFromFloat(95), money.QuoteFromFloat(38))

	pnl := p.DecreaseShort(money.BaseFromFloat(1), money.QuoteFromFloat(80))

	if !pnl.(money.Quote).Equal(money.QuoteFromFloat(15)) {
		t.Fatalf("pnl = %s, want 15 (a short profits as price falls)", pnl)
	}
	if !p.Size().(money.Base).Equal(money.BaseFromFloat(-3)) {
		t.Fatalf("Size = %s, want -3", p.Size())
	}
	if !p.PositionMargin().(money.Quote).Equal(money.QuoteFromFloat(28.5)) {
		t.Fatalf("PositionMargin = %s, want 28.5", p.PositionMargin())
	}
}

func TestPositionDecreaseShortToFlatZeroesMargin(t *testing.T) {
	p := NewPosition(money.Linear, money.LeverageFromFloat(10))
	_ = p.Open(money.BaseFromFloat(-2), money.QuoteFromFloat(100), money.QuoteFromFloat(20))

	_ = p.DecreaseShort(money.BaseFromFloat(2), money.QuoteFromFloat(90))

	if !p.IsFlat() {
		t.Fatal("expected a flat position after closing the full short")
	}
	if !p.PositionMargin().(money.Quote).IsZero() {
		t.Fatalf("PositionMargin = %s, want 0", p.PositionMargin())
	}
}

func TestPositionUnrealizedPnLUsesConservativeSide(t *testing.T) {
	long := NewPosition(money.Linear, money.LeverageFromFloat(10))
	_ = long.Open(money.BaseFromFloat(2), money.QuoteFromFloat(100), money.QuoteFromFloat(20))
	bid, ask := money.QuoteFromFloat(108), money.QuoteFromFloat(112)
	if !long.UnrealizedPnL(bid, ask).(money.Quote).Equal(money.QuoteFromFloat(16)) {
		t.Fatalf("long UnrealizedPnL = %s, want 16 (priced at bid)", long.UnrealizedPnL(bid, ask))
	}

	short := NewPosition(money.Linear, money.LeverageFromFloat(10))
	_ = short.Open(money.BaseFromFloat(-2), money.QuoteFromFloat(100), money.QuoteFromFloat(20))
	if !short.UnrealizedPnL(bid, ask).(money.Quote).Equal(money.QuoteFromFloat(-24)) {
		t.Fatalf("short UnrealizedPnL = %s, want -24 (priced at ask)", short.UnrealizedPnL(bid, ask))
	}
}

func TestPositionImpliedLeverage(t *testing.T) {
	p := NewPosition(money.Linear, money.LeverageFromFloat(10))
	_ = p.Open(money.BaseFromFloat(2), money.QuoteFromFloat(100), money.QuoteFromFloat(20))
	// notional at price 100 is 200, margin is 20: implied leverage is 10x.
	if got := p.ImpliedLeverage(money.QuoteFromFloat(100)); got != 10 {
		t.Fatalf("ImpliedLeverage = %v, want 10", got)
	}
}

func TestPositionImpliedLeverageZeroMargin(t *testing.T) {
	p := NewPosition(money.Linear, money.LeverageFromFloat(10))
	if got := p.ImpliedLeverage(money.QuoteFromFloat(100)); got != 0 {
		t.Fatalf("ImpliedLeverage on a flat position = %v, want 0", got)
	}
}
