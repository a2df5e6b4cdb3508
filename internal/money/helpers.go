package money

import "github.com/shopspring/decimal"

// Rate is an unsigned fractional rate (a fee rate) applied by scalar
// multiplication against an Amount.
type Rate struct {
	v decimal.Decimal
}

// NewRate wraps a non-negative decimal as a Rate; panics on a negative rate
// since fee schedules are config, validated once at startup.
func NewRate(d decimal.Decimal) Rate {
	if d.IsNegative() {
		panic("money: rate must be non-negative")
	}
	return Rate{v: d}
}

// RateFromFloat builds a Rate from a float64 fee rate, e.g. 0.0002.
func RateFromFloat(f float64) Rate {
	return NewRate(decimal.NewFromFloat(f))
}

func (r Rate) Decimal() decimal.Decimal { return r.v }

// Fee returns amount * rate, in the same currency as amount.
func Fee(amount Amount, rate Rate) Amount {
	return amount.MulScalar(rate.v)
}

// Leverage is a rational number >= 1, applied to Amounts by scalar division.
type Leverage struct {
	v decimal.Decimal
}

// NewLeverage wraps a decimal leverage value; panics if < 1, since leverage
// below 1x is a misconfiguration caught once at account creation.
func NewLeverage(d decimal.Decimal) Leverage {
	if d.LessThan(decimal.NewFromInt(1)) {
		panic("money: leverage must be >= 1")
	}
	return Leverage{v: d}
}

// LeverageFromFloat builds a Leverage from a float64, e.g. 1, 10, 100.
func LeverageFromFloat(f float64) Leverage {
	return NewLeverage(decimal.NewFromFloat(f))
}

func (l Leverage) Decimal() decimal.Decimal { return l.v }

// DivLeverage divides an Amount by a Leverage (banker's rounding, per
// spec.md §4.8's numeric semantics on any non-exact division).
func DivLeverage(amount Amount, lev Leverage) Amount {
	return amount.DivScalar(lev.v)
}

// MinAmount and MaxAmount compare two same-typed Amounts, used throughout
// the validator's market-order cost computation (spec.md §4.6).
func MinAmount(a, b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func MaxAmount(a, b Amount) Amount {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// PnL implements spec.md §4.1's P&L formula, dispatching on FuturesType at
// the single point that needs to know which currency quantity is
// denominated in:
//
//	Linear  (Paired=Base):  pnl = (exit-entry) * quantity = quantity.Convert(exit) - quantity.Convert(entry)
//	Inverse (Paired=Quote): pnl = quantity * (1/entry - 1/exit) = quantity.Convert(entry) - quantity.Convert(exit)
//
// quantity's sign encodes side; a negative quantity (closing a short)
// naturally flips the sign of the result since Convert preserves sign.
func PnL(ft FuturesType, entry, exit Quote, quantity Amount) Amount {
	atEntry := quantity.Convert(entry)
	atExit := quantity.Convert(exit)
	if ft == Linear {
		return atExit.Sub(atEntry)
	}
	return atEntry.Sub(atExit)
}
