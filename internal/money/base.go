package money

import "github.com/shopspring/decimal"

// Base is an amount denominated in base currency: position size for linear
// futures, or the margin/wallet currency for inverse futures.
type Base struct {
	v decimal.Decimal
}

// BaseZero is the additive identity.
var BaseZero = Base{v: decimal.Zero}

// NewBase builds a Base from a decimal.Decimal, rounded to DecimalPlaces.
func NewBase(d decimal.Decimal) Base {
	return Base{v: d.Round(DecimalPlaces)}
}

// BaseFromFloat builds a Base from a float64, for test fixtures and config.
func BaseFromFloat(f float64) Base {
	return NewBase(decimal.NewFromFloat(f))
}

// BaseFromString parses a decimal string into a Base; panics on malformed
// input, matching QuoteFromString.
func BaseFromString(s string) Base {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("money: invalid base literal " + s)
	}
	return NewBase(d)
}

func (b Base) Decimal() decimal.Decimal { return b.v }
func (b Base) String() string           { return b.v.String() }

func (b Base) Add(o Amount) Amount {
	mustSameType(b, o)
	return NewBase(b.v.Add(o.(Base).v))
}

func (b Base) Sub(o Amount) Amount {
	mustSameType(b, o)
	return NewBase(b.v.Sub(o.(Base).v))
}

func (b Base) Neg() Amount { return NewBase(b.v.Neg()) }

func (b Base) Abs() Amount { return NewBase(b.v.Abs()) }

func (b Base) MulScalar(s decimal.Decimal) Amount { return NewBase(b.v.Mul(s)) }

func (b Base) DivScalar(s decimal.Decimal) Amount {
	if s.IsZero() {
		panic("money: division by zero")
	}
	return Base{v: roundBank(b.v.Div(s))}
}

func (b Base) Mod(o Amount) Amount {
	mustSameType(b, o)
	divisor := o.(Base).v
	if divisor.IsZero() {
		panic("money: modulo by zero")
	}
	return NewBase(b.v.Mod(divisor))
}

func (b Base) Cmp(o Amount) int {
	mustSameType(b, o)
	return b.v.Cmp(o.(Base).v)
}

func (b Base) IsZero() bool     { return b.v.IsZero() }
func (b Base) IsPositive() bool { return b.v.IsPositive() }
func (b Base) IsNegative() bool { return b.v.IsNegative() }

// Convert multiplies a base-denominated amount by price, yielding Quote.
// This is the paired conversion rule for an amount currently held in Base
// (spec.md §3): x.convert(p) = x * p.
func (b Base) Convert(price Quote) Amount {
	if !price.IsPositive() {
		panic("money: convert requires a positive price")
	}
	return Quote{v: roundBank(b.v.Mul(price.v))}
}

func (b Base) LessThan(o Base) bool           { return b.v.LessThan(o.v) }
func (b Base) LessThanOrEqual(o Base) bool    { return b.v.LessThanOrEqual(o.v) }
func (b Base) GreaterThan(o Base) bool        { return b.v.GreaterThan(o.v) }
func (b Base) GreaterThanOrEqual(o Base) bool { return b.v.GreaterThanOrEqual(o.v) }
func (b Base) Equal(o Base) bool              { return b.v.Equal(o.v) }
