package money

import "github.com/shopspring/decimal"

// Quote is an amount denominated in quote currency: a price, or (for linear
// futures) the margin/wallet currency, or (for inverse futures) the paired
// size currency.
type Quote struct {
	v decimal.Decimal
}

// QuoteZero is the additive identity.
var QuoteZero = Quote{v: decimal.Zero}

// NewQuote builds a Quote from a decimal.Decimal, rounded to DecimalPlaces.
func NewQuote(d decimal.Decimal) Quote {
	return Quote{v: d.Round(DecimalPlaces)}
}

// QuoteFromFloat builds a Quote from a float64, for test fixtures and config.
func QuoteFromFloat(f float64) Quote {
	return NewQuote(decimal.NewFromFloat(f))
}

// QuoteFromString parses a decimal string into a Quote; panics on malformed
// input since callers only ever pass compile-time literals or
// already-validated config.
func QuoteFromString(s string) Quote {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("money: invalid quote literal " + s)
	}
	return NewQuote(d)
}

func (q Quote) Decimal() decimal.Decimal { return q.v }
func (q Quote) String() string           { return q.v.String() }

func (q Quote) Add(o Amount) Amount {
	mustSameType(q, o)
	return NewQuote(q.v.Add(o.(Quote).v))
}

func (q Quote) Sub(o Amount) Amount {
	mustSameType(q, o)
	return NewQuote(q.v.Sub(o.(Quote).v))
}

func (q Quote) Neg() Amount { return NewQuote(q.v.Neg()) }

func (q Quote) Abs() Amount { return NewQuote(q.v.Abs()) }

func (q Quote) MulScalar(s decimal.Decimal) Amount { return NewQuote(q.v.Mul(s)) }

func (q Quote) DivScalar(s decimal.Decimal) Amount {
	if s.IsZero() {
		panic("money: division by zero")
	}
	return Quote{v: roundBank(q.v.Div(s))}
}

func (q Quote) Mod(o Amount) Amount {
	mustSameType(q, o)
	divisor := o.(Quote).v
	if divisor.IsZero() {
		panic("money: modulo by zero")
	}
	return NewQuote(q.v.Mod(divisor))
}

func (q Quote) Cmp(o Amount) int {
	mustSameType(q, o)
	return q.v.Cmp(o.(Quote).v)
}

func (q Quote) IsZero() bool     { return q.v.IsZero() }
func (q Quote) IsPositive() bool { return q.v.IsPositive() }
func (q Quote) IsNegative() bool { return q.v.IsNegative() }

// Convert divides a quote-denominated amount by price, yielding Base. This
// is the paired conversion rule for an amount currently held in Quote
// (spec.md §3): x.convert(p) = x / p.
func (q Quote) Convert(price Quote) Amount {
	if !price.IsPositive() {
		panic("money: convert requires a positive price")
	}
	return Base{v: roundBank(q.v.Div(price.v))}
}

// MulDecimal multiplies a Quote by a plain decimal (used for the
// multiplier_up/down bands, which are not a second currency amount).
func (q Quote) MulDecimal(d decimal.Decimal) Quote {
	return NewQuote(q.v.Mul(d))
}

// LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual are convenience
// wrappers used throughout the filter/validator code for readability.
func (q Quote) LessThan(o Quote) bool           { return q.v.LessThan(o.v) }
func (q Quote) LessThanOrEqual(o Quote) bool    { return q.v.LessThanOrEqual(o.v) }
func (q Quote) GreaterThan(o Quote) bool        { return q.v.GreaterThan(o.v) }
func (q Quote) GreaterThanOrEqual(o Quote) bool { return q.v.GreaterThanOrEqual(o.v) }
func (q Quote) Equal(o Quote) bool              { return q.v.Equal(o.v) }
