// Package money implements the fixed-point decimal currency algebra the
// engine uses for every balance, price, and fee. All arithmetic goes through
// github.com/shopspring/decimal so comparisons and accumulated balances stay
// exact; floating point never enters the core.
package money

import "github.com/shopspring/decimal"

// DecimalPlaces is the fractional precision every money value is rounded to
// on any inexact operation (leverage division, inverse-price conversion).
// spec.md §4.1 requires at least 8 places.
const DecimalPlaces = 8

// FuturesType selects the contract flavor, which in turn decides which of
// Quote/Base plays the role of margin currency M vs. paired currency
// M::Paired. Kept as a tagged variant (rather than a generic type parameter)
// so the money types themselves stay monomorphic. In this package PnL,
// PairedZero and MarginZero branch on it; currency conversion dispatches on
// the concrete Amount type (Quote or Base) instead.
type FuturesType int8

const (
	// Linear futures: margin currency is Quote, paired (size) currency is Base.
	Linear FuturesType = iota
	// Inverse futures: margin currency is Base, paired (size) currency is Quote.
	Inverse
)

func (t FuturesType) String() string {
	if t == Inverse {
		return "Inverse"
	}
	return "Linear"
}

func roundBank(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(DecimalPlaces)
}

// PairedZero returns the zero value of the paired (size) currency for a
// given contract flavor: Base for linear, Quote for inverse.
func PairedZero(ft FuturesType) Amount {
	if ft == Linear {
		return BaseZero
	}
	return QuoteZero
}

// MarginZero returns the zero value of the margin currency M for a given
// contract flavor: Quote for linear, Base for inverse.
func MarginZero(ft FuturesType) Amount {
	if ft == Linear {
		return QuoteZero
	}
	return BaseZero
}
