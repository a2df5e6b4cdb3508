package money

import "github.com/shopspring/decimal"

// Amount is satisfied by both Quote and Base. Position size, margin, and
// wallet balances are held behind this interface because which concrete
// currency they denote depends on the contract's FuturesType (spec.md §3):
// Paired is Base for linear futures and Quote for inverse futures, and the
// margin currency M is the other one. Dispatch lives in the two concrete
// types' Convert implementations, not in branching scattered through the
// engine.
type Amount interface {
	Add(Amount) Amount
	Sub(Amount) Amount
	Neg() Amount
	Abs() Amount
	MulScalar(decimal.Decimal) Amount
	DivScalar(decimal.Decimal) Amount
	Mod(Amount) Amount
	Cmp(Amount) int
	IsZero() bool
	IsPositive() bool
	IsNegative() bool
	Decimal() decimal.Decimal
	String() string

	// Convert maps this amount to the other paired currency at the given
	// price: multiply when this amount is denominated in Base (yielding
	// Quote), divide when denominated in Quote (yielding Base). Division by
	// a zero or negative price is a programmer error and panics.
	Convert(price Quote) Amount
}

func mustSameType(a, b Amount) {
	switch a.(type) {
	case Quote:
		if _, ok := b.(Quote); !ok {
			panic("money: mismatched currency types in operation")
		}
	case Base:
		if _, ok := b.(Base); !ok {
			panic("money: mismatched currency types in operation")
		}
	default:
		panic("money: unknown amount type")
	}
}
