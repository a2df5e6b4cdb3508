package filter

import "github.com/marginforge/isolex/internal/money"

// QuantityFilter defines the order-size rules for the instrument
// (spec.md §4.3). MinQuantity/MaxQuantity of zero (or left unset) disables
// that bound.
type QuantityFilter struct {
	MinQuantity money.Amount
	MaxQuantity money.Amount
	StepSize    money.Amount
}

// ValidateQuantity rejects sizes outside [min, max] or not aligned to
// StepSize.
func (f QuantityFilter) ValidateQuantity(size money.Amount) error {
	if f.MinQuantity != nil && !f.MinQuantity.IsZero() && size.Cmp(f.MinQuantity) < 0 {
		return ErrInvalidOrderQuantity
	}
	if f.MaxQuantity != nil && !f.MaxQuantity.IsZero() && size.Cmp(f.MaxQuantity) > 0 {
		return ErrInvalidOrderQuantity
	}
	if !size.Mod(f.StepSize).IsZero() {
		return ErrInvalidOrderQuantity
	}
	return nil
}
