package coupon

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount computes the discount amount the rule grants for the given cart
// total. Percentage discounts are clamped to the rule's MaxDiscount when one
// is set. The result is rounded to the nearest whole currency unit, matching
// how totals are presented to the shopper.
func (r *Rule) Discount(cartTotal decimal.Decimal) (decimal.Decimal, error) {
	var amount decimal.Decimal

	switch r.DiscountType {
	case DiscountPercentage:
		amount = cartTotal.Mul(r.DiscountValue).Div(hundred)
		if r.MaxDiscount != nil && amount.GreaterThan(*r.MaxDiscount) {
			amount = *r.MaxDiscount
		}
	case DiscountFixed:
		amount = r.DiscountValue
	default:
		return decimal.Zero, errors.Errorf("unsupported discount type: %q", r.DiscountType)
	}

	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return amount.Round(0), nil
}
