// Package pricing computes cart totals. It is pure: no storage, no clock,
// no side effects. Callers re-run it whenever the cart or the applied
// coupon changes.
package pricing

import "github.com/shopspring/decimal"

// Item is a single cart line for pricing purposes.
type Item struct {
	Price    decimal.Decimal
	Quantity int
}

// Quote is the result of pricing a cart.
type Quote struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Calculator prices carts against a shipping rule.
type Calculator struct {
	// FreeShippingOver is the subtotal above which shipping is free.
	FreeShippingOver decimal.Decimal
	// ShippingFee is the flat fee charged below the threshold.
	ShippingFee decimal.Decimal
}

// NewCalculator returns a Calculator with the storefront defaults:
// free shipping over 500, flat fee of 50 otherwise.
func NewCalculator() Calculator {
	return Calculator{
		FreeShippingOver: decimal.NewFromInt(500),
		ShippingFee:      decimal.NewFromInt(50),
	}
}

// Subtotal returns the sum of price * quantity across all items.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// Shipping returns the shipping charge for the given subtotal.
// Shipping is free only when the subtotal strictly exceeds the threshold.
func (c Calculator) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(c.FreeShippingOver) {
		return decimal.Zero
	}
	return c.ShippingFee
}

// Price computes the full quote for a cart with an optional discount already
// resolved by coupon validation. The total is floored at zero: a discount
// larger than subtotal plus shipping never produces a negative total.
func (c Calculator) Price(items []Item, discount decimal.Decimal) Quote {
	subtotal := Subtotal(items)
	shipping := c.Shipping(subtotal)

	total := subtotal.Add(shipping).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    total.Round(2),
	}
}
