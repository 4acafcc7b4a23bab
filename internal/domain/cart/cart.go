// Package cart holds the server-persisted shopping cart.
//
// The cart is deliberately modelled as an explicit state container with a
// single load/save boundary (the Repository) rather than ambient client
// state: the UI reads the cart at mount, every mutation round-trips through
// Save, and checkout clears it after the order is persisted.
package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidItem is returned when a cart line violates the cart invariant.
var ErrInvalidItem = errors.New("invalid cart item")

// Item is one cart line. The price is a snapshot taken when the item was
// added; checkout revalidates against the catalog.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Cart is a user's pre-checkout selection. Invariant: at most one entry per
// productId, every quantity >= 1.
type Cart struct {
	UserID string
	Items  []Item
}

// Normalize validates the invariant and merges duplicate product lines.
func Normalize(items []Item) ([]Item, error) {
	seen := make(map[string]int, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 || item.Price.IsNegative() {
			return nil, ErrInvalidItem
		}
		if i, ok := seen[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		seen[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out, nil
}

// Repository is the cart's load/save boundary. Load on a user with no cart
// returns an empty cart, not an error.
type Repository interface {
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Clear(ctx context.Context, userID string) error
}
