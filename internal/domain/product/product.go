// Package product defines the catalog and the seller-facing management rules.
package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item owned by a seller. SellerName is denormalized
// for display so listings avoid a join.
type Product struct {
	ID            string
	SellerID      string
	SellerName    string
	Name          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
	Category      string
	Image         string
	Stock         int
	Discount      int
	Trending      bool
	Featured      bool
	BestSeller    bool
	IsActive      bool
	Views         int64
	Sales         int64
	CreatedAt     time.Time
}

// DashboardStats aggregates a seller's catalog for the dashboard view.
type DashboardStats struct {
	TotalProducts int
	TotalViews    int64
	TotalSales    int64
	LowStock      int
}

// Repository defines catalog operations.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
	// Related returns active products sharing a category, most viewed
	// first, excluding the given product.
	Related(ctx context.Context, category, excludeID string, limit int) ([]Product, error)
	// IncrementViews bumps the view counter. Not transactionally linked to
	// anything else; an approximate count is fine.
	IncrementViews(ctx context.Context, id string) error

	Create(ctx context.Context, p *Product) error
	ListBySeller(ctx context.Context, sellerID string) ([]Product, error)
	// DeleteOwned removes a product only when owned by the seller;
	// returns ErrNotFound otherwise.
	DeleteOwned(ctx context.Context, sellerID, id string) error
	DashboardStats(ctx context.Context, sellerID string) (*DashboardStats, error)
}
