package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashrivastava/shopzone/internal/domain/product"
)

const productColumns = `id, seller_id, seller_name, name, description, price, original_price,
	category, image, stock, discount, trending, featured, best_seller, is_active,
	views, sales, created_at`

const (
	listProductsSQL = `SELECT ` + productColumns + `
		FROM products WHERE is_active ORDER BY created_at DESC`

	getProductByIDSQL = `SELECT ` + productColumns + `
		FROM products WHERE id = $1 AND is_active`

	searchProductsSQL = `SELECT ` + productColumns + `
		FROM products
		WHERE is_active AND (name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1)
		ORDER BY views DESC`

	relatedProductsSQL = `SELECT ` + productColumns + `
		FROM products
		WHERE is_active AND category = $1 AND id <> $2
		ORDER BY views DESC LIMIT $3`

	incrementViewsSQL = `UPDATE products SET views = views + 1 WHERE id = $1`

	createProductSQL = `INSERT INTO products
		(id, seller_id, seller_name, name, description, price, original_price,
		 category, image, stock, discount, trending, featured, best_seller, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	listBySellerSQL = `SELECT ` + productColumns + `
		FROM products WHERE seller_id = $1 ORDER BY created_at DESC`

	deleteOwnedProductSQL = `DELETE FROM products WHERE id = $1 AND seller_id = $2`

	dashboardStatsSQL = `SELECT COUNT(*),
		COALESCE(SUM(views), 0), COALESCE(SUM(sales), 0),
		COUNT(*) FILTER (WHERE stock < 5)
		FROM products WHERE seller_id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all active products, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single active product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Search matches the query against name, description, and category.
func (r *ProductRepository) Search(ctx context.Context, query string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, searchProductsSQL, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Related returns active products sharing the category, most viewed first.
func (r *ProductRepository) Related(ctx context.Context, category, excludeID string, limit int) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, relatedProductsSQL, category, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing related products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// IncrementViews bumps the product's view counter.
func (r *ProductRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, incrementViewsSQL, id)
	if err != nil {
		return fmt.Errorf("incrementing views for product %q: %w", id, err)
	}
	return nil
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, createProductSQL,
		p.ID, p.SellerID, p.SellerName, p.Name, p.Description, p.Price, p.OriginalPrice,
		p.Category, p.Image, p.Stock, p.Discount, p.Trending, p.Featured, p.BestSeller,
		p.IsActive, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// ListBySeller returns the seller's products, newest first, active or not.
func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listBySellerSQL, sellerID)
	if err != nil {
		return nil, fmt.Errorf("listing products for seller %q: %w", sellerID, err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// DeleteOwned removes the product only when owned by the seller.
func (r *ProductRepository) DeleteOwned(ctx context.Context, sellerID, id string) error {
	tag, err := r.pool.Exec(ctx, deleteOwnedProductSQL, id, sellerID)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// DashboardStats aggregates the seller's catalog counters.
func (r *ProductRepository) DashboardStats(ctx context.Context, sellerID string) (*product.DashboardStats, error) {
	var stats product.DashboardStats
	err := r.pool.QueryRow(ctx, dashboardStatsSQL, sellerID).Scan(
		&stats.TotalProducts, &stats.TotalViews, &stats.TotalSales, &stats.LowStock,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating dashboard stats for seller %q: %w", sellerID, err)
	}
	return &stats, nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.SellerID, &p.SellerName, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Category, &p.Image, &p.Stock, &p.Discount, &p.Trending, &p.Featured, &p.BestSeller,
		&p.IsActive, &p.Views, &p.Sales, &p.CreatedAt,
	)
	return p, err
}
