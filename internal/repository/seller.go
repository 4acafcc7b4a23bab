package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashrivastava/shopzone/internal/domain/seller"
)

const (
	createSellerSQL = `INSERT INTO sellers
		(id, name, email, password_hash, shop_name, phone, gst_number, is_verified, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	getSellerByIDSQL = `SELECT id, name, email, password_hash, shop_name, phone, gst_number,
		is_verified, is_active, created_at
		FROM sellers WHERE id = $1`

	getSellerByEmailSQL = `SELECT id, name, email, password_hash, shop_name, phone, gst_number,
		is_verified, is_active, created_at
		FROM sellers WHERE LOWER(email) = LOWER($1)`
)

var _ seller.Repository = (*SellerRepository)(nil)

// SellerRepository implements seller.Repository backed by PostgreSQL.
type SellerRepository struct {
	pool *pgxpool.Pool
}

// NewSellerRepository returns a SellerRepository that uses the given pool.
func NewSellerRepository(pool *pgxpool.Pool) *SellerRepository {
	return &SellerRepository{pool: pool}
}

// Create persists a new seller. A duplicate email maps to seller.ErrEmailTaken.
func (r *SellerRepository) Create(ctx context.Context, s *seller.Seller) error {
	_, err := r.pool.Exec(ctx, createSellerSQL,
		s.ID, s.Name, s.Email, s.PasswordHash, s.ShopName, s.Phone, s.GSTNumber,
		s.IsVerified, s.IsActive, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return seller.ErrEmailTaken
		}
		return fmt.Errorf("creating seller %q: %w", s.ID, err)
	}
	return nil
}

// GetByID returns the seller or seller.ErrNotFound.
func (r *SellerRepository) GetByID(ctx context.Context, id string) (*seller.Seller, error) {
	rows, err := r.pool.Query(ctx, getSellerByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting seller %q: %w", id, err)
	}
	return collectSeller(rows)
}

// GetByEmail returns the seller by email (case-insensitive) or seller.ErrNotFound.
func (r *SellerRepository) GetByEmail(ctx context.Context, email string) (*seller.Seller, error) {
	rows, err := r.pool.Query(ctx, getSellerByEmailSQL, email)
	if err != nil {
		return nil, fmt.Errorf("getting seller by email: %w", err)
	}
	return collectSeller(rows)
}

func collectSeller(rows pgx.Rows) (*seller.Seller, error) {
	s, err := pgx.CollectExactlyOneRow(rows, scanSeller)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, seller.ErrNotFound
		}
		return nil, fmt.Errorf("scanning seller: %w", err)
	}
	return &s, nil
}

func scanSeller(row pgx.CollectableRow) (seller.Seller, error) {
	var s seller.Seller
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.ShopName, &s.Phone, &s.GSTNumber,
		&s.IsVerified, &s.IsActive, &s.CreatedAt,
	)
	return s, err
}
