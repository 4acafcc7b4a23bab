package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashrivastava/shopzone/internal/domain/review"
)

const (
	createReviewSQL = `INSERT INTO reviews
		(id, product_id, product_name, user_id, user_name, rating, title, comment, images,
		 helpful, not_helpful, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	listReviewsByProductSQL = `SELECT id, product_id, product_name, user_id, user_name, rating,
		title, comment, images, helpful, not_helpful, verified, created_at
		FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`

	addHelpfulSQL    = `UPDATE reviews SET helpful = helpful + 1 WHERE id = $1`
	addNotHelpfulSQL = `UPDATE reviews SET not_helpful = not_helpful + 1 WHERE id = $1`

	deleteOwnedReviewSQL = `DELETE FROM reviews WHERE id = $1 AND user_id = $2`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create persists a review.
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	images := rv.Images
	if images == nil {
		images = []string{}
	}
	_, err := r.pool.Exec(ctx, createReviewSQL,
		rv.ID, rv.ProductID, rv.ProductName, rv.UserID, rv.UserName, rv.Rating,
		rv.Title, rv.Comment, images, rv.Helpful, rv.NotHelpful, rv.Verified, rv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating review %q: %w", rv.ID, err)
	}
	return nil
}

// ListByProduct returns the product's reviews, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsByProductSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for product %q: %w", productID, err)
	}
	return pgx.CollectRows(rows, scanReview)
}

// AddFeedback increments the helpful or not-helpful counter.
func (r *ReviewRepository) AddFeedback(ctx context.Context, reviewID string, helpful bool) error {
	sql := addNotHelpfulSQL
	if helpful {
		sql = addHelpfulSQL
	}
	tag, err := r.pool.Exec(ctx, sql, reviewID)
	if err != nil {
		return fmt.Errorf("recording feedback for review %q: %w", reviewID, err)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrNotFound
	}
	return nil
}

// DeleteOwned removes the review only when authored by the user.
func (r *ReviewRepository) DeleteOwned(ctx context.Context, reviewID, userID string) error {
	tag, err := r.pool.Exec(ctx, deleteOwnedReviewSQL, reviewID, userID)
	if err != nil {
		return fmt.Errorf("deleting review %q: %w", reviewID, err)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrNotFound
	}
	return nil
}

func scanReview(row pgx.CollectableRow) (review.Review, error) {
	var rv review.Review
	err := row.Scan(
		&rv.ID, &rv.ProductID, &rv.ProductName, &rv.UserID, &rv.UserName, &rv.Rating,
		&rv.Title, &rv.Comment, &rv.Images, &rv.Helpful, &rv.NotHelpful, &rv.Verified,
		&rv.CreatedAt,
	)
	return rv, err
}
