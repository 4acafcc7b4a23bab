// Package review implements product reviews with community feedback counters.
package review

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Review is a user's rating and write-up for a product. Helpful and
// NotHelpful are monotonic counters; there is no per-user vote ledger.
type Review struct {
	ID          string
	ProductID   string
	ProductName string
	UserID      string
	UserName    string
	Rating      int
	Title       string
	Comment     string
	Images      []string
	Helpful     int
	NotHelpful  int
	// Verified marks reviews from accounts that bought the product.
	Verified  bool
	CreatedAt time.Time
}

var (
	// ErrNotFound is returned when a review does not exist, or when a
	// delete is attempted by someone other than its author.
	ErrNotFound = errors.New("review not found")
	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrEmptyComment is returned when the review body is blank.
	ErrEmptyComment = errors.New("comment must not be empty")
)

// Repository defines persistence operations for reviews.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	// ListByProduct returns the product's reviews, newest first.
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
	// AddFeedback increments the helpful or not-helpful counter.
	AddFeedback(ctx context.Context, reviewID string, helpful bool) error
	// DeleteOwned removes the review only when authored by userID,
	// otherwise ErrNotFound.
	DeleteOwned(ctx context.Context, reviewID, userID string) error
}

// Service wraps the repository with validation and stamping.
type Service struct {
	reviews Repository
}

// NewService creates a review Service.
func NewService(reviews Repository) *Service {
	return &Service{reviews: reviews}
}

// Create validates and persists a review.
func (s *Service) Create(ctx context.Context, r *Review) (*Review, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if strings.TrimSpace(r.Comment) == "" {
		return nil, ErrEmptyComment
	}
	r.ID = uuid.New().String()
	r.Helpful = 0
	r.NotHelpful = 0
	r.CreatedAt = time.Now()
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, errors.Wrap(err, "create review")
	}
	return r, nil
}

// ListByProduct returns the product's reviews, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}

// AddFeedback records a helpful or not-helpful vote.
func (s *Service) AddFeedback(ctx context.Context, reviewID string, helpful bool) error {
	return s.reviews.AddFeedback(ctx, reviewID, helpful)
}

// Delete removes the caller's own review; anyone else sees ErrNotFound.
func (s *Service) Delete(ctx context.Context, reviewID, userID string) error {
	return s.reviews.DeleteOwned(ctx, reviewID, userID)
}
