// Package coupon holds the discount rule catalog and its validation logic.
package coupon

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage of the cart total,
	// optionally clamped by the rule's MaxDiscount.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies a fixed monetary discount.
	DiscountFixed DiscountType = "fixed"
)

// ErrNotFound is returned when no redeemable coupon matches a code: the code
// is unknown, inactive, expired, or past its usage limit. All of those cases
// are reported identically so callers cannot probe the catalog.
var ErrNotFound = errors.New("invalid or expired coupon code")

// BelowMinimumError indicates the cart total does not meet the coupon's
// minimum order value. It carries the required minimum for the client message.
type BelowMinimumError struct {
	MinOrderValue decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("minimum order value of %s required", e.MinOrderValue)
}

// Rule defines a coupon's discount behaviour and eligibility constraints.
type Rule struct {
	ID            string
	Code          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	MinOrderValue decimal.Decimal
	// MaxDiscount caps percentage discounts when non-nil.
	MaxDiscount *decimal.Decimal
	ExpiresAt   time.Time
	// UsageLimit is the maximum number of redemptions; nil means unlimited.
	UsageLimit  *int
	UsedCount   int
	IsActive    bool
	Description string
}

// Redeemable reports whether the rule can still be redeemed at the given
// time for the given cart total. It mirrors the invariant from the catalog:
// active, not expired, under the usage cap, and cart total at or above the
// minimum order value.
func (r *Rule) Redeemable(now time.Time, cartTotal decimal.Decimal) error {
	if !r.IsActive || now.After(r.ExpiresAt) {
		return ErrNotFound
	}
	if r.UsageLimit != nil && r.UsedCount >= *r.UsageLimit {
		return ErrNotFound
	}
	if cartTotal.LessThan(r.MinOrderValue) {
		return &BelowMinimumError{MinOrderValue: r.MinOrderValue}
	}
	return nil
}

// Repository provides lookup and mutation of coupon rules.
type Repository interface {
	// FindByCode returns the active, unexpired rule for the code
	// (case-insensitive) or ErrNotFound.
	FindByCode(ctx context.Context, code string) (*Rule, error)
	// MarkUsed increments the rule's used count by one, or returns
	// ErrNotFound for an unknown id. It is NOT idempotent: a retried
	// call increments again. The transactional redemption done during
	// order placement does not go through here.
	MarkUsed(ctx context.Context, id string) error
	// ListActive returns all active, unexpired rules.
	ListActive(ctx context.Context) ([]Rule, error)
	// Codes returns every known coupon code, used to prime the
	// negative-lookup filter.
	Codes(ctx context.Context) ([]string, error)
}
