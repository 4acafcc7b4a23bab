package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashrivastava/shopzone/internal/domain/coupon"
)

const couponColumns = `id, code, discount_type, discount_value, min_order_value, max_discount,
	expires_at, usage_limit, used_count, is_active, description`

const (
	getCouponByCodeSQL = `SELECT ` + couponColumns + `
		FROM coupons WHERE UPPER(code) = UPPER($1) AND is_active`

	markCouponUsedSQL = `UPDATE coupons SET used_count = used_count + 1 WHERE id = $1`

	listActiveCouponsSQL = `SELECT ` + couponColumns + `
		FROM coupons WHERE is_active AND expires_at > now() ORDER BY code`

	listCouponCodesSQL = `SELECT code FROM coupons`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByCode looks up an active coupon by its code (case-insensitive).
// Returns coupon.ErrNotFound when no matching active coupon exists; expiry
// and usage caps are enforced by the rule itself.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, getCouponByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}

	rule, err := pgx.CollectExactlyOneRow(rows, scanCouponRule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}
	return &rule, nil
}

// MarkUsed increments the coupon's used count. Plain counter bump; retries
// increment again. Unknown ids return coupon.ErrNotFound.
func (r *CouponRepository) MarkUsed(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, markCouponUsedSQL, id)
	if err != nil {
		return fmt.Errorf("marking coupon %q used: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}
	return nil
}

// ListActive returns all active, unexpired coupon rules.
func (r *CouponRepository) ListActive(ctx context.Context) ([]coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, listActiveCouponsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing active coupons: %w", err)
	}
	return pgx.CollectRows(rows, scanCouponRule)
}

// Codes returns every coupon code, including inactive ones, for priming the
// negative-lookup filter.
func (r *CouponRepository) Codes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listCouponCodesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing coupon codes: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func scanCouponRule(row pgx.CollectableRow) (coupon.Rule, error) {
	var (
		rule         coupon.Rule
		discountType string
	)
	err := row.Scan(
		&rule.ID, &rule.Code, &discountType, &rule.DiscountValue, &rule.MinOrderValue,
		&rule.MaxDiscount, &rule.ExpiresAt, &rule.UsageLimit, &rule.UsedCount,
		&rule.IsActive, &rule.Description,
	)
	rule.DiscountType = coupon.DiscountType(discountType)
	return rule, err
}
