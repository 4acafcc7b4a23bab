package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashrivastava/shopzone/internal/domain/coupon"
	"github.com/ashrivastava/shopzone/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, user_id, items, total, discount, coupon_id, payment_method, status, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)`

	// Guarded increment: no row is updated once the limit is reached, which
	// aborts the enclosing transaction's order insert.
	redeemCouponSQL = `UPDATE coupons SET used_count = used_count + 1
		WHERE id = $1 AND (usage_limit IS NULL OR used_count < usage_limit)`

	orderColumns = `id, user_id, items, total, discount, COALESCE(coupon_id, ''),
		payment_method, status, payment_status, created_at`

	listOrdersByUserSQL = `SELECT ` + orderColumns + `
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	getOrderByUserSQL = `SELECT ` + orderColumns + `
		FROM orders WHERE id = $1 AND user_id = $2`

	setOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. When couponID is non-empty the coupon's usage
// counter is incremented in the same transaction; an exhausted coupon rolls
// the whole write back and surfaces as coupon.ErrNotFound.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order, couponID string) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if couponID != "" {
		tag, err := tx.Exec(ctx, redeemCouponSQL, couponID)
		if err != nil {
			return fmt.Errorf("redeeming coupon %q: %w", couponID, err)
		}
		if tag.RowsAffected() == 0 {
			return coupon.ErrNotFound
		}
	}

	_, err = tx.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, itemsJSON, o.Total, o.Discount, couponID,
		o.PaymentMethod, o.Status, o.PaymentStatus, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// ListByUser returns the user's orders, most recent first, capped at limit.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// GetByUser returns the order only when owned by the user.
func (r *OrderRepository) GetByUser(ctx context.Context, userID, orderID string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByUserSQL, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", orderID, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", orderID, err)
	}
	return &o, nil
}

// SetStatus updates the order's fulfilment status.
func (r *OrderRepository) SetStatus(ctx context.Context, orderID string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, setOrderStatusSQL, orderID, status)
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
		method    string
		status    string
		payStatus string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &itemsJSON, &o.Total, &o.Discount, &o.CouponID,
		&method, &status, &payStatus, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	o.PaymentMethod = order.PaymentMethod(method)
	o.Status = order.Status(status)
	o.PaymentStatus = order.PaymentStatus(payStatus)
	return o, nil
}
