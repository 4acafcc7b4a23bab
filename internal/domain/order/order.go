// Package order implements checkout's core: order placement, retrieval, and
// cancellation.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the fulfilment state of an order. Transitions are
// one-directional (pending → confirmed → shipped → delivered) except for an
// explicit cancellation, which is only allowed before shipping.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Cancellable reports whether an order in this status may still be cancelled.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// PaymentStatus tracks the payment side independently of fulfilment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentMethod enumerates the accepted checkout branches. The list carries
// the legacy spellings still sent by older clients.
type PaymentMethod string

const (
	MethodCOD            PaymentMethod = "COD"
	MethodOnline         PaymentMethod = "Online"
	MethodWhatsApp       PaymentMethod = "WhatsApp"
	MethodRazorpay       PaymentMethod = "Razorpay"
	MethodCashOnDelivery PaymentMethod = "Cash on Delivery"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCOD, MethodOnline, MethodWhatsApp, MethodRazorpay, MethodCashOnDelivery:
		return true
	}
	return false
}

// Item is an immutable snapshot of a cart line at checkout time. It carries
// the display name and unit price rather than a live product reference, so
// later catalog edits never rewrite order history.
type Item struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Order is a persisted checkout snapshot owned by a user. Orders are never
// deleted.
type Order struct {
	ID            string
	UserID        string
	Items         []Item
	Total         decimal.Decimal
	Discount      decimal.Decimal
	CouponID      string
	PaymentMethod PaymentMethod
	Status        Status
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}

// ErrNotFound is returned when an order does not exist or is not owned by
// the caller. Ownership failures are indistinguishable from absence so order
// identifiers cannot be probed.
var ErrNotFound = errors.New("order not found")

// ErrNotCancellable is returned when cancellation is requested for an order
// that has already shipped, been delivered, or been cancelled.
var ErrNotCancellable = errors.New("order can no longer be cancelled")

// ValidationError reports which request field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists a new order. When couponID is non-empty the coupon's
	// used count is incremented in the same transaction, guarded by the
	// coupon's usage limit; the whole write fails if the coupon is
	// exhausted, so discount accounting is exactly-once on this path.
	Create(ctx context.Context, o *Order, couponID string) error
	// ListByUser returns the user's orders, most recent first, capped at
	// limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]Order, error)
	// GetByUser returns the order only when owned by the user, otherwise
	// ErrNotFound.
	GetByUser(ctx context.Context, userID, orderID string) (*Order, error)
	// SetStatus updates the fulfilment status.
	SetStatus(ctx context.Context, orderID string, status Status) error
}

// Notifier delivers order confirmations. Implementations must be safe for
// concurrent use; failures are the caller's to swallow.
type Notifier interface {
	OrderConfirmation(ctx context.Context, email, name string, o *Order) error
}
