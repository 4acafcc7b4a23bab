package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ashrivastava/shopzone/internal/domain/coupon"
	"github.com/ashrivastava/shopzone/internal/domain/pricing"
	"github.com/ashrivastava/shopzone/internal/domain/user"
)

// listLimit caps ListOrders results. The legacy API had no pagination; the
// cap keeps a pathological account from dragging the whole table through
// one response.
const listLimit = 100

// notifyTimeout bounds the fire-and-forget confirmation send.
const notifyTimeout = 15 * time.Second

// PlaceOrderRequest holds the input for placing an order. Total is the
// client-computed amount and is recomputed server-side; a mismatch is a
// validation failure, not silently corrected.
type PlaceOrderRequest struct {
	UserID        string
	Items         []Item
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	CouponCode    string
}

// Service encapsulates order business logic.
type Service struct {
	orders   Repository
	users    user.Repository
	coupons  coupon.Validator
	pricing  pricing.Calculator
	notifier Notifier
}

// NewService creates an order Service with the required dependencies.
func NewService(
	orders Repository,
	users user.Repository,
	coupons coupon.Validator,
	calc pricing.Calculator,
	notifier Notifier,
) *Service {
	return &Service{
		orders:   orders,
		users:    users,
		coupons:  coupons,
		pricing:  calc,
		notifier: notifier,
	}
}

// PlaceOrder validates the request, re-prices the cart, redeems the coupon
// and persists the order in one transaction, then fires the confirmation
// notification without awaiting it.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, &ValidationError{Field: "cart", Message: "cart must not be empty"}
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, &ValidationError{Field: "cart", Message: "quantity must be at least 1"}
		}
		if item.Price.IsNegative() {
			return nil, &ValidationError{Field: "cart", Message: "price must not be negative"}
		}
	}
	if !req.Total.IsPositive() {
		return nil, &ValidationError{Field: "total", Message: "total must be greater than 0"}
	}
	if !req.PaymentMethod.Valid() {
		return nil, &ValidationError{Field: "paymentMethod", Message: "unknown payment method"}
	}

	u, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrap(err, "resolve user")
	}

	// Re-price server-side. Coupons apply to the item subtotal; shipping is
	// added afterwards.
	pricingItems := make([]pricing.Item, len(req.Items))
	for i, item := range req.Items {
		pricingItems[i] = pricing.Item{Price: item.Price, Quantity: item.Quantity}
	}
	subtotal := pricing.Subtotal(pricingItems)

	discount := decimal.Zero
	couponID := ""
	if req.CouponCode != "" {
		applied, err := s.coupons.Validate(ctx, req.CouponCode, subtotal)
		if err != nil {
			return nil, errors.Wrap(err, "validate coupon")
		}
		discount = applied.Discount
		couponID = applied.CouponID
	}

	quote := s.pricing.Price(pricingItems, discount)
	if !quote.Total.Equal(req.Total) {
		return nil, &ValidationError{Field: "total", Message: "total does not match priced cart"}
	}

	o := &Order{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Items:         req.Items,
		Total:         quote.Total,
		Discount:      discount,
		CouponID:      couponID,
		PaymentMethod: req.PaymentMethod,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		CreatedAt:     time.Now(),
	}
	if err := s.orders.Create(ctx, o, couponID); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	s.notifyAsync(ctx, u, o)
	return o, nil
}

// notifyAsync sends the confirmation email without blocking the request and
// without propagating failure: delivery is at-most-once by policy. The
// goroutine detaches from the request's cancellation but keeps its trace and
// logging context.
func (s *Service) notifyAsync(ctx context.Context, u *user.User, o *Order) {
	if s.notifier == nil {
		return
	}
	lg := zctx.From(ctx)
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)

	go func() {
		defer cancel()
		if err := s.notifier.OrderConfirmation(sendCtx, u.Email, u.Name, o); err != nil {
			lg.Error("order confirmation not delivered",
				zap.String("order_id", o.ID),
				zap.Error(err),
			)
		}
	}()
}

// ListOrders returns the user's orders, most recent first.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID, listLimit)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// GetOrder returns the order only when owned by userID.
func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (*Order, error) {
	return s.orders.GetByUser(ctx, userID, orderID)
}

// CancelOrder cancels an order owned by userID. Orders that have shipped or
// been delivered stay as they are.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID string) (*Order, error) {
	o, err := s.orders.GetByUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.Cancellable() {
		return nil, ErrNotCancellable
	}
	if err := s.orders.SetStatus(ctx, orderID, StatusCancelled); err != nil {
		return nil, errors.Wrap(err, "cancel order")
	}
	o.Status = StatusCancelled
	return o, nil
}
