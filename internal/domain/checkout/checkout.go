// Package checkout orchestrates the checkout flow server-side: quoting a
// priced cart, submitting the order, and handing off to the selected payment
// branch. The order is always persisted before any external handoff, so an
// abandoned gateway widget or WhatsApp window never loses the order.
package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ashrivastava/shopzone/internal/domain/cart"
	"github.com/ashrivastava/shopzone/internal/domain/coupon"
	"github.com/ashrivastava/shopzone/internal/domain/order"
	"github.com/ashrivastava/shopzone/internal/domain/pricing"
)

// State is the checkout flow position reported to the client.
type State string

const (
	// StateSucceeded: the order is placed and no further payment step is
	// required (cash on delivery, message handoff).
	StateSucceeded State = "succeeded"
	// StateSubmitting: the order is placed and the client must complete
	// the gateway widget. On a cancelled or failed widget the client
	// retries with the same reference; the order is not re-submitted.
	StateSubmitting State = "submitting"
)

// ErrEmptyCart is returned when checkout is attempted with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// Quote is a priced cart ready for submission.
type Quote struct {
	Items    []cart.Item
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	CouponID string
}

// GatewayRef is the data the client passes to the payment widget.
type GatewayRef struct {
	Reference string
	// AmountMinor is the total in minor currency units, as gateways expect.
	AmountMinor int64
	KeyID       string
}

// Result is the outcome of a submitted checkout.
type Result struct {
	State State
	Order *order.Order
	// Gateway is set for the online payment branch.
	Gateway *GatewayRef
	// HandoffURL is set for the message-based branch: a prefilled
	// WhatsApp link summarizing the order.
	HandoffURL string
}

// Config holds the external handoff parameters.
type Config struct {
	// WhatsAppNumber is the shop's business number in international
	// format without the plus sign.
	WhatsAppNumber string
	// GatewayKeyID is the public key identifier the payment widget needs.
	GatewayKeyID string
}

// Service orchestrates checkout over the cart store, coupon validation,
// pricing, and the order service.
type Service struct {
	carts   cart.Repository
	coupons coupon.Validator
	pricing pricing.Calculator
	orders  *order.Service
	cfg     Config
}

// NewService creates a checkout Service.
func NewService(
	carts cart.Repository,
	coupons coupon.Validator,
	calc pricing.Calculator,
	orders *order.Service,
	cfg Config,
) *Service {
	return &Service{
		carts:   carts,
		coupons: coupons,
		pricing: calc,
		orders:  orders,
		cfg:     cfg,
	}
}

// QuoteCart loads the user's cart and prices it, applying the coupon code
// when one is given. The coupon is validated only; redemption happens at
// submission.
func (s *Service) QuoteCart(ctx context.Context, userID, couponCode string) (*Quote, error) {
	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]pricing.Item, len(c.Items))
	for i, item := range c.Items {
		items[i] = pricing.Item{Price: item.Price, Quantity: item.Quantity}
	}
	subtotal := pricing.Subtotal(items)

	discount := decimal.Zero
	couponID := ""
	if couponCode != "" {
		applied, err := s.coupons.Validate(ctx, couponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = applied.Discount
		couponID = applied.CouponID
	}

	q := s.pricing.Price(items, discount)
	return &Quote{
		Items:    c.Items,
		Subtotal: q.Subtotal,
		Shipping: q.Shipping,
		Discount: q.Discount,
		Total:    q.Total,
		CouponID: couponID,
	}, nil
}

// Submit quotes the cart, places the order, clears the cart, and returns
// the payment branch data for the selected method.
func (s *Service) Submit(ctx context.Context, userID string, method order.PaymentMethod, couponCode string) (*Result, error) {
	quote, err := s.QuoteCart(ctx, userID, couponCode)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, len(quote.Items))
	for i, item := range quote.Items {
		items[i] = order.Item{Name: item.Name, Price: item.Price, Quantity: item.Quantity}
	}

	o, err := s.orders.PlaceOrder(ctx, order.PlaceOrderRequest{
		UserID:        userID,
		Items:         items,
		Total:         quote.Total,
		PaymentMethod: method,
		CouponCode:    couponCode,
	})
	if err != nil {
		return nil, err
	}

	// The order exists now; an error clearing the cart must not undo the
	// checkout. The stale cart is merely an annoyance on the next visit.
	if err := s.carts.Clear(ctx, userID); err != nil {
		zctx.From(ctx).Error("cart not cleared after checkout",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}

	res := &Result{State: StateSucceeded, Order: o}
	switch method {
	case order.MethodOnline, order.MethodRazorpay:
		res.State = StateSubmitting
		res.Gateway = &GatewayRef{
			Reference:   o.ID,
			AmountMinor: o.Total.Mul(decimal.NewFromInt(100)).IntPart(),
			KeyID:       s.cfg.GatewayKeyID,
		}
	case order.MethodWhatsApp:
		res.HandoffURL = s.whatsAppURL(o)
	}
	return res, nil
}

// whatsAppURL builds a wa.me link with a prefilled order summary.
func (s *Service) whatsAppURL(o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n", o.ID)
	for _, item := range o.Items {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "%s x%d = %s\n", item.Name, item.Quantity, line)
	}
	fmt.Fprintf(&b, "Total: %s", o.Total)

	return "https://wa.me/" + s.cfg.WhatsAppNumber + "?text=" + url.QueryEscape(b.String())
}
