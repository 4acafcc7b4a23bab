package checkout

import (
	"context"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashrivastava/shopzone/internal/domain/cart"
	"github.com/ashrivastava/shopzone/internal/domain/coupon"
	"github.com/ashrivastava/shopzone/internal/domain/order"
	"github.com/ashrivastava/shopzone/internal/domain/pricing"
	"github.com/ashrivastava/shopzone/internal/domain/user"
)

// --- Fakes ---

type fakeCartRepo struct {
	carts    map[string]*cart.Cart
	clearErr error
}

func (f *fakeCartRepo) Load(_ context.Context, userID string) (*cart.Cart, error) {
	if c, ok := f.carts[userID]; ok {
		return c, nil
	}
	return &cart.Cart{UserID: userID}, nil
}

func (f *fakeCartRepo) Save(_ context.Context, c *cart.Cart) error {
	f.carts[c.UserID] = c
	return nil
}

func (f *fakeCartRepo) Clear(_ context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.carts, userID)
	return nil
}

type fakeOrderRepo struct {
	created []*order.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, o *order.Order, _ string) error {
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, _ string, _ int) ([]order.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) GetByUser(_ context.Context, _, _ string) (*order.Order, error) {
	return nil, order.ErrNotFound
}

func (f *fakeOrderRepo) SetStatus(_ context.Context, _ string, _ order.Status) error { return nil }

type fakeUserRepo struct{}

func (fakeUserRepo) Create(_ context.Context, _ *user.User) error { return nil }

func (fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	return &user.User{ID: id, Name: "Asha", Email: "asha@example.com"}, nil
}

func (fakeUserRepo) GetByEmail(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrNotFound
}

type fakeValidator struct {
	applied *coupon.Applied
	err     error
}

func (f *fakeValidator) Validate(_ context.Context, _ string, _ decimal.Decimal) (*coupon.Applied, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.applied, nil
}

// --- Helpers ---

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newCheckout(carts *fakeCartRepo, cv coupon.Validator, orders *fakeOrderRepo) *Service {
	calc := pricing.NewCalculator()
	orderSvc := order.NewService(orders, fakeUserRepo{}, cv, calc, nil)
	return NewService(carts, cv, calc, orderSvc, Config{
		WhatsAppNumber: "919900112233",
		GatewayKeyID:   "rzp_test_key",
	})
}

func seededCart() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]*cart.Cart{
		"u1": {UserID: "u1", Items: []cart.Item{
			{ProductID: "p1", Name: "Steel Bottle", Price: d("100"), Quantity: 1},
			{ProductID: "p2", Name: "Desk Lamp", Price: d("200"), Quantity: 1},
		}},
	}}
}

// --- Tests ---

func TestQuoteCart_Empty(t *testing.T) {
	svc := newCheckout(&fakeCartRepo{carts: map[string]*cart.Cart{}}, &fakeValidator{}, &fakeOrderRepo{})

	_, err := svc.QuoteCart(context.Background(), "u1", "")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestQuoteCart_WithCoupon(t *testing.T) {
	cv := &fakeValidator{applied: &coupon.Applied{CouponID: "c1", Discount: d("30")}}
	svc := newCheckout(seededCart(), cv, &fakeOrderRepo{})

	q, err := svc.QuoteCart(context.Background(), "u1", "SAVE10")
	require.NoError(t, err)

	assert.True(t, d("300").Equal(q.Subtotal))
	assert.True(t, d("50").Equal(q.Shipping), "subtotal under threshold pays flat fee")
	assert.True(t, d("30").Equal(q.Discount))
	assert.True(t, d("320").Equal(q.Total))
	assert.Equal(t, "c1", q.CouponID)
}

func TestSubmit_CashOnDelivery(t *testing.T) {
	carts := seededCart()
	orders := &fakeOrderRepo{}
	svc := newCheckout(carts, &fakeValidator{}, orders)

	res, err := svc.Submit(context.Background(), "u1", order.MethodCOD, "")
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, res.State)
	assert.Nil(t, res.Gateway)
	assert.Empty(t, res.HandoffURL)
	require.Len(t, orders.created, 1)
	assert.True(t, d("350").Equal(res.Order.Total))

	// Cart is cleared only after the order is persisted.
	c, err := carts.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestSubmit_CartClearFailureDoesNotFailCheckout(t *testing.T) {
	carts := seededCart()
	carts.clearErr = errors.New("db down")
	orders := &fakeOrderRepo{}
	svc := newCheckout(carts, &fakeValidator{}, orders)

	res, err := svc.Submit(context.Background(), "u1", order.MethodCOD, "")
	require.NoError(t, err, "the order is committed; a stale cart must not fail the checkout")

	require.Len(t, orders.created, 1)
	assert.Equal(t, StateSucceeded, res.State)
	assert.True(t, d("350").Equal(res.Order.Total))
}

func TestSubmit_GatewayBranch(t *testing.T) {
	cv := &fakeValidator{applied: &coupon.Applied{CouponID: "c1", Discount: d("30")}}
	svc := newCheckout(seededCart(), cv, &fakeOrderRepo{})

	res, err := svc.Submit(context.Background(), "u1", order.MethodRazorpay, "SAVE10")
	require.NoError(t, err)

	assert.Equal(t, StateSubmitting, res.State)
	require.NotNil(t, res.Gateway)
	assert.Equal(t, res.Order.ID, res.Gateway.Reference)
	assert.Equal(t, int64(32000), res.Gateway.AmountMinor)
	assert.Equal(t, "rzp_test_key", res.Gateway.KeyID)
}

func TestSubmit_WhatsAppHandoff(t *testing.T) {
	svc := newCheckout(seededCart(), &fakeValidator{}, &fakeOrderRepo{})

	res, err := svc.Submit(context.Background(), "u1", order.MethodWhatsApp, "")
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, res.State, "handoff is fire-and-forget; the order is already placed")
	assert.True(t, strings.HasPrefix(res.HandoffURL, "https://wa.me/919900112233?text="))
	assert.Contains(t, res.HandoffURL, "Total%3A+350")
}
