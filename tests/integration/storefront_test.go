//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := do(t, http.MethodGet, "/api/products", "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 5 {
		t.Fatalf("expected 5 products, got %d", len(products))
	}
	for _, p := range products {
		if p.Price <= 0 {
			t.Errorf("product %s has non-positive price %v", p.ID, p.Price)
		}
	}
}

func TestGetProduct_CountsView(t *testing.T) {
	resp := do(t, http.MethodGet, "/api/products/seed-yoga-mat", "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	first := decodeJSON[productResponse](t, resp)
	if first.Name != "Yoga Mat" {
		t.Errorf("name: got %q", first.Name)
	}

	resp2 := do(t, http.MethodGet, "/api/products/seed-yoga-mat", "", nil)
	defer resp2.Body.Close()
	second := decodeJSON[productResponse](t, resp2)

	if second.Views <= first.Views {
		t.Errorf("views did not increase: %d -> %d", first.Views, second.Views)
	}
}

func TestGetProduct_Unknown(t *testing.T) {
	resp := do(t, http.MethodGet, "/api/products/no-such-product", "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSearchProducts(t *testing.T) {
	resp := do(t, http.MethodGet, "/api/products/search/laptop", "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	products := decodeJSON[[]productResponse](t, resp)
	if len(products) == 0 {
		t.Fatal("expected at least one match for 'laptop'")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	registerUser(t, "dupe@test.example")

	resp := do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Second",
		"email":    "dupe@test.example",
		"password": "secret123",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	registerUser(t, "login@test.example")

	resp := do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "login@test.example",
		"password": "not-the-password",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCart_RequiresAuth(t *testing.T) {
	resp := do(t, http.MethodGet, "/api/cart", "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCart_RoundTrip(t *testing.T) {
	token := registerUser(t, "cart@test.example")

	put := do(t, http.MethodPut, "/api/cart", token, cartPayload{
		Items: []cartItem{
			{ProductID: "seed-steel-bottle", Name: "Steel Water Bottle", Price: 449, Quantity: 2},
		},
	})
	put.Body.Close()
	if put.StatusCode != http.StatusOK {
		t.Fatalf("put cart: expected 200, got %d", put.StatusCode)
	}

	get := do(t, http.MethodGet, "/api/cart", token, nil)
	defer get.Body.Close()
	c := decodeJSON[cartPayload](t, get)
	if len(c.Items) != 1 || c.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart: %+v", c)
	}

	clear := do(t, http.MethodPost, "/api/cart/clear", token, nil)
	clear.Body.Close()
	if clear.StatusCode != http.StatusNoContent {
		t.Fatalf("clear cart: expected 204, got %d", clear.StatusCode)
	}

	get2 := do(t, http.MethodGet, "/api/cart", token, nil)
	defer get2.Body.Close()
	if c := decodeJSON[cartPayload](t, get2); len(c.Items) != 0 {
		t.Fatalf("cart not cleared: %+v", c)
	}
}

func TestValidateCoupon(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/coupons/validate", "", map[string]any{
		"code":      "SAVE10",
		"cartTotal": 1000,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	v := decodeJSON[couponValidation](t, resp)
	if !v.Valid || v.Discount != 100 {
		t.Errorf("SAVE10 on 1000: got %+v, want discount 100", v)
	}
	if v.CouponID == "" {
		t.Error("validation response is missing the coupon id")
	}
}

func TestValidateCoupon_Unknown(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/coupons/validate", "", map[string]any{
		"code":      "NOSUCHCODE",
		"cartTotal": 1000,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestActiveCoupons(t *testing.T) {
	resp := do(t, http.MethodGet, "/api/coupons/active", "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	coupons := decodeJSON[[]map[string]any](t, resp)
	if len(coupons) < 3 {
		t.Fatalf("expected at least 3 standing coupons, got %d", len(coupons))
	}
}

func TestCheckout_QuoteAndSubmit(t *testing.T) {
	token := registerUser(t, "checkout@test.example")

	put := do(t, http.MethodPut, "/api/cart", token, cartPayload{
		Items: []cartItem{
			{ProductID: "seed-yoga-mat", Name: "Yoga Mat", Price: 300, Quantity: 1},
		},
	})
	put.Body.Close()
	if put.StatusCode != http.StatusOK {
		t.Fatalf("put cart: expected 200, got %d", put.StatusCode)
	}

	// 300 subtotal, 50 shipping, 10% off 300 = 30 discount.
	quote := do(t, http.MethodPost, "/api/checkout/quote", token, map[string]any{
		"couponCode": "SAVE10",
	})
	defer quote.Body.Close()
	if quote.StatusCode != http.StatusOK {
		t.Fatalf("quote: expected 200, got %d", quote.StatusCode)
	}
	q := decodeJSON[quotePayload](t, quote)
	if q.Subtotal != 300 || q.Shipping != 50 || q.Discount != 30 || q.Total != 320 {
		t.Fatalf("unexpected quote: %+v", q)
	}

	submit := do(t, http.MethodPost, "/api/checkout", token, map[string]any{
		"paymentMethod": "COD",
	})
	defer submit.Body.Close()
	if submit.StatusCode != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d", submit.StatusCode)
	}
	res := decodeJSON[checkoutResult](t, submit)
	if res.Order.Total != 350 {
		t.Errorf("order total: got %v, want 350", res.Order.Total)
	}
	if res.Order.PaymentMethod != "COD" {
		t.Errorf("payment method: got %q", res.Order.PaymentMethod)
	}

	// Checkout consumes the cart.
	get := do(t, http.MethodGet, "/api/cart", token, nil)
	defer get.Body.Close()
	if c := decodeJSON[cartPayload](t, get); len(c.Items) != 0 {
		t.Fatalf("cart not cleared after checkout: %+v", c)
	}

	// The order is visible in history.
	hist := do(t, http.MethodGet, "/api/orders/my", token, nil)
	defer hist.Body.Close()
	orders := decodeJSON[[]orderPayload](t, hist)
	if len(orders) != 1 || orders[0].ID != res.Order.ID {
		t.Fatalf("unexpected order history: %+v", orders)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	token := registerUser(t, "emptycart@test.example")

	resp := do(t, http.MethodPost, "/api/checkout", token, map[string]any{
		"paymentMethod": "COD",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCancelOrder(t *testing.T) {
	token := registerUser(t, "cancel@test.example")

	put := do(t, http.MethodPut, "/api/cart", token, cartPayload{
		Items: []cartItem{{ProductID: "seed-desk-lamp", Name: "LED Desk Lamp", Price: 899, Quantity: 1}},
	})
	put.Body.Close()

	submit := do(t, http.MethodPost, "/api/checkout", token, map[string]any{"paymentMethod": "COD"})
	res := decodeJSON[checkoutResult](t, submit)
	submit.Body.Close()

	cancel := do(t, http.MethodPut, "/api/orders/"+res.Order.ID+"/cancel", token, nil)
	defer cancel.Body.Close()
	if cancel.StatusCode != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d", cancel.StatusCode)
	}
	if o := decodeJSON[orderPayload](t, cancel); o.Status != "cancelled" {
		t.Errorf("status: got %q, want cancelled", o.Status)
	}

	// A second cancel conflicts.
	again := do(t, http.MethodPut, "/api/orders/"+res.Order.ID+"/cancel", token, nil)
	defer again.Body.Close()
	if again.StatusCode != http.StatusConflict {
		t.Fatalf("second cancel: expected 409, got %d", again.StatusCode)
	}
}

func TestSellerRegistration_GatedUntilVerified(t *testing.T) {
	resp := do(t, http.MethodPost, "/api/sellers/register", "", map[string]any{
		"name":     "New Seller",
		"email":    "newseller@test.example",
		"password": "secret123",
		"shopName": "New Shop",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register seller: expected 201, got %d", resp.StatusCode)
	}

	reg := decodeJSON[struct {
		Token string `json:"token"`
	}](t, resp)

	create := do(t, http.MethodPost, "/api/seller/products", reg.Token, map[string]any{
		"name":     "Thing",
		"category": "misc",
		"price":    100,
	})
	defer create.Body.Close()
	if create.StatusCode != http.StatusForbidden {
		t.Fatalf("unverified seller create: expected 403, got %d", create.StatusCode)
	}
}

func TestRateLimitHeaders(t *testing.T) {
	resp := do(t, http.MethodGet, "/api/products", "", nil)
	defer resp.Body.Close()

	if resp.Header.Get("X-RateLimit-Limit") == "" {
		t.Error("missing X-RateLimit-Limit header")
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}
