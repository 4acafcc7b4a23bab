// Package handler exposes the storefront API over HTTP. Handlers decode and
// validate the wire shape, delegate to the domain packages, and map domain
// errors to status codes; no business rules live here.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashrivastava/shopzone/internal/domain/auth"
	"github.com/ashrivastava/shopzone/internal/domain/cart"
	"github.com/ashrivastava/shopzone/internal/domain/chat"
	"github.com/ashrivastava/shopzone/internal/domain/checkout"
	"github.com/ashrivastava/shopzone/internal/domain/coupon"
	"github.com/ashrivastava/shopzone/internal/domain/order"
	"github.com/ashrivastava/shopzone/internal/domain/product"
	"github.com/ashrivastava/shopzone/internal/domain/review"
	"github.com/ashrivastava/shopzone/internal/domain/seller"
	"github.com/ashrivastava/shopzone/internal/domain/user"
)

// WelcomeSender greets newly registered accounts. Delivery is best-effort.
type WelcomeSender interface {
	Welcome(ctx context.Context, email, name string) error
}

// Handler wires the HTTP surface to the domain services.
type Handler struct {
	tokens   *auth.Tokens
	users    user.Repository
	sellers  seller.Repository
	products product.Repository
	carts    cart.Repository
	coupons  coupon.Repository
	coupVal  coupon.Validator
	orders   *order.Service
	checkout *checkout.Service
	reviews  *review.Service
	chats    *chat.Service
	welcome  WelcomeSender
}

// NewHandler constructs a Handler with the required domain dependencies.
// welcome may be nil when no mailer is configured.
func NewHandler(
	tokens *auth.Tokens,
	users user.Repository,
	sellers seller.Repository,
	products product.Repository,
	carts cart.Repository,
	coupons coupon.Repository,
	coupVal coupon.Validator,
	orders *order.Service,
	checkoutSvc *checkout.Service,
	reviews *review.Service,
	chats *chat.Service,
	welcome WelcomeSender,
) *Handler {
	return &Handler{
		tokens:   tokens,
		users:    users,
		sellers:  sellers,
		products: products,
		carts:    carts,
		coupons:  coupons,
		coupVal:  coupVal,
		orders:   orders,
		checkout: checkoutSvc,
		reviews:  reviews,
		chats:    chats,
		welcome:  welcome,
	}
}

// Routes builds the /api router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.registerUser)
		r.Post("/login", h.loginUser)
	})

	r.Route("/sellers", func(r chi.Router) {
		r.Post("/register", h.registerSeller)
		r.Post("/login", h.loginSeller)
		r.With(h.authenticate, requireRole(auth.RoleSeller)).Get("/profile", h.sellerProfile)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
		r.Get("/search/{query}", h.searchProducts)
		r.Get("/{id}/recommendations", h.relatedProducts)
	})

	r.Route("/seller", func(r chi.Router) {
		r.Use(h.authenticate, requireRole(auth.RoleSeller))
		r.Post("/products", h.createProduct)
		r.Get("/products", h.listSellerProducts)
		r.Delete("/products/{id}", h.deleteProduct)
		r.Get("/dashboard", h.sellerDashboard)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(h.authenticate, requireRole(auth.RoleUser))
		r.Get("/", h.getCart)
		r.Put("/", h.putCart)
		r.Post("/clear", h.clearCart)
	})

	r.Route("/coupons", func(r chi.Router) {
		r.Post("/validate", h.validateCoupon)
		r.Post("/use", h.useCoupon)
		r.Get("/active", h.listActiveCoupons)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(h.authenticate, requireRole(auth.RoleUser))
		r.Post("/", h.placeOrder)
		r.Get("/my", h.listOrders)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}/cancel", h.cancelOrder)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Use(h.authenticate, requireRole(auth.RoleUser))
		r.Post("/quote", h.quoteCheckout)
		r.Post("/", h.submitCheckout)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/{productId}", h.listReviews)
		r.Put("/{id}/helpful", h.reviewFeedback)
		r.Group(func(r chi.Router) {
			r.Use(h.authenticate, requireRole(auth.RoleUser))
			r.Post("/", h.createReview)
			r.Delete("/{id}", h.deleteReview)
		})
	})

	r.Route("/chat", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Post("/message", h.sendMessage)
		r.Get("/messages/{productId}/{peerId}", h.conversation)
		r.Get("/unread", h.unreadCounts)
		r.Put("/read", h.markRead)
	})

	return r
}
