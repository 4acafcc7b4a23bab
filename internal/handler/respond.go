package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

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

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

// writeError maps domain errors to the HTTP taxonomy. Unrecognized errors are
// logged and reported as a bare 500 so internals never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr   *order.ValidationError
		minErr *coupon.BelowMinimumError
	)
	switch {
	case errors.As(err, &vErr),
		errors.As(err, &minErr),
		errors.Is(err, cart.ErrInvalidItem),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, review.ErrEmptyComment):
		writeErrorMsg(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrWrongPassword):
		writeErrorMsg(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, seller.ErrNotVerified),
		errors.Is(err, seller.ErrDeactivated):
		writeErrorMsg(w, http.StatusForbidden, err.Error())

	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, seller.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, coupon.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, review.ErrNotFound):
		writeErrorMsg(w, http.StatusNotFound, err.Error())

	case errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, seller.ErrEmailTaken),
		errors.Is(err, order.ErrNotCancellable):
		writeErrorMsg(w, http.StatusConflict, err.Error())

	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
	}
}

// decode reads the request body as JSON into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
