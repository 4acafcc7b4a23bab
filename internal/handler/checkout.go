package handler

import (
	"net/http"

	"github.com/ashrivastava/shopzone/internal/domain/order"
)

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	CouponCode    string `json:"couponCode"`
}

type quoteResponse struct {
	Items    []cartItemPayload `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Shipping float64           `json:"shipping"`
	Discount float64           `json:"discount"`
	Total    float64           `json:"total"`
}

func (h *Handler) quoteCheckout(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req checkoutRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.checkout.QuoteCart(r.Context(), id.ID, req.CouponCode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]cartItemPayload, len(q.Items))
	for i, item := range q.Items {
		items[i] = cartItemPayload{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.InexactFloat64(),
			Quantity:  item.Quantity,
		}
	}
	writeJSON(w, http.StatusOK, quoteResponse{
		Items:    items,
		Subtotal: q.Subtotal.InexactFloat64(),
		Shipping: q.Shipping.InexactFloat64(),
		Discount: q.Discount.InexactFloat64(),
		Total:    q.Total.InexactFloat64(),
	})
}

type gatewayPayload struct {
	Reference   string `json:"reference"`
	AmountMinor int64  `json:"amountMinor"`
	KeyID       string `json:"keyId"`
}

type checkoutResponse struct {
	State      string          `json:"state"`
	Order      orderResponse   `json:"order"`
	Gateway    *gatewayPayload `json:"gateway,omitempty"`
	HandoffURL string          `json:"handoffUrl,omitempty"`
}

func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req checkoutRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.checkout.Submit(r.Context(), id.ID, order.PaymentMethod(req.PaymentMethod), req.CouponCode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := checkoutResponse{
		State:      string(res.State),
		Order:      toOrderResponse(res.Order),
		HandoffURL: res.HandoffURL,
	}
	if res.Gateway != nil {
		resp.Gateway = &gatewayPayload{
			Reference:   res.Gateway.Reference,
			AmountMinor: res.Gateway.AmountMinor,
			KeyID:       res.Gateway.KeyID,
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}
