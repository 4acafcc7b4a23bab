package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ashrivastava/shopzone/internal/domain/cart"
)

type cartItemPayload struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type cartResponse struct {
	Items []cartItemPayload `json:"items"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	c, err := h.carts.Load(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) putCart(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req cartResponse
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]cart.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = cart.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     decimal.NewFromFloat(item.Price),
			Quantity:  item.Quantity,
		}
	}

	normalized, err := cart.Normalize(items)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c := &cart.Cart{UserID: id.ID, Items: normalized}
	if err := h.carts.Save(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	if err := h.carts.Clear(r.Context(), id.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toCartResponse(c *cart.Cart) cartResponse {
	items := make([]cartItemPayload, len(c.Items))
	for i, item := range c.Items {
		items[i] = cartItemPayload{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.InexactFloat64(),
			Quantity:  item.Quantity,
		}
	}
	return cartResponse{Items: items}
}
