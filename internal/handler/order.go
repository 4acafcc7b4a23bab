package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ashrivastava/shopzone/internal/domain/order"
)

type orderItemPayload struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type placeOrderRequest struct {
	Items         []orderItemPayload `json:"items"`
	Total         float64            `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	CouponCode    string             `json:"couponCode"`
}

type orderResponse struct {
	ID            string             `json:"id"`
	Items         []orderItemPayload `json:"items"`
	Total         float64            `json:"total"`
	Discount      float64            `json:"discount"`
	PaymentMethod string             `json:"paymentMethod"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"paymentStatus"`
	CreatedAt     time.Time          `json:"createdAt"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req placeOrderRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.Item{
			Name:     item.Name,
			Price:    decimal.NewFromFloat(item.Price),
			Quantity: item.Quantity,
		}
	}

	o, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID:        id.ID,
		Items:         items,
		Total:         decimal.NewFromFloat(req.Total),
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, placeOrderResponse{
		OrderID: o.ID,
		Order:   toOrderResponse(o),
	})
}

type placeOrderResponse struct {
	OrderID string        `json:"orderId"`
	Order   orderResponse `json:"order"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	orders, err := h.orders.ListOrders(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	o, err := h.orders.GetOrder(r.Context(), id.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	o, err := h.orders.CancelOrder(r.Context(), id.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemPayload, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemPayload{
			Name:     item.Name,
			Price:    item.Price.InexactFloat64(),
			Quantity: item.Quantity,
		}
	}
	return orderResponse{
		ID:            o.ID,
		Items:         items,
		Total:         o.Total.InexactFloat64(),
		Discount:      o.Discount.InexactFloat64(),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
	}
}
