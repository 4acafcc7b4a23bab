package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ashrivastava/shopzone/internal/domain/coupon"
)

type validateCouponRequest struct {
	Code      string  `json:"code"`
	CartTotal float64 `json:"cartTotal"`
}

type validateCouponResponse struct {
	Valid       bool    `json:"valid"`
	CouponID    string  `json:"couponId"`
	Discount    float64 `json:"discount"`
	Description string  `json:"description"`
}

func (h *Handler) validateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	applied, err := h.coupVal.Validate(r.Context(), req.Code, decimal.NewFromFloat(req.CartTotal))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validateCouponResponse{
		Valid:       true,
		CouponID:    applied.CouponID,
		Discount:    applied.Discount.InexactFloat64(),
		Description: applied.Description,
	})
}

type useCouponRequest struct {
	CouponID string `json:"couponId"`
}

// useCoupon bumps a coupon's usage counter outside of checkout, keyed by the
// id a prior validation returned. The counter bump is not idempotent;
// checkout redeems transactionally and does not call this endpoint.
func (h *Handler) useCoupon(w http.ResponseWriter, r *http.Request) {
	var req useCouponRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.coupons.MarkUsed(r.Context(), req.CouponID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Used bool `json:"used"`
	}{true})
}

type activeCouponResponse struct {
	Code          string   `json:"code"`
	DiscountType  string   `json:"discountType"`
	DiscountValue float64  `json:"discountValue"`
	MinOrderValue float64  `json:"minOrderValue"`
	MaxDiscount   *float64 `json:"maxDiscount,omitempty"`
	Description   string   `json:"description"`
}

func (h *Handler) listActiveCoupons(w http.ResponseWriter, r *http.Request) {
	rules, err := h.coupons.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]activeCouponResponse, len(rules))
	for i, rule := range rules {
		out[i] = toActiveCouponResponse(rule)
	}
	writeJSON(w, http.StatusOK, out)
}

func toActiveCouponResponse(rule coupon.Rule) activeCouponResponse {
	resp := activeCouponResponse{
		Code:          rule.Code,
		DiscountType:  string(rule.DiscountType),
		DiscountValue: rule.DiscountValue.InexactFloat64(),
		MinOrderValue: rule.MinOrderValue.InexactFloat64(),
		Description:   rule.Description,
	}
	if rule.MaxDiscount != nil {
		v := rule.MaxDiscount.InexactFloat64()
		resp.MaxDiscount = &v
	}
	return resp
}
