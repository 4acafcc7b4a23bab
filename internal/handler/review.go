package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashrivastava/shopzone/internal/domain/review"
)

type createReviewRequest struct {
	ProductID string   `json:"productId"`
	Rating    int      `json:"rating"`
	Title     string   `json:"title"`
	Comment   string   `json:"comment"`
	Images    []string `json:"images"`
}

type reviewResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Comment    string    `json:"comment"`
	Images     []string  `json:"images"`
	Helpful    int       `json:"helpful"`
	NotHelpful int       `json:"notHelpful"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req createReviewRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.users.GetByID(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rv, err := h.reviews.Create(r.Context(), &review.Review{
		ProductID:   p.ID,
		ProductName: p.Name,
		UserID:      u.ID,
		UserName:    u.Name,
		Rating:      req.Rating,
		Title:       req.Title,
		Comment:     req.Comment,
		Images:      req.Images,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReviewResponse(rv))
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]reviewResponse, len(reviews))
	for i := range reviews {
		out[i] = toReviewResponse(&reviews[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type reviewFeedbackRequest struct {
	Helpful bool `json:"helpful"`
}

func (h *Handler) reviewFeedback(w http.ResponseWriter, r *http.Request) {
	var req reviewFeedbackRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.reviews.AddFeedback(r.Context(), chi.URLParam(r, "id"), req.Helpful); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	if err := h.reviews.Delete(r.Context(), chi.URLParam(r, "id"), id.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toReviewResponse(rv *review.Review) reviewResponse {
	images := rv.Images
	if images == nil {
		images = []string{}
	}
	return reviewResponse{
		ID:         rv.ID,
		ProductID:  rv.ProductID,
		UserID:     rv.UserID,
		UserName:   rv.UserName,
		Rating:     rv.Rating,
		Title:      rv.Title,
		Comment:    rv.Comment,
		Images:     images,
		Helpful:    rv.Helpful,
		NotHelpful: rv.NotHelpful,
		Verified:   rv.Verified,
		CreatedAt:  rv.CreatedAt,
	}
}
