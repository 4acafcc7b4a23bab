package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ashrivastava/shopzone/internal/domain/product"
)

const relatedLimit = 8

type productResponse struct {
	ID            string  `json:"id"`
	SellerID      string  `json:"sellerId"`
	SellerName    string  `json:"sellerName"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Category      string  `json:"category"`
	Image         string  `json:"image"`
	Stock         int     `json:"stock"`
	Discount      int     `json:"discount"`
	Trending      bool    `json:"trending"`
	Featured      bool    `json:"featured"`
	BestSeller    bool    `json:"bestSeller"`
	Views         int64   `json:"views"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// View counting is best-effort; a failed bump never fails the read.
	if err := h.products.IncrementViews(r.Context(), id); err != nil {
		zctx.From(r.Context()).Warn("view counter not incremented",
			zap.String("product_id", id), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Search(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) relatedProducts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	related, err := h.products.Related(r.Context(), p.Category, p.ID, relatedLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(related))
}

type createProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Category      string  `json:"category"`
	Image         string  `json:"image"`
	Stock         int     `json:"stock"`
	Discount      int     `json:"discount"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	s, err := h.sellers.GetByID(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.CanManageProducts(); err != nil {
		writeError(w, r, err)
		return
	}

	var req createProductRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Category == "" || req.Price <= 0 {
		writeErrorMsg(w, http.StatusBadRequest, "name, category and a positive price are required")
		return
	}

	p := &product.Product{
		ID:            uuid.New().String(),
		SellerID:      s.ID,
		SellerName:    s.ShopName,
		Name:          req.Name,
		Description:   req.Description,
		Price:         decimal.NewFromFloat(req.Price),
		OriginalPrice: decimal.NewFromFloat(req.OriginalPrice),
		Category:      req.Category,
		Image:         req.Image,
		Stock:         req.Stock,
		Discount:      req.Discount,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *Handler) listSellerProducts(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	products, err := h.products.ListBySeller(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	if err := h.products.DeleteOwned(r.Context(), id.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sellerDashboard(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	stats, err := h.products.DashboardStats(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		TotalProducts int   `json:"totalProducts"`
		TotalViews    int64 `json:"totalViews"`
		TotalSales    int64 `json:"totalSales"`
		LowStock      int   `json:"lowStock"`
	}{stats.TotalProducts, stats.TotalViews, stats.TotalSales, stats.LowStock})
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		SellerID:      p.SellerID,
		SellerName:    p.SellerName,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.InexactFloat64(),
		OriginalPrice: p.OriginalPrice.InexactFloat64(),
		Category:      p.Category,
		Image:         p.Image,
		Stock:         p.Stock,
		Discount:      p.Discount,
		Trending:      p.Trending,
		Featured:      p.Featured,
		BestSeller:    p.BestSeller,
		Views:         p.Views,
	}
}

func toProductResponses(products []product.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out
}
