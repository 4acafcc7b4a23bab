package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ashrivastava/shopzone/internal/domain/auth"
	"github.com/ashrivastava/shopzone/internal/domain/seller"
	"github.com/ashrivastava/shopzone/internal/domain/user"
)

const welcomeTimeout = 15 * time.Second

type registerUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		writeErrorMsg(w, http.StatusBadRequest, "name, email and a password of at least 6 characters are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		writeError(w, r, err)
		return
	}

	h.sendWelcome(r.Context(), u.Email, u.Name)

	token, err := h.tokens.Issue(auth.Identity{ID: u.ID, Role: auth.RoleUser}, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, ID: u.ID, Name: u.Name, Email: u.Email})
}

func (h *Handler) loginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		// An unknown email reads the same as a wrong password.
		writeError(w, r, auth.ErrWrongPassword)
		return
	}
	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(auth.Identity{ID: u.ID, Role: auth.RoleUser}, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, ID: u.ID, Name: u.Name, Email: u.Email})
}

type registerSellerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	ShopName  string `json:"shopName"`
	Phone     string `json:"phone"`
	GSTNumber string `json:"gstNumber"`
}

type sellerResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ShopName   string `json:"shopName"`
	Phone      string `json:"phone"`
	GSTNumber  string `json:"gstNumber"`
	IsVerified bool   `json:"isVerified"`
	IsActive   bool   `json:"isActive"`
}

func (h *Handler) registerSeller(w http.ResponseWriter, r *http.Request) {
	var req registerSellerRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.ShopName == "" || len(req.Password) < 6 {
		writeErrorMsg(w, http.StatusBadRequest, "name, email, shop name and a password of at least 6 characters are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// New sellers await operator verification before they can list products.
	s := &seller.Seller{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		ShopName:     req.ShopName,
		Phone:        req.Phone,
		GSTNumber:    req.GSTNumber,
		IsVerified:   false,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := h.sellers.Create(r.Context(), s); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(auth.Identity{ID: s.ID, Role: auth.RoleSeller}, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Token  string         `json:"token"`
		Seller sellerResponse `json:"seller"`
	}{Token: token, Seller: toSellerResponse(s)})
}

func (h *Handler) loginSeller(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.sellers.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, auth.ErrWrongPassword)
		return
	}
	if err := auth.CheckPassword(s.PasswordHash, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	if !s.IsActive {
		writeError(w, r, seller.ErrDeactivated)
		return
	}

	token, err := h.tokens.Issue(auth.Identity{ID: s.ID, Role: auth.RoleSeller}, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token  string         `json:"token"`
		Seller sellerResponse `json:"seller"`
	}{Token: token, Seller: toSellerResponse(s)})
}

func (h *Handler) sellerProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	s, err := h.sellers.GetByID(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSellerResponse(s))
}

// sendWelcome fires the greeting mail without blocking registration.
func (h *Handler) sendWelcome(ctx context.Context, email, name string) {
	if h.welcome == nil {
		return
	}
	lg := zctx.From(ctx)
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeTimeout)

	go func() {
		defer cancel()
		if err := h.welcome.Welcome(sendCtx, email, name); err != nil {
			lg.Error("welcome mail not delivered", zap.String("email", email), zap.Error(err))
		}
	}()
}

func toSellerResponse(s *seller.Seller) sellerResponse {
	return sellerResponse{
		ID:         s.ID,
		Name:       s.Name,
		Email:      s.Email,
		ShopName:   s.ShopName,
		Phone:      s.Phone,
		GSTNumber:  s.GSTNumber,
		IsVerified: s.IsVerified,
		IsActive:   s.IsActive,
	}
}
