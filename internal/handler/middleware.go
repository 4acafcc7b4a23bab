package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/ashrivastava/shopzone/internal/domain/auth"
)

type identityKey struct{}

// identityFrom returns the authenticated identity stored by authenticate.
func identityFrom(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*auth.Identity)
	return id, ok
}

// authenticate resolves the bearer token and injects the identity into the
// request context. Requests without a valid token are rejected.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			writeError(w, r, auth.ErrMissingToken)
			return
		}

		id, err := h.tokens.Verify(token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole rejects authenticated identities of the wrong kind.
func requireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identityFrom(r.Context())
			if !ok {
				writeError(w, r, auth.ErrMissingToken)
				return
			}
			if id.Role != role {
				writeErrorMsg(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
