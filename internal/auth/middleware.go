package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/redmonkez12/visionise-api/internal/httputil"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// Identity is the verified caller of a protected request
type Identity struct {
	UserID string
	Email  string
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// RequireAuth verifies the bearer token and puts the caller's Identity in
// the request context. Missing, malformed, forged and expired tokens all
// get the same 401 response.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			unauthorized(w)
			return
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := WithIdentity(r.Context(), Identity{UserID: claims.UserID, Email: claims.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "Unauthorized", httputil.CodeUnauthorized, http.StatusUnauthorized)
}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, id)
}

// IdentityFromContext extracts the caller set by RequireAuth
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityContextKey).(Identity)
	return id, ok
}
