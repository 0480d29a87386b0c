package auth

import (
	"net/http"
	"strings"

	"github.com/taskhive/todo-backend/internal/identity"
)

// AuthMiddleware validates the bearer access token and puts the caller's
// user id on the request context via the identity package.
func AuthMiddleware(ts TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			const prefix = "Bearer "
			if !strings.HasPrefix(authHeader, prefix) {
				http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimSpace(authHeader[len(prefix):])
			if tokenStr == "" {
				http.Error(w, "empty bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := ts.ParseAccessToken(r.Context(), tokenStr)
			if err != nil {
				http.Error(w, "invalid or expired access token", http.StatusUnauthorized)
				return
			}

			ctx := identity.ContextWithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
