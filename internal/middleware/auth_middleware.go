package middleware

import (
	"context"
	"net/http"
	"strings"

	"notesmith-server/internal/domain"
	"notesmith-server/internal/service"
	"notesmith-server/pkg/response"
)

type contextKey string

const userKey contextKey = "user"

// AuthMiddleware validates the bearer token and resolves it to a live user.
// Tokens whose user is gone, or was issued before a password change, are
// rejected the same way as malformed ones.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "You are not logged in. Please log in to get access.")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			user, err := authService.Authenticate(parts[1])
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user attached by AuthMiddleware, or nil.
func GetUser(r *http.Request) *domain.User {
	user, ok := r.Context().Value(userKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID returns the authenticated user's ID, or "".
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return ""
}
