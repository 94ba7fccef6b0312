package middleware

import (
	"context"
	"net/http"
	"strings"

	"statedash/auth"
)

type contextKey string

// userIDKey carries the authenticated user ID through the request context.
const userIDKey contextKey = "user_id"

// RequireAuth resolves the Authorization bearer token to an identity and
// rejects the request with 401 when no identity is present. Identity is
// re-resolved per request; nothing is cached across requests. Role checks
// happen later inside the repository.
func RequireAuth(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if header == "" || token == header {
				unauthorized(w)
				return
			}
			userID := verifier.VerifyToken(token)
			if userID == "" {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": "Authentication required"}`))
}

// UserID returns the authenticated user ID from the request context, empty
// when the request was not authenticated.
func UserID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
