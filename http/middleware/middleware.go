package middleware

import (
	"context"
	"net/http"
	"strings"

	"josaa-predictor/http/response"
	"josaa-predictor/utils"
)

type contextKey string

// UserIDKey carries the authenticated user's ID in the request context
const UserIDKey contextKey = "user_id"

// EnableCORS wraps a handler with permissive CORS headers and answers
// preflight requests directly.
func EnableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// RequireAuth wraps a handler with bearer token verification. The
// authenticated user ID is placed in the request context.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.ErrorResponse(w, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.ErrorResponse(w, http.StatusUnauthorized, "Authorization header must use Bearer scheme")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			response.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		userID, err := utils.UserIDFromClaims(claims)
		if err != nil {
			response.ErrorResponse(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// UserIDFromContext returns the authenticated user ID set by RequireAuth
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}
