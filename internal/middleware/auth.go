package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront-be/internal/auth"
	"storefront-be/internal/metrics"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "email"
)

func GetUserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// Auth rejects requests without a valid bearer token and puts the verified
// identity on the request context.
func Auth(tokens auth.TokenManager, stats *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractBearer(r)
			if tokenStr == "" {
				stats.AuthFailures.Inc()
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				stats.AuthFailures.Inc()
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
