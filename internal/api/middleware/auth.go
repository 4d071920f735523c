package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/ffmarket/internal/api/apierr"
	"github.com/mcoot/ffmarket/internal/model"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// TokenValidator resolves a bearer token to the user it was issued to
type TokenValidator interface {
	ValidateToken(token string) (model.UserID, error)
}

// Auth creates authentication middleware
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			userID, err := validator.ValidateToken(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// WithUserID returns a context carrying the authenticated user id
func WithUserID(ctx context.Context, userID model.UserID) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserID returns the authenticated user id from the request context
func GetUserID(ctx context.Context) (model.UserID, bool) {
	userID, ok := ctx.Value(userIDContextKey).(model.UserID)
	return userID, ok
}

// MustGetUserID returns the authenticated user id or panics
func MustGetUserID(ctx context.Context) model.UserID {
	userID, ok := GetUserID(ctx)
	if !ok {
		panic("no user in context - auth middleware not applied?")
	}
	return userID
}
