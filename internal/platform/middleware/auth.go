package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator defines the interface for validating bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*AuthClaims, error)
}

// AuthClaims represents the claims we expect from the token validator.
type AuthClaims struct {
	UserID int64
	Roles  []string
}

type contextKeyUserID struct{}
type contextKeyRoles struct{}

// Exported for tests that need to build authenticated contexts directly.
var (
	ContextKeyUserID = contextKeyUserID{}
	ContextKeyRoles  = contextKeyRoles{}
)

// GetUserID retrieves the authenticated user id from the context.
// ok is false for anonymous requests.
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(int64)
	return userID, ok
}

// GetRoles retrieves the authenticated user's roles from the context.
func GetRoles(ctx context.Context) []string {
	roles, ok := ctx.Value(ContextKeyRoles).([]string)
	if !ok {
		return nil
	}
	return roles
}

const bearerPrefix = "Bearer "

// OptionalAuth validates the bearer token when one is supplied and leaves the
// request anonymous otherwise. A present-but-invalid token is rejected so a
// caller cannot silently fall back to the anonymous view.
func OptionalAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				writeUnauthorized(w, r, logger, "malformed Authorization header")
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				writeUnauthorized(w, r, logger, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// RequireRole enforces a valid token whose roles intersect the allowed set.
func RequireRole(validator TokenValidator, logger *slog.Logger, allowed ...string) func(http.Handler) http.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				writeUnauthorized(w, r, logger, "missing or invalid Authorization header")
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				writeUnauthorized(w, r, logger, "invalid or expired token")
				return
			}
			permitted := false
			for _, role := range claims.Roles {
				if _, ok := allowedSet[role]; ok {
					permitted = true
					break
				}
			}
			if !permitted {
				logger.WarnContext(r.Context(), "forbidden - insufficient role",
					"user_id", claims.UserID,
					"request_id", GetRequestID(r.Context()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func withClaims(ctx context.Context, claims *AuthClaims) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
	return context.WithValue(ctx, ContextKeyRoles, claims.Roles)
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string) {
	logger.WarnContext(r.Context(), "unauthorized access",
		"reason", reason,
		"request_id", GetRequestID(r.Context()),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
