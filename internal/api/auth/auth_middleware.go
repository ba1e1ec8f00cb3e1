package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmcorreia/go-auth-api/internal/api"
)

type contextKey string

const UserIDKey contextKey = "userID"
const UsernameKey contextKey = "username"

// Authenticate validates the Bearer token on incoming requests and adds the
// subject's identity to the request context. Every failure mode (missing,
// malformed, tampered, expired) comes back as a 401.
func Authenticate(logger *slog.Logger, issuer *TokenIssuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.WarnContext(ctx, "Missing Authorization header")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				l.WarnContext(ctx, "Invalid Authorization header format")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}

			claims, err := issuer.Validate(headerParts[1])
			if err != nil {
				// The cause (expired, malformed, bad signature) goes to the
				// log only; clients get one fixed message for every failure.
				l.WarnContext(ctx, "Token validation failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			l.DebugContext(ctx, "Authentication successful", slog.String("userID", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext returns the authenticated subject id, if present.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUsernameFromContext returns the authenticated username, if present.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}
