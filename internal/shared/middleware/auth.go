package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/todo/internal/shared/respond"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const userIDKey contextKey = "userID"

type verifier interface {
	Verify(token string) (string, error)
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireBearer protects routes with an "Authorization: <scheme> <token>"
// header. A missing header or token yields 401; a token the verifier rejects
// yields 403 with the verifier's message.
func RequireBearer(v verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := hlog.FromRequest(r)

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				logger.Debug().Msg("Missing bearer token")
				respond.Message(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, err := v.Verify(token)
			if err != nil {
				logger.Warn().Err(err).Msg("Rejected bearer token")
				respond.JSON(w, r, http.StatusForbidden, map[string]string{"error_message": err.Error()})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// bearerToken returns the second space-separated part of the header. The
// scheme name itself is not checked.
func bearerToken(header string) string {
	_, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
