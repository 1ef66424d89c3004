package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"pkgconfirm/pkg/requestcontext"
)

// JWTValidator validates bearer tokens presented by installer clients.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// ValidatorFunc adapts a plain function to JWTValidator.
type ValidatorFunc func(tokenString string) (*JWTClaims, error)

func (f ValidatorFunc) ValidateToken(tokenString string) (*JWTClaims, error) {
	return f(tokenString)
}

// JWTClaims are the claims the middleware needs from a validated token.
type JWTClaims struct {
	ClientID string
	JTI      string
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's client ID as the request actor.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithActorID(ctx, claims.ClientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
