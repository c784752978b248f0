package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator defines the interface for validating inbound bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	AgentID string
}

type contextKeyAgentID struct{}

// ContextKeyAgentID is exported for use in handler tests.
var ContextKeyAgentID = contextKeyAgentID{}

// GetAgentID retrieves the authenticated agent ID from the context.
func GetAgentID(ctx context.Context) string {
	agentID, ok := ctx.Value(ContextKeyAgentID).(string)
	if !ok {
		return ""
	}
	return agentID
}

// RequireAuth authenticates inbound requests carrying a bearer token. A nil
// validator disables the check, matching deployments that front the gateway
// with their own access control.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Warn("rejected inbound token",
					"request_id", GetRequestID(r.Context()),
					"error", err.Error(),
				)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAgentID, claims.AgentID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
