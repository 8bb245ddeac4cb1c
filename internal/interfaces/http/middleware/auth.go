// Package middleware provides the HTTP middleware chain: authentication,
// request logging and metrics.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spaarke/workspace-engine/internal/config"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const identityContextKey contextKey = iota

// ContextGetIdentity returns the authenticated identity, or "" when the
// request did not pass through the auth middleware.
func ContextGetIdentity(ctx context.Context) string {
	if v, ok := ctx.Value(identityContextKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithIdentity injects an identity (for handler tests).
func ContextWithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// AuthMiddleware authenticates requests with a JWT bearer token or a static
// API key and injects the resulting identity into the request context.
type AuthMiddleware struct {
	jwtSecret []byte
	apiKeys   map[string]string
	logger    logging.Logger
}

// NewAuthMiddleware creates the middleware from auth configuration.
func NewAuthMiddleware(cfg *config.AuthConfig, logger logging.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: []byte(cfg.JWTSecret),
		apiKeys:   cfg.APIKeys,
		logger:    logger.Named("auth"),
	}
}

// Authenticate rejects requests without valid credentials before any
// handler runs.  Bearer tokens are tried first, then X-API-Key.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := extractBearerToken(r); token != "" {
			identity, err := m.validateToken(token)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
				return
			}
			m.logger.Debug("bearer token rejected", logging.Err(err))
		}

		if key := r.Header.Get("X-API-Key"); key != "" {
			if identity, ok := m.apiKeys[key]; ok {
				next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
				return
			}
		}

		errors.WriteProblem(w, errors.Unauthorized("authentication required"))
	})
}

func (m *AuthMiddleware) validateToken(tokenString string) (string, error) {
	if len(m.jwtSecret) == 0 {
		return "", errors.Unauthorized("bearer authentication is not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Unauthorized("unexpected signing method")
		}
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.Unauthorized("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.Unauthorized("token has no subject")
	}
	return sub, nil
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
