// Package middleware provides the request interceptors shared by every
// route group: auth gate, rate limiting, request id, logging, recovery and
// tracing. Each layer is handler-agnostic and composable in any order.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/suntzu974/zevis/internal/token"
	"github.com/suntzu974/zevis/pkg/problem"
)

// TokenVerifier is the slice of the token codec the auth gate needs.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type contextKeySubject struct{}
type contextKeyScope struct{}

// GetSubject returns the authenticated subject id from the context, or ""
// for unauthenticated requests.
func GetSubject(ctx context.Context) string {
	subject, _ := ctx.Value(contextKeySubject{}).(string)
	return subject
}

// GetScope returns the token scope from the context.
func GetScope(ctx context.Context) string {
	scope, _ := ctx.Value(contextKeyScope{}).(string)
	return scope
}

// RequireAuth rejects requests without a valid bearer token. Every failure
// mode maps to the same 401 problem document; the distinct reason is logged,
// never sent to the caller.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || raw == "" {
				logger.WarnContext(ctx, "unauthorized: missing bearer token",
					"request_id", GetRequestID(ctx),
					"path", r.URL.Path,
				)
				problem.Unauthorized("Missing or invalid Authorization header").Write(w)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized: token rejected",
					"error", err,
					"request_id", GetRequestID(ctx),
					"path", r.URL.Path,
				)
				problem.Unauthorized("Invalid or expired token").Write(w)
				return
			}

			ctx = context.WithValue(ctx, contextKeySubject{}, claims.Subject)
			ctx = context.WithValue(ctx, contextKeyScope{}, claims.Scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
