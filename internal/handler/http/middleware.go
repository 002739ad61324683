// Package http exposes the sales-order API over chi.
package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/nguyenhoangkha03/salesdesk/pkg/httputil"
	"github.com/nguyenhoangkha03/salesdesk/pkg/logger"

	"github.com/nguyenhoangkha03/salesdesk/internal/auth"
)

type contextKey string

const sessionKey contextKey = "session"

// Authenticate verifies the bearer token and stores the session snapshot in
// the request context. Requests without a valid token get 401.
func Authenticate(verifier *auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "bearer token required"},
				})
				return
			}

			session, err := verifier.Verify(token)
			if err != nil {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid or expired token"},
				})
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			ctx = logger.WithOperatorID(ctx, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the authenticated session, or nil when the
// request was not authenticated. Nil sessions fail every permission check.
func SessionFromContext(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(sessionKey).(*auth.Session)
	return s
}

// RequireGate rejects with 403 when the gate denies the session. Routes use
// this for coarse permission checks; finer-grained gating is the gate
// evaluation endpoint's job.
func RequireGate(gate auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Allows(SessionFromContext(r.Context())) {
				httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "FORBIDDEN", Message: "insufficient permissions"},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission is shorthand for a single-permission gate.
func RequirePermission(key string) func(http.Handler) http.Handler {
	return RequireGate(auth.Gate{Permission: key})
}

// ContentTypeJSON rejects bodied requests whose Content-Type is not JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
