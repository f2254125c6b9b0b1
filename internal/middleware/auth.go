package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ringshq/rings/internal/apperr"
	"github.com/ringshq/rings/internal/ctxkeys"
	"github.com/ringshq/rings/internal/service"
)

// AuthMiddleware resolves the session cookie to an authenticated identity
// and adds it to the request context. The cookie is re-issued on every
// authenticated request, giving the session a sliding expiry.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(authService.SessionCookieName())
			if err != nil {
				// No cookie, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			session, err := authService.VerifySessionToken(cookie.Value)
			if err != nil {
				// Invalid token, clear cookie and continue
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Confirm the user still exists before trusting the claims
			user, err := authService.ByID(session.UserID)
			if err != nil {
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}
			session.Username = user.Username

			// Sliding expiry: refresh the cookie with a newly signed token
			refreshed, err := authService.GenerateSessionToken(user)
			if err == nil {
				authService.SetSessionCookie(w, refreshed)
			}

			ctx := ctxkeys.WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not resolve to a session.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := ctxkeys.Session(r.Context())
		if session == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(apperr.Unauthorized().Body())
			return
		}

		next.ServeHTTP(w, r)
	}
}
