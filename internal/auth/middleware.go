package auth

import (
	"net/http"

	"github.com/logisamb/portal/internal/platform/httpx"
	"github.com/logisamb/portal/internal/shared"
)

// RequireUser rejects requests that do not carry an authenticated session.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || !sess.Authenticated() {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects authenticated sessions whose role is not admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || !sess.Authenticated() {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		if !sess.Identity().IsAdmin() {
			httpx.RespondError(w, shared.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
