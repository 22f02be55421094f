package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/stratasite/internal/app/system/normalize"
)

// RequireRole admits callers holding one of the allowed roles. Anonymous
// browsers go to the login page with a return path; signed-in browsers
// without the role go to ForbiddenPath. Other clients get a JSON 401 or 403.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	return requireRole(allowed...)
}

func requireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]bool, len(allowed))
	for _, role := range allowed {
		set[normalize.Role(role)] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			switch {
			case !ok:
				deny(w, r, http.StatusUnauthorized, LoginPath+"?return="+url.QueryEscape(r.URL.RequestURI()), "Authentication required")
			case !set[normalize.Role(u.Role)]:
				deny(w, r, http.StatusForbidden, ForbiddenPath, "Forbidden")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RedirectIfSignedIn sends a signed-in admin to dest, so the login page is
// not shown to someone who can already use the dashboard.
func (sm *SessionManager) RedirectIfSignedIn(dest string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := CurrentUser(r); ok && u.IsAdmin() {
				http.Redirect(w, r, dest, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, status int, browserDest, msg string) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, browserDest, http.StatusSeeOther)
		return
	}
	writeJSONError(w, status, msg)
}

// writeJSONError writes the {success:false,message} envelope.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
