// Package authz answers "who is asking" questions for templates. Route
// guards live in auth.
package authz

import (
	"net/http"

	"github.com/dalemusser/stratasite/internal/app/system/auth"
)

// IsAdmin reports whether the caller may use the dashboard. A user whose
// ID is malformed is never an admin.
func IsAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && !u.UserID().IsZero() && u.IsAdmin()
}

func IsLoggedIn(r *http.Request) bool {
	_, ok := auth.CurrentUser(r)
	return ok
}

// DisplayName is the user's name, or their email when the name is blank.
func DisplayName(r *http.Request) string {
	u, ok := auth.CurrentUser(r)
	switch {
	case !ok:
		return ""
	case u.Name != "":
		return u.Name
	}
	return u.Email
}
