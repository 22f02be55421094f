// internal/app/features/theme/theme.go
package theme

import (
	"net/http"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
)

const cookieMaxAge = 365 * 24 * time.Hour

// Routes mounts POST / which stores the theme preference.
func Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", Set)
	return r
}

// Set stores light, dark or system in the theme cookie and sends the
// visitor back to the page they came from. Unknown values are rejected.
func Set(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	t := r.FormValue("theme")
	if !viewdata.IsTheme(t) {
		http.Error(w, "unknown theme", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     viewdata.ThemeCookie,
		Value:    t,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, urlutil.SafeReturn(r.FormValue("return"), "", "/"), http.StatusSeeOther)
}
