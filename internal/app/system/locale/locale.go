// Package locale handles the en/ar URL prefix, Accept-Language negotiation,
// text direction, and the small set of interface labels used by templates.
package locale

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
)

const (
	EN = models.LocaleEN
	AR = models.LocaleAR

	// CookieName remembers the last locale a visitor browsed.
	CookieName = "lang"
)

// Supported lists the locales in preference order.
var Supported = []string{EN, AR}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

// IsSupported reports whether l is en or ar.
func IsSupported(l string) bool {
	return l == EN || l == AR
}

// Normalize returns l if supported, otherwise fallback.
func Normalize(l, fallback string) string {
	l = strings.ToLower(strings.TrimSpace(l))
	if IsSupported(l) {
		return l
	}
	return fallback
}

// Negotiate picks a locale for r: the lang cookie first, then the
// Accept-Language header, then fallback.
func Negotiate(r *http.Request, fallback string) string {
	if c, err := r.Cookie(CookieName); err == nil && IsSupported(c.Value) {
		return c.Value
	}
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}

// Dir returns the text direction for l.
func Dir(l string) string {
	if l == AR {
		return "rtl"
	}
	return "ltr"
}

// Other returns the locale a language switch should link to.
func Other(l string) string {
	if l == AR {
		return EN
	}
	return AR
}

// SwitchPath rewrites the leading locale segment of path to target. Paths
// without a locale segment get one prepended.
func SwitchPath(path, target string) string {
	trimmed := strings.TrimPrefix(path, "/")
	seg, rest, _ := strings.Cut(trimmed, "/")
	if IsSupported(seg) {
		if rest == "" {
			return "/" + target
		}
		return "/" + target + "/" + rest
	}
	if trimmed == "" {
		return "/" + target
	}
	return "/" + target + "/" + trimmed
}

type ctxKey struct{}

// WithLocale stores l in ctx.
func WithLocale(ctx context.Context, l string) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request locale, defaulting to English.
func FromContext(ctx context.Context) string {
	if l, ok := ctx.Value(ctxKey{}).(string); ok {
		return l
	}
	return EN
}

// FromRequest returns the locale stored on r by Middleware, or a negotiated
// one for routes outside the locale prefix (dashboard, login).
func FromRequest(r *http.Request, fallback string) string {
	if l, ok := r.Context().Value(ctxKey{}).(string); ok {
		return l
	}
	return Negotiate(r, fallback)
}

// Middleware reads the {lang} URL parameter, rejects unsupported values with
// 404, stores the locale in the request context and remembers it in a cookie.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := chi.URLParam(r, "lang")
		if !IsSupported(l) {
			http.NotFound(w, r)
			return
		}
		if c, err := r.Cookie(CookieName); err != nil || c.Value != l {
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    l,
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), l)))
	})
}

// RedirectRoot sends "/" to the negotiated locale home.
func RedirectRoot(fallback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/"+Negotiate(r, fallback), http.StatusFound)
	}
}
