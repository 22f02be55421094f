// internal/app/features/site/site.go
package site

import (
	"context"
	"net/http"
	"net/url"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	"github.com/dalemusser/stratasite/internal/app/system/locale"
	"github.com/dalemusser/stratasite/internal/app/system/notify"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Page sizes for the public listings.
const (
	blogPageSize      = 9
	portfolioPageSize = 12
	homeServices      = 6
	homeProducts      = 6
	homePosts         = 3
)

// Handler serves the public locale-prefixed pages.
type Handler struct {
	d        *entitystore.Dispatcher
	reg      *entitystore.Registry
	notifier *notify.Notifier
	pages    *errorsfeature.Handler
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
}

// NewHandler creates a site Handler.
func NewHandler(d *entitystore.Dispatcher, notifier *notify.Notifier, pages *errorsfeature.Handler, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		d:        d,
		reg:      d.Registry(),
		notifier: notifier,
		pages:    pages,
		errLog:   errLog,
		logger:   logger,
	}
}

// Routes returns the public pages. Mount it under "/{lang}"; unsupported
// locales are answered with 404 by locale.Middleware.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(locale.Middleware)

	r.Get("/", h.home)
	r.Get("/services", h.services)
	r.Get("/services/{slug}", h.service)
	r.Get("/portfolio", h.portfolio)
	r.Get("/portfolio/{slug}", h.product)
	r.Get("/blog", h.blogList)
	r.Get("/blog/{slug}", h.blogPost)
	r.Get("/team", h.team)
	r.Get("/contact", h.contactForm)
	r.Post("/contact", h.contactSubmit)
	r.Post("/subscribe", h.subscribe)

	r.NotFound(h.pages.NotFound)
	return r
}

func (h *Handler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Medium())
}

// fail renders the not-found page for missing documents and the error page
// for everything else.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, entitystore.ErrNotFound) {
		h.pages.NotFound(w, r)
		return
	}
	h.errLog.Log(r, msg, err)
	h.pages.InternalError(w, r)
}

// slugParam returns the decoded {slug} segment; Arabic slugs arrive escaped.
func slugParam(r *http.Request) string {
	raw := chi.URLParam(r, "slug")
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

func lang(r *http.Request) string {
	return locale.FromContext(r.Context())
}
