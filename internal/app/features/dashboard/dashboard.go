// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/formutil"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const pageSize = 20

// Handler provides the admin dashboard.
type Handler struct {
	d      *entitystore.Dispatcher
	reg    *entitystore.Registry
	media  MediaStore
	pages  *errorsfeature.Handler
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a new dashboard Handler. media may be nil, in which
// case uploads answer 503.
func NewHandler(d *entitystore.Dispatcher, media MediaStore, pages *errorsfeature.Handler, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		d:      d,
		reg:    d.Registry(),
		media:  media,
		pages:  pages,
		errLog: errLog,
		logger: logger,
	}
}

// Routes returns a chi.Router with dashboard routes mounted. Every route
// requires the admin role.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireRole("admin"))

	r.Get("/", h.overview)
	r.Post("/uploads", h.upload)

	r.Route("/{entity}", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.saveSingleton)
		r.Get("/new", h.showNew)
		r.Post("/new", h.create)
		r.Post("/delete", h.deleteMany)
		r.Get("/{id}/edit", h.showEdit)
		r.Post("/{id}/edit", h.update)
		r.Post("/{id}/delete", h.delete)
	})
	return r
}

// menuItem is one entry in the dashboard sidebar.
type menuItem struct {
	URL    string
	Label  string
	Active bool
}

// dashVM is embedded by every dashboard page.
type dashVM struct {
	formutil.Base
	Menu  []menuItem
	Flash string
}

func (h *Handler) newVM(r *http.Request, title string, active entitystore.Kind) dashVM {
	vm := dashVM{
		Base:  formutil.NewBase(r, title, "/dashboard"),
		Flash: strings.TrimSpace(r.URL.Query().Get("flash")),
	}
	vm.Menu = append(vm.Menu, menuItem{URL: "/dashboard", Label: "Overview", Active: active == ""})
	for _, k := range entitystore.Kinds {
		vm.Menu = append(vm.Menu, menuItem{
			URL:    kindURL(k),
			Label:  k.Plural(),
			Active: k == active,
		})
	}
	return vm
}

func kindURL(k entitystore.Kind) string {
	return "/dashboard/" + string(k)
}

func (h *Handler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Medium())
}

// kind resolves the {entity} URL parameter, answering 404 for unknown names.
func (h *Handler) kind(w http.ResponseWriter, r *http.Request) (entitystore.Kind, bool) {
	k, ok := entitystore.ParseKind(chi.URLParam(r, "entity"))
	if !ok {
		h.pages.NotFound(w, r)
		return "", false
	}
	return k, true
}

type countCard struct {
	Label string
	URL   string
	Count int64
}

// OverviewVM is the view model for the dashboard landing page.
type OverviewVM struct {
	dashVM
	Cards []countCard
}

// overview shows a count per collection.
func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); !ok {
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	vm := OverviewVM{dashVM: h.newVM(r, "Dashboard", "")}
	for _, k := range entitystore.Kinds {
		if k.Singleton() {
			continue
		}
		n, err := h.reg.Count(ctx, k)
		if err != nil {
			h.errLog.Log(r, "count "+string(k), err)
			h.pages.InternalError(w, r)
			return
		}
		vm.Cards = append(vm.Cards, countCard{Label: k.Plural(), URL: kindURL(k), Count: n})
	}
	templates.Render(w, r, "dashboard/overview", vm)
}
