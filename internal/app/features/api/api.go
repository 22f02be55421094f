// Package api serves the JSON API: public endpoints for the site's forms and
// listings, token issuance, and the admin entity endpoints.
//
// Mounted at /api:
//   - POST /auth/register, POST /auth/token
//   - POST /contact, POST /subscribe
//   - GET /categories, GET /services, GET /team
//   - /admin/{entity}: GET, POST, POST /delete, GET|PUT|DELETE /{id}
//
// Admin endpoints accept a bearer token or an admin session. Every response
// uses the jsonutil envelope.
package api

import (
	"context"
	"mime"
	"net/http"

	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	userstore "github.com/dalemusser/stratasite/internal/app/store/users"
	"github.com/dalemusser/stratasite/internal/app/system/apicors"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/notify"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the JSON API.
type Handler struct {
	d        *entitystore.Dispatcher
	reg      *entitystore.Registry
	users    *userstore.Store
	tokens   *auth.TokenIssuer
	notifier *notify.Notifier
	logger   *zap.Logger
}

// NewHandler creates an API Handler. notifier may be nil.
func NewHandler(db *mongo.Database, d *entitystore.Dispatcher, tokens *auth.TokenIssuer, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		d:        d,
		reg:      d.Registry(),
		users:    userstore.New(db),
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
	}
}

// Routes returns the API router. With no allowed origins, any origin may
// call the API; credentials are never allowed cross-origin.
func Routes(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	if len(allowedOrigins) > 0 {
		r.Use(apicors.MiddlewareWithOrigins(allowedOrigins...))
	} else {
		r.Use(apicors.Middleware())
	}

	r.Group(func(r chi.Router) {
		r.Use(requireJSON)
		r.Post("/auth/register", h.register)
		r.Post("/auth/token", h.token)
		r.Post("/contact", h.contact)
		r.Post("/subscribe", h.subscribe)
	})

	r.Get("/categories", h.categories)
	r.Get("/services", h.services)
	r.Get("/team", h.team)

	r.Route("/admin/{entity}", func(r chi.Router) {
		r.Use(auth.BearerOrSession(h.tokens, h.logger, "admin"))
		r.Use(requireJSON)

		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/", h.update)
		r.Post("/delete", h.deleteMany)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonutil.NotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonutil.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

// requireJSON rejects writes that are not application/json with 415.
// Browsers cannot send a JSON body cross-site without a preflight, so
// session-authenticated admin writes need no CSRF token.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		case http.MethodDelete:
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}
		}
		mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mt != "application/json" {
			jsonutil.Fail(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Medium())
}

// writeResult writes a dispatcher Result with its status code.
func writeResult(w http.ResponseWriter, res entitystore.Result) {
	jsonutil.JSON(w, res.HTTPStatus(), res)
}

// decodeMap reads a JSON object body.
func decodeMap(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var payload map[string]any
	if err := jsonutil.Decode(w, r, &payload); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return nil, false
	}
	if payload == nil {
		jsonutil.BadRequest(w, "request body must be a JSON object")
		return nil, false
	}
	return payload, true
}
