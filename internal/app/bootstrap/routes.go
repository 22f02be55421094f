// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	apifeature "github.com/dalemusser/stratasite/internal/app/features/api"
	dashboardfeature "github.com/dalemusser/stratasite/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	healthfeature "github.com/dalemusser/stratasite/internal/app/features/health"
	loginfeature "github.com/dalemusser/stratasite/internal/app/features/login"
	logoutfeature "github.com/dalemusser/stratasite/internal/app/features/logout"
	sitefeature "github.com/dalemusser/stratasite/internal/app/features/site"
	themefeature "github.com/dalemusser/stratasite/internal/app/features/theme"
	appresources "github.com/dalemusser/stratasite/internal/app/resources"
	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	userstore "github.com/dalemusser/stratasite/internal/app/store/users"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/locale"
	"github.com/dalemusser/stratasite/internal/app/system/notify"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// apiPrefix is served with bearer-token or JSON-only session auth and is
// exempt from the CSRF form token.
const apiPrefix = "/api"

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// Layout:
//   - /               redirect to the negotiated locale
//   - /{lang}/...     public site (en or ar)
//   - /login, /logout session sign in and out
//   - /dashboard/...  admin CMS (session, admin role, CSRF)
//   - /api/...        JSON API (bearer token or session, no CSRF)
//   - /health, /ready, /livez, /assets, /static, media
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser re-reads the user on each request so role changes and
	// deletions take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	tokens, err := auth.NewTokenIssuer(appCfg.TokenSecret, appCfg.TokenTTL)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	reg := entitystore.NewRegistry(deps.MongoDatabase)
	dispatcher := entitystore.NewDispatcher(reg, logger)
	notifier := notify.New(reg, deps.Mailer, appCfg.ContactNotifyEmail, appCfg.BaseURL, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(csrfMiddleware(appCfg, secure, logger))

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	var mediaBackend string
	if deps.FileStorage != nil {
		mediaBackend = appCfg.StorageType
	}
	healthHandler := healthfeature.NewHandler(deps.MongoClient, healthfeature.Optional{
		Mail:    deps.Mailer != nil && deps.Mailer.Enabled(),
		Storage: mediaBackend,
	}, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "static"))
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Uploaded media (local storage only; S3 media is served by CloudFront)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount(auth.LoginPath, loginfeature.Routes(loginHandler))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, logger)))
	r.Mount("/theme", themefeature.Routes())

	// Admin CMS
	dashboardHandler := dashboardfeature.NewHandler(dispatcher, deps.FileStorage, errorsHandler, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// JSON API
	apiHandler := apifeature.NewHandler(deps.MongoDatabase, dispatcher, tokens, notifier, logger)
	r.Mount(apiPrefix, apifeature.Routes(apiHandler, appCfg.APICORSOrigins))

	// Error pages
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Public site
	r.Get("/", locale.RedirectRoot(appCfg.DefaultLocale))
	siteHandler := sitefeature.NewHandler(dispatcher, notifier, errorsHandler, errLog, logger)
	r.Mount("/{lang}", sitefeature.Routes(siteHandler))

	r.NotFound(errorsHandler.NotFound)

	logger.Info("routes mounted",
		zap.Bool("secure_cookies", secure),
		zap.Strings("api_cors_origins", appCfg.APICORSOrigins),
	)
	return r, nil
}

// csrfMiddleware protects every form post except the JSON API. The cookie
// name is app specific to avoid collisions with other services on the same
// domain.
func csrfMiddleware(appCfg AppConfig, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("stratasite_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	protect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	return func(next http.Handler) http.Handler {
		csrfHandler := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if isAPIPath(req.URL.Path) {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
}

func isAPIPath(p string) bool {
	return p == apiPrefix || strings.HasPrefix(p, apiPrefix+"/")
}
