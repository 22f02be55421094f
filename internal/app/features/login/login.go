// internal/app/features/login/login.go
package login

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	userstore "github.com/dalemusser/stratasite/internal/app/store/users"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/authutil"
	"github.com/dalemusser/stratasite/internal/app/system/inputval"
	"github.com/dalemusser/stratasite/internal/app/system/normalize"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/dalemusser/stratasite/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// InvalidCredentials is shown for an unknown email and for a wrong password.
const InvalidCredentials = "Invalid credentials"

// Handler provides login handlers.
type Handler struct {
	users      *userstore.Store
	sessionMgr *auth.SessionManager
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a new login Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		users:      userstore.New(db),
		sessionMgr: sessionMgr,
		errLog:     errLog,
		logger:     logger,
	}
}

// LoginVM is the view model for the login page.
type LoginVM struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

// Routes returns a chi.Router with login routes mounted. Admins that already
// hold a session are sent straight to the dashboard.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(h.sessionMgr.RedirectIfSignedIn("/dashboard"))
	r.Get("/", h.showLogin)
	r.Post("/", h.handleLogin)
	return r
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, email, returnURL, msg string) {
	vm := LoginVM{
		BaseVM:    viewdata.New(r),
		Error:     msg,
		Email:     email,
		ReturnURL: returnURL,
	}
	vm.Title = "Sign in"
	templates.Render(w, r, "login/index", vm)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "", query.Get(r, "return"), "")
}

// handleLogin checks the email and password. Both failure causes show the
// same message; the log records which one it was.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	creds := inputval.Credentials{
		Email:    normalize.Email(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	email, password := creds.Email, creds.Password
	returnURL := r.FormValue("return")

	if res := inputval.Validate(creds); res.HasErrors() {
		h.render(w, r, email, returnURL, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			authutil.BurnCompare(password)
			h.logger.Info("login failed: unknown email", zap.String("email", email))
			h.render(w, r, email, returnURL, InvalidCredentials)
			return
		}
		h.errLog.Log(r, "database error during login lookup", err)
		h.render(w, r, email, returnURL, "Service temporarily unavailable. Please try again.")
		return
	}

	if !authutil.CheckPassword(password, user.PasswordHash) {
		h.logger.Info("login failed: wrong password",
			zap.String("email", email),
			zap.String("user_id", user.ID.Hex()))
		h.render(w, r, email, returnURL, InvalidCredentials)
		return
	}

	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.Email, user.Role); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("login succeeded", zap.String("user_id", user.ID.Hex()), zap.String("role", user.Role))
	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
}
