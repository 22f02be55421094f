// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with the request that caused them.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log records err at error level with the request path, method and, when
// someone is signed in, their user id.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.LogWithFields(r, msg, err)
}

// LogWithFields is Log with extra fields appended.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	all := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	}
	if err != nil {
		all = append(all, zap.Error(err))
	}
	if u, ok := auth.CurrentUser(r); ok {
		all = append(all, zap.String("user_id", u.ID))
	}
	e.logger.Error(msg, append(all, fields...)...)
}

// Handler renders the error pages in the request locale.
type Handler struct{}

// NewHandler creates a new error Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// PageVM is the view model shared by every error page.
type PageVM struct {
	viewdata.BaseVM
	Status     int
	Body       string
	SwitchUser bool
	SignInURL  string
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, key string, adjust func(*PageVM)) {
	vm := PageVM{BaseVM: viewdata.New(r), Status: status}
	vm.Title = vm.L[key+".title"]
	vm.Body = vm.L[key+".body"]
	if adjust != nil {
		adjust(&vm)
	}
	w.WriteHeader(status)
	templates.Render(w, r, "errors/page", vm)
}

// Forbidden renders 403. A signed-in visitor is offered a sign-out.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusForbidden, "forbidden", func(vm *PageVM) {
		vm.SwitchUser = vm.IsLoggedIn
	})
}

// Unauthorized renders 401 with a sign-in link.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusUnauthorized, "unauth", func(vm *PageVM) {
		vm.SignInURL = auth.LoginPath
	})
}

// NotFound renders 404. Page loaders call it when a slug or id matches
// nothing.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", nil)
}

// InternalError renders 500.
func (h *Handler) InternalError(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusInternalServerError, "error", nil)
}
