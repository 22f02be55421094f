package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser is the session identity a request is signed in as.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// AdminUser may use the dashboard and every API write.
func AdminUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Site Admin",
		Email: "admin@example.com",
		Role:  models.RoleAdmin,
	}
}

// RegularUser is a registered visitor without dashboard access.
func RegularUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Visitor",
		Email: "visitor@example.com",
		Role:  models.RoleUser,
	}
}

// WithUser signs r in as user, as LoadSessionUser would.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

// NewAuthenticatedRequest is httptest.NewRequest signed in as user.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// csrfTokenKey is the context key gorilla/csrf reads the token from.
const csrfTokenKey = "gorilla.csrf.Token"

// WithCSRFToken puts a fixed token in r's context so forms rendered without
// the CSRF middleware still carry a value.
func WithCSRFToken(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), csrfTokenKey, "test-csrf-token"))
}

// NewAuthenticatedRequestWithCSRF is NewAuthenticatedRequest plus WithCSRFToken.
func NewAuthenticatedRequestWithCSRF(method, target string, user TestUser) *http.Request {
	return WithCSRFToken(NewAuthenticatedRequest(method, target, user))
}
