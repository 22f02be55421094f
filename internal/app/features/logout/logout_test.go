package logout

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *auth.SessionManager) {
	t.Helper()
	sessionMgr, err := auth.NewSessionManager(
		"test-session-key-for-testing-1234567890",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return NewHandler(sessionMgr, zap.NewNop()), sessionMgr
}

func TestLogout_RedirectsToRoot(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/", testutil.AdminUser())
	rec := httptest.NewRecorder()
	Routes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestLogout_ExpiresSessionCookie(t *testing.T) {
	h, sm := newTestHandler(t)

	// Sign in first to obtain a real session cookie.
	loginRec := httptest.NewRecorder()
	loginReq := httptest.NewRequest(http.MethodPost, "/login", nil)
	if err := sm.CreateSession(loginRec, loginReq, primitive.NewObjectID(), "admin@test.com", "admin"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	cookies := loginRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie after CreateSession")
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	Routes(h).ServeHTTP(rec, req)

	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sm.SessionName() && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("expected the session cookie to be expired")
	}
}

func TestLogout_GetNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	Routes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
