// Package auth signs administrators in with a cookie session, issues bearer
// tokens for the JSON API and guards routes by role.
//
// Throughout, user ID means the hex of the user document's ObjectID.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/normalize"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultSessionName is used when no cookie name is configured.
	DefaultSessionName = "stratasite-session"

	// LoginPath is where unauthenticated browsers are sent.
	LoginPath = "/login"
	// ForbiddenPath is where signed-in users without the right role are sent.
	ForbiddenPath = "/forbidden"
)

// session value keys
const (
	keyUserID   = "uid"
	keyEmail    = "email"
	keyRole     = "role"
	keySignedAt = "signed_at"
)

// SessionManager owns the cookie store and the session middleware.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	logger  *zap.Logger
}

// ConfigError reports a session setting that cannot be used.
type ConfigError struct{ Reason string }

func (e *ConfigError) Error() string { return "session config: " + e.Reason }

// NewSessionManager builds the cookie store. In secure (production) mode a
// key shorter than 32 bytes or one that looks like a placeholder is refused;
// in development it only draws a warning.
func NewSessionManager(key, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if key == "" {
		return nil, &ConfigError{Reason: "session key is empty"}
	}
	if weak := len(key) < 32 || isDefaultKey(key); weak {
		if secure {
			return nil, &ConfigError{Reason: "session key must be 32+ random characters in production"}
		}
		logger.Warn("weak session key; fine for development only", zap.Int("length", len(key)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, name: name, logger: logger}, nil
}

// SessionName returns the cookie name.
func (sm *SessionManager) SessionName() string { return sm.name }

// UserFetcher loads the current state of a signed-in user. It returns nil
// when the user no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// SetUserFetcher makes LoadSessionUser re-read the user on each request.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// SessionUser is the authenticated caller, from a session cookie or a
// bearer token. Token holds the raw bearer token and is empty for cookies.
type SessionUser struct {
	ID    string
	Name  string
	Email string
	Role  string
	Token string
}

// UserID returns the ObjectID, or NilObjectID when ID is malformed.
func (u *SessionUser) UserID() primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

func (u *SessionUser) IsAdmin() bool { return normalize.Role(u.Role) == models.RoleAdmin }

type ctxKey struct{}

// CurrentUser returns the caller put in context by LoadSessionUser or
// BearerOrSession.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(ctxKey{}).(*SessionUser)
	return u, ok
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
}

// WithTestUser signs r in as u without a cookie.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request { return withUser(r, u) }

// CreateSession signs the user in on w.
func (sm *SessionManager) CreateSession(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, email, role string) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		// An unreadable cookie is replaced rather than reported.
		sess, _ = sm.store.New(r, sm.name)
	}
	sess.Values[keyUserID] = userID.Hex()
	sess.Values[keyEmail] = email
	sess.Values[keyRole] = role
	sess.Values[keySignedAt] = time.Now().Unix()
	return sess.Save(r, w)
}

// DestroySession signs the caller out and expires the cookie.
func (sm *SessionManager) DestroySession(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return
	}
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

// LoadSessionUser puts the signed-in user, if any, into the request context.
// With a UserFetcher the user is re-read on every request so a role change
// or deletion takes effect at once; a deleted user's session is cleared.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			sm.logCookieError(r, err)
		}
		uid, _ := sess.Values[keyUserID].(string)
		if uid == "" {
			next.ServeHTTP(w, r)
			return
		}

		if sm.fetcher == nil {
			email, _ := sess.Values[keyEmail].(string)
			role, _ := sess.Values[keyRole].(string)
			next.ServeHTTP(w, withUser(r, &SessionUser{ID: uid, Email: email, Role: role}))
			return
		}

		u := sm.fetcher.FetchUser(r.Context(), uid)
		if u == nil {
			sm.logger.Info("session dropped: user no longer exists", zap.String("user_id", uid))
			sess.Values = map[any]any{}
			_ = sess.Save(r, w)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

func (sm *SessionManager) logCookieError(r *http.Request, err error) {
	level, category := classifyCookieError(err)
	fields := []zap.Field{zap.String("category", category), zap.String("path", r.URL.Path)}
	if level >= zapcore.WarnLevel {
		fields = append(fields, zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
	}
	sm.logger.Check(level, "session cookie rejected; starting fresh").Write(fields...)
}

// classifyCookieError picks how loudly a bad cookie is logged. Expiry is
// routine; a MAC failure suggests tampering.
func classifyCookieError(err error) (zapcore.Level, string) {
	sc, ok := err.(securecookie.Error)
	if !ok || !sc.IsDecode() {
		return zapcore.ErrorLevel, "backend"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired timestamp"):
		return zapcore.DebugLevel, "expired"
	case strings.Contains(msg, "mac"), strings.Contains(msg, "hash"):
		return zapcore.WarnLevel, "mac_invalid"
	case strings.Contains(msg, "decrypt"):
		return zapcore.InfoLevel, "decrypt_failed"
	}
	return zapcore.InfoLevel, "decode_failed"
}

func isDefaultKey(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range []string{"dev-only", "change-me", "placeholder", "example", "insecure", "secret123", "password"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
