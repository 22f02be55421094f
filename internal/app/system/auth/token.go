package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned by Parse for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

const tokenTypeAccess = "access"

// TokenIssuer signs and verifies the bearer tokens used by API clients.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. An empty secret is a configuration error.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret must be provided")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}

// Issued is a signed token and the instant it stops being accepted.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Issue returns a signed HS256 token for the user.
func (ti *TokenIssuer) Issue(userID primitive.ObjectID, email, role string) (string, error) {
	iss, err := ti.IssueToken(userID, email, role)
	return iss.Token, err
}

// IssueToken is Issue that also reports the token's expiry.
func (ti *TokenIssuer) IssueToken(userID primitive.ObjectID, email, role string) (Issued, error) {
	now := ti.now()
	exp := now.Add(ti.ttl)
	claims := jwt.MapClaims{
		"sub":   userID.Hex(),
		"email": email,
		"role":  role,
		"type":  tokenTypeAccess,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return Issued{}, errors.Wrap(err, "sign token")
	}
	return Issued{Token: signed, ExpiresAt: time.Unix(exp.Unix(), 0).UTC()}, nil
}

// Parse verifies a token and returns the caller it identifies.
func (ti *TokenIssuer) Parse(raw string) (*SessionUser, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return ti.secret, nil
	}, jwt.WithTimeFunc(ti.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, errors.Wrap(ErrInvalidToken, errString(err))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != tokenTypeAccess {
		return nil, errors.Wrap(ErrInvalidToken, "wrong token type")
	}
	sub, _ := claims["sub"].(string)
	if _, err := primitive.ObjectIDFromHex(sub); err != nil {
		return nil, errors.Wrap(ErrInvalidToken, "bad subject")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &SessionUser{ID: sub, Email: email, Role: role, Token: raw}, nil
}

func errString(err error) string {
	if err == nil {
		return "not valid"
	}
	return err.Error()
}

// BearerOrSession admits callers holding either a valid bearer token or a
// session user with one of the allowed roles. A present but invalid bearer
// token is rejected even when a session exists.
func BearerOrSession(ti *TokenIssuer, logger *zap.Logger, allowed ...string) func(http.Handler) http.Handler {
	roleCheck := requireRole(allowed...)

	return func(next http.Handler) http.Handler {
		guarded := roleCheck(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				guarded.ServeHTTP(w, r)
				return
			}

			scheme, tok, ok := strings.Cut(raw, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
				writeJSONError(w, http.StatusUnauthorized, "Invalid Authorization header")
				return
			}

			u, err := ti.Parse(strings.TrimSpace(tok))
			if err != nil {
				logger.Debug("bearer token rejected",
					zap.Error(err),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr))
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			guarded.ServeHTTP(w, withUser(r, u))
		})
	}
}
