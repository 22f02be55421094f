package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/stratasite/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fixture struct {
	d      *entitystore.Dispatcher
	tokens *auth.TokenIssuer
	router http.Handler
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	tokens, err := auth.NewTokenIssuer("test-token-secret", time.Hour)
	require.NoError(t, err)

	d := entitystore.NewDispatcher(entitystore.NewRegistry(db), logger)
	h := NewHandler(db, d, tokens, nil, logger)

	r := chi.NewRouter()
	r.Mount("/api", Routes(h, nil))
	return fixture{d: d, tokens: tokens, router: r}
}

func (f fixture) do(t *testing.T, method, target string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func (f fixture) user(t *testing.T, email, role string) {
	t.Helper()
	res := f.d.Create(context.Background(), "user", map[string]any{
		"name": "Someone", "email": email, "password": "correct-horse", "role": role,
	})
	require.True(t, res.Success, res.Message)
}

func (f fixture) adminToken(t *testing.T) string {
	t.Helper()
	tok, err := f.tokens.Issue(primitive.NewObjectID(), "admin@test.com", models.RoleAdmin)
	require.NoError(t, err)
	return tok
}

func TestRegister(t *testing.T) {
	f := setup(t)
	in := map[string]any{"name": "Sam", "email": "Sam@Example.com", "password": "long-enough"}

	rec, env := f.do(t, http.MethodPost, "/api/auth/register", in, "")
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	assert.True(t, env.Success)

	u, err := f.d.Registry().Users.FindOne(context.Background(), map[string]any{"email": "sam@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEmpty(t, u.PasswordHash)

	rec, env = f.do(t, http.MethodPost, "/api/auth/register", in, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "A user with this email already exists", env.Message)

	rec, env = f.do(t, http.MethodPost, "/api/auth/register", map[string]any{"name": "Kim", "email": "kim@example.com", "password": "short"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "at least 8")

	rec, _ = f.do(t, http.MethodPost, "/api/auth/register", nil, "")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestToken(t *testing.T) {
	f := setup(t)
	f.user(t, "admin@example.com", models.RoleAdmin)

	rec, env := f.do(t, http.MethodPost, "/api/auth/token", map[string]any{"email": "ADMIN@example.com", "password": "correct-horse"}, "")
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	var tok tokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.EqualValues(t, 3600, tok.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, tok.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)

	u, err := f.tokens.Parse(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	for _, in := range []map[string]any{
		{"email": "admin@example.com", "password": "wrong-horse"},
		{"email": "nobody@example.com", "password": "correct-horse"},
	} {
		rec, env := f.do(t, http.MethodPost, "/api/auth/token", in, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, InvalidCredentials, env.Message)
	}

	rec, env = f.do(t, http.MethodPost, "/api/auth/token", map[string]any{"email": "admin@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password is required.", env.Message)
}

func TestAdmin_RequiresAdmin(t *testing.T) {
	f := setup(t)

	rec, _ := f.do(t, http.MethodGet, "/api/admin/blog", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/admin/blog", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userTok, err := f.tokens.Issue(primitive.NewObjectID(), "user@test.com", models.RoleUser)
	require.NoError(t, err)
	rec, _ = f.do(t, http.MethodGet, "/api/admin/blog", nil, userTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdmin_SessionUser(t *testing.T) {
	f := setup(t)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/admin/category", testutil.AdminUser())
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdmin_RequiresJSONWrites(t *testing.T) {
	f := setup(t)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/category", strings.NewReader("name_en=Web"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestPublicWrites_RequireJSON(t *testing.T) {
	f := setup(t)
	for _, target := range []string{"/api/auth/register", "/api/auth/token", "/api/contact", "/api/subscribe"} {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader("email=a%40example.com"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code, target)
	}

	items, err := f.d.Registry().Subscribers.Find(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, items)

	// Charset parameters are fine.
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(`{"email":"b@example.com"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAdmin_CRUD(t *testing.T) {
	f := setup(t)
	tok := f.adminToken(t)

	rec, env := f.do(t, http.MethodPost, "/api/admin/category", map[string]any{"name_en": "Web", "name_ar": "ويب", "id": "ignored"}, tok)
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)

	rec, env = f.do(t, http.MethodGet, "/api/admin/category?search=we&searchField=name_en", nil, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items      []models.Category `json:"items"`
		Total      int64             `json:"total"`
		TotalPages int64             `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "web", page.Items[0].Slug)

	rec, env = f.do(t, http.MethodPut, "/api/admin/category/"+created.ID, map[string]any{"name_en": "Web apps", "name_ar": "ويب"}, tok)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	assert.Equal(t, "Category updated", env.Message)

	rec, env = f.do(t, http.MethodGet, "/api/admin/category/"+created.ID, nil, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Category
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Web apps", got.NameEN)

	rec, env = f.do(t, http.MethodDelete, "/api/admin/category/"+created.ID, nil, tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Category deleted", env.Message)

	rec, env = f.do(t, http.MethodDelete, "/api/admin/category/"+created.ID, nil, tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found", env.Message)

	rec, env = f.do(t, http.MethodGet, "/api/admin/widget", nil, tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Unknown entity: widget", env.Message)
}

func TestAdmin_DeleteMany(t *testing.T) {
	f := setup(t)
	tok := f.adminToken(t)
	var ids []string
	for _, n := range []string{"A", "B"} {
		res := f.d.Create(context.Background(), "subscriber", map[string]any{"email": n + "@example.com"})
		require.True(t, res.Success, res.Message)
		ids = append(ids, res.Data.(map[string]any)["id"].(string))
	}

	rec, env := f.do(t, http.MethodPost, "/api/admin/subscriber/delete", map[string]any{"ids": ids}, tok)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	assert.JSONEq(t, `{"deleted":2}`, string(env.Data))

	rec, _ = f.do(t, http.MethodPost, "/api/admin/subscriber/delete", map[string]any{"ids": ids}, tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/admin/subscriber/delete", map[string]any{"ids": []string{}}, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdmin_Singleton(t *testing.T) {
	f := setup(t)
	tok := f.adminToken(t)

	rec, env := f.do(t, http.MethodPut, "/api/admin/settings", map[string]any{
		"site_name": map[string]any{"en": "Acme", "ar": "أكمي"},
		"address":   map[string]any{"en": "Cairo", "ar": "القاهرة"},
	}, tok)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	rec, env = f.do(t, http.MethodGet, "/api/admin/settings/any", nil, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var s models.SiteSettings
	require.NoError(t, json.Unmarshal(env.Data, &s))
	assert.Equal(t, "Acme", s.SiteName.EN)
}

func TestContact(t *testing.T) {
	f := setup(t)

	rec, env := f.do(t, http.MethodPost, "/api/contact", map[string]any{
		"name": "  Dana  ", "email": "DANA@example.com", "message": "Hello", "handled": true,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)

	items, err := f.d.Registry().Contacts.Find(context.Background(), map[string]any{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "dana@example.com", items[0].Email)
	assert.False(t, items[0].Handled)

	rec, env = f.do(t, http.MethodPost, "/api/contact", map[string]any{"name": "Dana", "email": "dana@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestSubscribe(t *testing.T) {
	f := setup(t)
	rec, _ := f.do(t, http.MethodPost, "/api/subscribe", map[string]any{"email": "a@example.com", "locale": "ar"}, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, env := f.do(t, http.MethodPost, "/api/subscribe", map[string]any{"email": "A@example.com"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "This email is already subscribed", env.Message)
}

func TestPublicLists(t *testing.T) {
	f := setup(t)
	for i, title := range []string{"Second", "First"} {
		res := f.d.Create(context.Background(), "service", map[string]any{
			"title":        map[string]any{"en": title, "ar": "خدمة"},
			"icon":         "star",
			"order":        2 - i,
			"descriptions": []any{map[string]any{"en": "d", "ar": "و"}},
		})
		require.True(t, res.Success, res.Message)
	}

	rec, env := f.do(t, http.MethodGet, "/api/services", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var svcs []models.Service
	require.NoError(t, json.Unmarshal(env.Data, &svcs))
	require.Len(t, svcs, 2)
	assert.Equal(t, "First", svcs[0].Title.EN)

	for _, path := range []string{"/api/categories", "/api/team"} {
		rec, env := f.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, env.Success, path)
	}

	rec, _ = f.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
