package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	"github.com/dalemusser/stratasite/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type fixture struct {
	d      *entitystore.Dispatcher
	router http.Handler
}

func setup(t *testing.T) fixture {
	t.Helper()
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	d := entitystore.NewDispatcher(entitystore.NewRegistry(db), logger)
	h := NewHandler(d, nil, errorsfeature.NewHandler(), errorsfeature.NewErrorLogger(logger), logger)

	r := chi.NewRouter()
	r.Mount("/{lang}", Routes(h))
	return fixture{d: d, router: r}
}

func (f fixture) create(t *testing.T, entity string, payload map[string]any) string {
	t.Helper()
	res := f.d.Create(context.Background(), entity, payload)
	require.True(t, res.Success, res.Message)
	return res.Data.(map[string]any)["id"].(string)
}

func (f fixture) get(target string) *httptest.ResponseRecorder {
	req := testutil.WithCSRFToken(httptest.NewRequest(http.MethodGet, target, nil))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f fixture) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithCSRFToken(req)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func blogPayload(title string, published, featured bool) map[string]any {
	return map[string]any{
		"title":       map[string]any{"en": title, "ar": "عنوان " + title},
		"description": map[string]any{"en": "About " + title, "ar": "حول " + title},
		"sections": []any{
			map[string]any{"type": "text", "order": 1, "content": map[string]any{"en": "<p>Body</p>", "ar": "<p>نص</p>"}},
		},
		"published": published,
		"featured":  featured,
	}
}

func TestUnsupportedLocale(t *testing.T) {
	f := setup(t)
	rec := f.get("/fr/services")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHome(t *testing.T) {
	f := setup(t)
	for _, l := range []string{"en", "ar"} {
		rec := f.get("/" + l)
		assert.Equal(t, http.StatusOK, rec.Code, l)
	}
	assert.Contains(t, f.get("/ar").Body.String(), `dir="rtl"`)
}

func TestServiceDetail(t *testing.T) {
	f := setup(t)
	f.create(t, "service", map[string]any{
		"title":        map[string]any{"en": "Web Apps", "ar": "تطبيقات الويب"},
		"icon":         "code",
		"descriptions": []any{map[string]any{"en": "We build them", "ar": "نبنيها"}},
	})

	en := f.get("/en/services/web-apps")
	assert.Equal(t, http.StatusOK, en.Code)
	assert.Contains(t, en.Body.String(), "Web Apps")

	ar := f.get("/ar/services/web-apps")
	assert.Contains(t, ar.Body.String(), "تطبيقات الويب")

	assert.Equal(t, http.StatusNotFound, f.get("/en/services/nope").Code)
}

func TestBlogList_PublishedFeaturedFirst(t *testing.T) {
	f := setup(t)
	f.create(t, "blog", blogPayload("Old featured", true, true))
	f.create(t, "blog", blogPayload("Newer post", true, false))
	f.create(t, "blog", blogPayload("Secret draft", false, false))

	rec := f.get("/en/blog")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.NotContains(t, body, "Secret draft")
	i, j := strings.Index(body, "Old featured"), strings.Index(body, "Newer post")
	require.True(t, i >= 0 && j >= 0, "both published posts listed")
	assert.Less(t, i, j, "featured post leads page 1")
}

func TestBlogPost_DraftNotFound(t *testing.T) {
	f := setup(t)
	f.create(t, "blog", blogPayload("Live", true, false))
	f.create(t, "blog", blogPayload("Draft", false, false))

	assert.Equal(t, http.StatusOK, f.get("/en/blog/live").Code)
	assert.Equal(t, http.StatusNotFound, f.get("/en/blog/draft").Code)
}

func TestPortfolio_CategoryFilter(t *testing.T) {
	f := setup(t)
	web := f.create(t, "category", map[string]any{"name_en": "Web", "name_ar": "ويب"})
	mob := f.create(t, "category", map[string]any{"name_en": "Mobile", "name_ar": "جوال"})
	f.create(t, "product", map[string]any{
		"project_name": "Atlas", "cover_image": "/media/a.png", "category": web,
		"description": map[string]any{"en": "Maps", "ar": "خرائط"},
	})
	f.create(t, "product", map[string]any{
		"project_name": "Pocket", "cover_image": "/media/p.png", "category": mob,
		"description": map[string]any{"en": "App", "ar": "تطبيق"},
	})

	all := f.get("/en/portfolio").Body.String()
	assert.Contains(t, all, "Atlas")
	assert.Contains(t, all, "Pocket")

	webOnly := f.get("/en/portfolio?category=web").Body.String()
	assert.Contains(t, webOnly, "Atlas")
	assert.NotContains(t, webOnly, "Pocket")

	assert.Equal(t, http.StatusNotFound, f.get("/en/portfolio?category=unknown").Code)

	detail := f.get("/ar/portfolio/atlas")
	assert.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), "ويب")
}

func TestContactSubmit(t *testing.T) {
	f := setup(t)

	rec := f.post("/en/contact", url.Values{
		"name": {"Sara"}, "email": {"sara@example.com"}, "message": {"Hello"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/en/contact?sent=1", rec.Header().Get("Location"))

	n, err := f.d.Registry().Contacts.Count(context.Background(), bson.M{"email": "sara@example.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	bad := f.post("/en/contact", url.Values{"name": {"Sara"}, "email": {"not-an-email"}, "message": {"Hello"}})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Contains(t, bad.Body.String(), "email must be a valid email address")
	assert.Contains(t, bad.Body.String(), `value="Sara"`, "form keeps submitted values")
}

func TestSubscribe_Duplicate(t *testing.T) {
	f := setup(t)

	first := f.post("/en/subscribe", url.Values{"email": {"News@Example.com"}})
	assert.Equal(t, http.StatusOK, first.Code)

	again := f.post("/en/subscribe", url.Values{"email": {"news@example.com"}})
	assert.Equal(t, http.StatusConflict, again.Code)
	assert.Contains(t, again.Body.String(), "This email is already subscribed")
}
