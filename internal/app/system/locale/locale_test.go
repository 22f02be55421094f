package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"no header", "", "", EN},
		{"arabic header", "ar-SA,ar;q=0.9,en;q=0.5", "", AR},
		{"english header", "en-US,en;q=0.9", "", EN},
		{"unsupported header", "fr-FR,fr;q=0.9", "", EN},
		{"cookie wins", "en-US", AR, AR},
		{"bad cookie ignored", "ar", "de", AR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Accept-Language", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if got := Negotiate(r, EN); got != tt.want {
				t.Errorf("Negotiate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSwitchPath(t *testing.T) {
	tests := []struct {
		path, target, want string
	}{
		{"/en", AR, "/ar"},
		{"/en/blog/hello", AR, "/ar/blog/hello"},
		{"/ar/services", EN, "/en/services"},
		{"/", AR, "/ar"},
		{"/blog", EN, "/en/blog"},
	}
	for _, tt := range tests {
		if got := SwitchPath(tt.path, tt.target); got != tt.want {
			t.Errorf("SwitchPath(%q, %q) = %q, want %q", tt.path, tt.target, got, tt.want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	var seen string
	r := chi.NewRouter()
	r.Route("/{lang}", func(r chi.Router) {
		r.Use(Middleware)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			seen = FromContext(r.Context())
		})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ar/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen != AR {
		t.Errorf("locale = %q, want %q", seen, AR)
	}
	if c := rec.Result().Cookies(); len(c) == 0 || c[0].Value != AR {
		t.Errorf("expected lang cookie set to ar, got %v", c)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fr/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unsupported locale", rec.Code)
	}
}

func TestRedirectRoot(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "ar")
	rec := httptest.NewRecorder()
	RedirectRoot(EN)(rec, r)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/ar" {
		t.Errorf("Location = %q, want /ar", loc)
	}
}

func TestDirAndLabels(t *testing.T) {
	if Dir(AR) != "rtl" || Dir(EN) != "ltr" {
		t.Error("Dir returned wrong direction")
	}
	if Labels(AR)["nav.home"] != "الرئيسية" {
		t.Error("Arabic label missing")
	}
	if Labels(EN)["nav.home"] != "Home" {
		t.Error("English label missing")
	}
}
