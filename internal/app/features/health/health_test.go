package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/dalemusser/stratasite/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

// unreachableClient points at a port nothing listens on.
func unreachableClient(t *testing.T) *mongo.Client {
	t.Helper()
	c, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200*time.Millisecond))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = c.Disconnect(context.Background()) })
	return c
}

func TestCheck(t *testing.T) {
	db := testutil.SetupTestDB(t)

	tests := []struct {
		name     string
		optional Optional
		mail     string
		storage  string
	}{
		{"bare", Optional{}, "disabled", "disabled"},
		{"mail and s3", Optional{Mail: true, Storage: "s3"}, "configured", "s3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(db.Client(), tt.optional, zap.NewNop())
			rec := httptest.NewRecorder()
			h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var resp Response
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != "ok" || resp.Services["mongodb"] != "ok" {
				t.Errorf("resp = %+v, want ok with mongodb ok", resp)
			}
			if resp.Services["mail"] != tt.mail || resp.Services["storage"] != tt.storage {
				t.Errorf("services = %v, want mail=%s storage=%s", resp.Services, tt.mail, tt.storage)
			}
		})
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	t.Cleanup(timeouts.Reset)
	timeouts.Configure(timeouts.Config{Ping: 300 * time.Millisecond})

	h := NewHandler(unreachableClient(t), Optional{Mail: true}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", body["status"])
	}

	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200 even with the database down", rec.Code)
	}
}

func TestProbePaths(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), Optional{}, zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/health", Routes(h))
	MountRootEndpoints(r, h)

	tests := []struct {
		path   string
		status string
	}{
		{"/health/ready", "ready"},
		{"/health/live", "alive"},
		{"/ready", "ready"},
		{"/readyz", "ready"},
		{"/livez", "alive"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := decode(t, rec)["status"]; got != tt.status {
				t.Errorf("status = %v, want %s", got, tt.status)
			}
		})
	}
}
