package jsonutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, "Blog created", map[string]any{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Blog created", body["message"])
	assert.Equal(t, map[string]any{"id": "abc"}, body["data"])
}

func TestFailEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		msg    string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "title.ar is required") }, http.StatusBadRequest, "title.ar is required"},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "Invalid credentials") }, http.StatusUnauthorized, "Invalid credentials"},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "Blog not found") }, http.StatusNotFound, "Blog not found"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "Something went wrong") }, http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.msg, body["message"])
			_, hasData := body["data"]
			assert.False(t, hasData)
		})
	}
}

func TestDecode(t *testing.T) {
	type input struct {
		Email string `json:"email"`
	}

	t.Run("valid", func(t *testing.T) {
		var in input
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com"}`))
		require.NoError(t, Decode(httptest.NewRecorder(), req, &in))
		assert.Equal(t, "a@example.com", in.Email)
	})

	t.Run("empty", func(t *testing.T) {
		var in input
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		assert.ErrorIs(t, Decode(httptest.NewRecorder(), req, &in), ErrEmptyBody)
	})

	t.Run("malformed", func(t *testing.T) {
		var in input
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		assert.Error(t, Decode(httptest.NewRecorder(), req, &in))
	})

	t.Run("trailing data", func(t *testing.T) {
		var in input
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com"} {"x":1}`))
		assert.Error(t, Decode(httptest.NewRecorder(), req, &in))
	})

	t.Run("too large", func(t *testing.T) {
		var in map[string]any
		big := `{"k":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
		assert.Error(t, Decode(httptest.NewRecorder(), req, &in))
	})
}
