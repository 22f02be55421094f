package entitystore

import (
	"testing"

	"github.com/dalemusser/stratasite/internal/app/system/docval"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecode_FormStrings(t *testing.T) {
	cat := primitive.NewObjectID()
	var p models.Product
	err := decode(map[string]any{
		"id":           primitive.NewObjectID().Hex(),
		"created_at":   "2020-01-01T00:00:00Z",
		"project_name": "Acme",
		"description":  map[string]any{"en": "E", "ar": "ع"},
		"category":     cat.Hex(),
		"featured":     "true",
		"images":       []any{"/media/a.png", "/media/b.png"},
		"links":        []any{map[string]any{"label": "Site", "url": "https://acme.test"}},
	}, &p)
	require.NoError(t, err)

	assert.True(t, p.ID.IsZero(), "client id is ignored")
	assert.True(t, p.CreatedAt.IsZero(), "client timestamps are ignored")
	assert.Equal(t, "Acme", p.ProjectName)
	assert.Equal(t, cat, p.Category)
	assert.True(t, p.Featured)
	assert.Equal(t, []string{"/media/a.png", "/media/b.png"}, p.Images)
	assert.Equal(t, "https://acme.test", p.Links[0].URL)
}

func TestDecode_BlankReference(t *testing.T) {
	var p models.Product
	require.NoError(t, decode(map[string]any{"category": ""}, &p))
	assert.True(t, p.Category.IsZero())
}

func TestDecode_BadReference(t *testing.T) {
	var c models.ContactUs
	err := decode(map[string]any{"services": []any{"not-an-id"}}, &c)
	require.Error(t, err)
	_, ok := docval.AsValidation(err)
	assert.True(t, ok)
}

func TestDecode_IgnoresPasswordHash(t *testing.T) {
	var u models.User
	require.NoError(t, decode(map[string]any{"email": "a@b.c", "password_hash": "x", "password": "secret123"}, &u))
	assert.Empty(t, u.PasswordHash)
	assert.Equal(t, "secret123", u.Password)
}

func TestSearchFilter(t *testing.T) {
	f, err := SearchFilter("title.en", "")
	require.NoError(t, err)
	assert.Empty(t, f)

	f, err = SearchFilter("title.en", "a+b")
	require.NoError(t, err)
	assert.Equal(t, primitive.Regex{Pattern: `a\+b`, Options: "i"}, f["title.en"])

	for _, bad := range []string{"a.b.c", "$where", "Title", "password_hash"} {
		_, err := SearchFilter(bad, "x")
		assert.Error(t, err, bad)
	}
}
