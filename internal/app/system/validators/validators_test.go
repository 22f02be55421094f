package validators

import (
	"errors"
	"testing"

	"github.com/dalemusser/stratasite/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureAll_CreatesEveryCollection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	require.NoError(t, db.Drop(ctx))
	require.NoError(t, EnsureAll(ctx, db))
	require.NoError(t, EnsureAll(ctx, db), "second run must be a no-op")

	names, err := db.ListCollectionNames(ctx, bson.M{})
	require.NoError(t, err)
	for _, c := range collections {
		assert.Contains(t, names, c.name)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errKind
	}{
		{"nil", nil, errOther},
		{"generic", errors.New("connection reset"), errOther},
		{"code 48", mongo.CommandError{Code: 48, Message: "x"}, errExists},
		{"already exists text", errors.New("Collection already exists. NS: site.blogs"), errExists},
		{"code 59", mongo.CommandError{Code: 59, Message: "x"}, errUnsupported},
		{"code 115", mongo.CommandError{Code: 115, Message: "x"}, errUnsupported},
		{"documentdb text", errors.New("Feature not supported: collMod"), errUnsupported},
		{"no such command", errors.New("no such command: 'collMod'"), errUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestValidators_RejectBadDocuments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, EnsureAll(ctx, db))

	pair := func(en, ar string) bson.M { return bson.M{"en": en, "ar": ar} }

	tests := []struct {
		name  string
		coll  string
		doc   bson.M
		valid bool
	}{
		{"blog", "blogs", bson.M{
			"title": pair("Hello", "مرحبا"), "description": pair("d", "و"), "slug": "hello",
			"sections": bson.A{bson.M{"type": "text", "order": 0, "content": pair("x", "س")}},
		}, true},
		{"blog with blank Arabic title", "blogs", bson.M{
			"title": pair("Hello", "   "), "description": pair("d", "و"), "slug": "hello-2",
			"sections": bson.A{bson.M{"type": "text", "order": 0}},
		}, false},
		{"blog with no sections", "blogs", bson.M{
			"title": pair("Hello", "مرحبا"), "description": pair("d", "و"), "slug": "hello-3",
			"sections": bson.A{},
		}, false},
		{"blog with unknown section type", "blogs", bson.M{
			"title": pair("Hello", "مرحبا"), "description": pair("d", "و"), "slug": "hello-4",
			"sections": bson.A{bson.M{"type": "video"}},
		}, false},
		{"user with unknown role", "users", bson.M{
			"email": "a@example.com", "password_hash": "h", "role": "owner",
		}, false},
		{"product category not an id", "products", bson.M{
			"project_name": "App", "description": pair("d", "و"), "cover_image": "/media/a.png",
			"slug": "app", "category": "web",
		}, false},
		{"product", "products", bson.M{
			"project_name": "App", "description": pair("d", "و"), "cover_image": "/media/a.png",
			"slug": "app-1", "category": primitive.NewObjectID(),
		}, true},
		{"contact without message", "contact_us", bson.M{"name": "Sara", "email": "s@example.com"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
