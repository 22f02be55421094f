// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"time"

	"github.com/dalemusser/stratasite/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names for the two singleton documents.
const (
	SiteSettingsCollection = "site_settings"
	HomepageCollection     = "homepage"
)

// Doc is the constraint satisfied by singleton document pointers.
type Doc[T any] interface {
	*T
	Metadata() *models.Meta
	MarkSingleton()
}

// Store provides access to a collection holding exactly one document,
// identified by {singleton: true}. Reads create it from defaults when missing.
type Store[T any, PT Doc[T]] struct {
	c        *mongo.Collection
	defaults func() T
}

// NewSiteSettings returns the store for site settings.
func NewSiteSettings(db *mongo.Database) *Store[models.SiteSettings, *models.SiteSettings] {
	return &Store[models.SiteSettings, *models.SiteSettings]{
		c:        db.Collection(SiteSettingsCollection),
		defaults: models.DefaultSiteSettings,
	}
}

// NewHomepage returns the store for homepage content.
func NewHomepage(db *mongo.Database) *Store[models.Homepage, *models.Homepage] {
	return &Store[models.Homepage, *models.Homepage]{
		c:        db.Collection(HomepageCollection),
		defaults: models.DefaultHomepage,
	}
}

var singletonFilter = bson.M{"singleton": true}

// Get returns the singleton, inserting the defaults atomically if it does
// not exist yet.
func (s *Store[T, PT]) Get(ctx context.Context) (PT, error) {
	seed := s.defaults()
	now := time.Now().UTC()
	meta := PT(&seed).Metadata()
	meta.CreatedAt, meta.UpdatedAt = now, now
	PT(&seed).MarkSingleton()

	raw, err := bson.Marshal(seed)
	if err != nil {
		return nil, errors.Wrap(err, "marshal singleton defaults")
	}
	var onInsert bson.M
	if err := bson.Unmarshal(raw, &onInsert); err != nil {
		return nil, errors.Wrap(err, "unmarshal singleton defaults")
	}
	delete(onInsert, "_id")

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out T
	err = s.c.FindOneAndUpdate(ctx, singletonFilter, bson.M{"$setOnInsert": onInsert}, opts).Decode(&out)
	if wafflemongo.IsDup(err) {
		// Another request inserted it concurrently; the unique index kept one.
		err = s.c.FindOne(ctx, singletonFilter).Decode(&out)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", s.c.Name())
	}
	return &out, nil
}

// Save replaces the singleton content with doc, keeping its identity and
// creation time. It returns the stored document.
func (s *Store[T, PT]) Save(ctx context.Context, doc PT) (PT, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	cur := current.Metadata()
	meta := doc.Metadata()
	meta.ID = cur.ID
	meta.CreatedAt = cur.CreatedAt
	meta.UpdatedAt = time.Now().UTC()
	doc.MarkSingleton()

	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": meta.ID}, doc); err != nil {
		return nil, errors.Wrapf(err, "save %s", s.c.Name())
	}
	return doc, nil
}

// Name returns the backing collection name.
func (s *Store[T, PT]) Name() string {
	return s.c.Name()
}
