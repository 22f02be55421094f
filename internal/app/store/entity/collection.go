// internal/app/store/entity/collection.go
package entitystore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/stratasite/internal/app/store/storeutil"
	"github.com/dalemusser/stratasite/internal/app/system/docval"
	"github.com/dalemusser/stratasite/internal/app/system/slug"
	"github.com/dalemusser/stratasite/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Doc is the constraint satisfied by entity document pointers.
type Doc[T any] interface {
	*T
	Metadata() *models.Meta
}

type slugPolicy int

const (
	slugNone    slugPolicy = iota
	slugCounter            // derived slugs take the first free of base, base-1, ...
	slugStrict             // any collision is a failure
)

// Hook runs against a document before it is written. prev is the stored
// document on update and nil on create.
type Hook[T any, PT Doc[T]] func(ctx context.Context, doc, prev PT) error

// Collection is a typed store for one entity collection.
//
// Writes run in a fixed order: prepare (normalization), docval.Validate,
// check (cross-document rules and derived fields), slug assignment, then the
// insert or replace. A duplicate-key error from a unique index is mapped to
// the message registered for that index.
type Collection[T any, PT Doc[T]] struct {
	kind        Kind
	c           *mongo.Collection
	slugs       slugPolicy
	dupMessages map[string]string
	sort        bson.D
	searchField string
	prepare     Hook[T, PT]
	check       Hook[T, PT]
	lister      func(ctx context.Context, filter bson.M, skip, limit int64) (any, error)
}

func newCollection[T any, PT Doc[T]](db *mongo.Database, kind Kind, name string) *Collection[T, PT] {
	return &Collection[T, PT]{
		kind:        kind,
		c:           db.Collection(name),
		dupMessages: map[string]string{},
		sort:        bson.D{{Key: "created_at", Value: -1}},
	}
}

// Kind returns the entity kind stored here.
func (c *Collection[T, PT]) Kind() Kind { return c.kind }

// Name returns the backing collection name.
func (c *Collection[T, PT]) Name() string { return c.c.Name() }

func (c *Collection[T, PT]) slugMessage() string {
	return "A " + strings.ToLower(c.kind.Label()) + " with this slug already exists"
}

// Decode builds a document from a payload, ignoring server-owned keys.
func (c *Collection[T, PT]) Decode(payload map[string]any) (PT, error) {
	doc := PT(new(T))
	if err := decode(payload, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Insert stores doc as a new document with a fresh id and timestamps.
func (c *Collection[T, PT]) Insert(ctx context.Context, doc PT) (PT, error) {
	now := time.Now().UTC()
	meta := doc.Metadata()
	meta.ID = primitive.NewObjectID()
	meta.CreatedAt, meta.UpdatedAt = now, now

	if err := c.beforeWrite(ctx, doc, nil); err != nil {
		return nil, err
	}
	if _, err := c.c.InsertOne(ctx, doc); err != nil {
		return nil, c.writeErr(err, "insert")
	}
	return doc, nil
}

// Replace overwrites the document with id by doc. The id and creation time
// of the stored document are kept.
func (c *Collection[T, PT]) Replace(ctx context.Context, id primitive.ObjectID, doc PT) (PT, error) {
	prev, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := doc.Metadata()
	meta.ID = id
	meta.CreatedAt = prev.Metadata().CreatedAt
	meta.UpdatedAt = time.Now().UTC()

	if err := c.beforeWrite(ctx, doc, prev); err != nil {
		return nil, err
	}
	res, err := c.c.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return nil, c.writeErr(err, "replace")
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (c *Collection[T, PT]) beforeWrite(ctx context.Context, doc, prev PT) error {
	if c.prepare != nil {
		if err := c.prepare(ctx, doc, prev); err != nil {
			return err
		}
	}
	if err := docval.Validate(doc); err != nil {
		return err
	}
	if c.check != nil {
		if err := c.check(ctx, doc, prev); err != nil {
			return err
		}
	}
	return c.assignSlug(ctx, doc)
}

// assignSlug derives the slug server-side. A caller-supplied slug is
// normalized and must be free; otherwise the slug comes from the document's
// name field.
func (c *Collection[T, PT]) assignSlug(ctx context.Context, doc PT) error {
	s, ok := any(doc).(models.Slugged)
	if !ok || c.slugs == slugNone {
		return nil
	}
	ref := s.SlugRef()
	explicit := strings.TrimSpace(*ref) != ""
	base := slug.Make(s.SlugSource())
	if explicit {
		base = slug.Make(*ref)
	}
	if base == "" {
		return docval.Invalid("slug", "slug is required")
	}

	self := doc.Metadata().ID
	taken := func(ctx context.Context, candidate string) (bool, error) {
		return c.exists(ctx, bson.M{"slug": candidate}, self)
	}

	if explicit || c.slugs == slugStrict {
		used, err := taken(ctx, base)
		if err != nil {
			return errors.Wrap(err, "check slug")
		}
		if used {
			return duplicate(c.slugMessage())
		}
		*ref = base
		return nil
	}

	free, err := slug.Unique(ctx, base, taken)
	if err != nil {
		return errors.Wrap(err, "derive slug")
	}
	*ref = free
	return nil
}

// exists reports whether a document other than self matches filter.
func (c *Collection[T, PT]) exists(ctx context.Context, filter bson.M, self primitive.ObjectID) (bool, error) {
	if !self.IsZero() {
		filter["_id"] = bson.M{"$ne": self}
	}
	n, err := c.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Collection[T, PT]) writeErr(err error, op string) error {
	if wafflemongo.IsDup(err) {
		msg := err.Error()
		for index, m := range c.dupMessages {
			if strings.Contains(msg, index) {
				return duplicate(m)
			}
		}
		return duplicate("A " + strings.ToLower(c.kind.Label()) + " with these values already exists")
	}
	return errors.Wrapf(err, "%s %s", op, c.c.Name())
}

// Get returns the document with id.
func (c *Collection[T, PT]) Get(ctx context.Context, id primitive.ObjectID) (PT, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

// GetBySlug returns the document with slug.
func (c *Collection[T, PT]) GetBySlug(ctx context.Context, s string) (PT, error) {
	return c.FindOne(ctx, bson.M{"slug": s})
}

// FindOne returns the first document matching filter, or ErrNotFound.
func (c *Collection[T, PT]) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (PT, error) {
	doc := PT(new(T))
	if err := c.c.FindOne(ctx, filter, opts...).Decode(doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find %s", c.c.Name())
	}
	return doc, nil
}

// Find returns every document matching filter. Without a sort option the
// collection's default order applies.
func (c *Collection[T, PT]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	if len(opts) == 0 {
		opts = []*options.FindOptions{options.Find().SetSort(c.sort)}
	}
	cur, err := c.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s", c.c.Name())
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", c.c.Name())
	}
	return out, nil
}

// Count returns the number of documents matching filter.
func (c *Collection[T, PT]) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	n, err := c.c.CountDocuments(ctx, filter)
	return n, errors.Wrapf(err, "count %s", c.c.Name())
}

// Delete removes the document with id.
func (c *Collection[T, PT]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "delete %s", c.c.Name())
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes every document whose id is in ids. Removing nothing is
// ErrNotFound.
func (c *Collection[T, PT]) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	res, err := c.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, errors.Wrapf(err, "delete %s", c.c.Name())
	}
	if res.DeletedCount == 0 {
		return 0, ErrNotFound
	}
	return res.DeletedCount, nil
}

// ListParams selects one page of a listing with an optional search.
type ListParams struct {
	Page        int64
	Limit       int64
	Search      string
	SearchField string
}

// Page is one page of a listing.
type Page struct {
	Items      any   `json:"items"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// searchFieldRE allows a field name with at most one dotted sub-field.
var searchFieldRE = regexp.MustCompile(`^[a-z_]+(\.[a-z_]+)?$`)

// SearchFilter builds a case-insensitive substring filter on field. An empty
// term matches everything.
func SearchFilter(field, term string) (bson.M, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return bson.M{}, nil
	}
	if !searchFieldRE.MatchString(field) || field == "password_hash" {
		return nil, docval.Invalid("searchField", "invalid search field: "+field)
	}
	return bson.M{field: primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}, nil
}

// List returns one page. The count runs before the page query.
func (c *Collection[T, PT]) List(ctx context.Context, p ListParams) (Page, error) {
	page, limit := storeutil.Normalize(p.Page, p.Limit)
	field := p.SearchField
	if field == "" {
		field = c.searchField
	}
	filter, err := SearchFilter(field, p.Search)
	if err != nil {
		return Page{}, err
	}

	total, err := c.Count(ctx, filter)
	if err != nil {
		return Page{}, err
	}

	skip := storeutil.Skip(page, limit)
	var items any
	if c.lister != nil {
		items, err = c.lister(ctx, filter, skip, limit)
	} else {
		items, err = c.Find(ctx, filter, storeutil.Paginate(limit, page).SetSort(c.sort))
	}
	if err != nil {
		return Page{}, err
	}

	return Page{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: storeutil.TotalPages(total, limit),
	}, nil
}
