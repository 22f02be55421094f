// internal/app/store/entity/registry.go
package entitystore

import (
	"context"
	"time"

	settingsstore "github.com/dalemusser/stratasite/internal/app/store/settings"
	"github.com/dalemusser/stratasite/internal/app/system/docval"
	"github.com/dalemusser/stratasite/internal/app/system/indexes"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names.
const (
	BlogsCollection       = "blogs"
	ProductsCollection    = "products"
	ServicesCollection    = "services"
	CategoriesCollection  = "categories"
	TeamCollection        = "team"
	ContactCollection     = "contact_us"
	SubscribersCollection = "subscribers"
	UsersCollection       = "users"
)

// Stamp is the identity and timestamps of a written document.
type Stamp struct {
	ID        primitive.ObjectID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func stampOf(m *models.Meta) Stamp {
	return Stamp{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// handle is the untyped surface the Dispatcher drives.
type handle interface {
	create(ctx context.Context, payload map[string]any) (Stamp, error)
	update(ctx context.Context, id primitive.ObjectID, payload map[string]any) (Stamp, error)
	remove(ctx context.Context, id primitive.ObjectID) error
	removeMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	get(ctx context.Context, id primitive.ObjectID) (any, error)
	list(ctx context.Context, p ListParams) (Page, error)
	count(ctx context.Context) (int64, error)
	draft(payload map[string]any) any
}

func (c *Collection[T, PT]) create(ctx context.Context, payload map[string]any) (Stamp, error) {
	doc, err := c.Decode(payload)
	if err != nil {
		return Stamp{}, err
	}
	if _, err := c.Insert(ctx, doc); err != nil {
		return Stamp{}, err
	}
	return stampOf(doc.Metadata()), nil
}

func (c *Collection[T, PT]) update(ctx context.Context, id primitive.ObjectID, payload map[string]any) (Stamp, error) {
	doc, err := c.Decode(payload)
	if err != nil {
		return Stamp{}, err
	}
	if _, err := c.Replace(ctx, id, doc); err != nil {
		return Stamp{}, err
	}
	return stampOf(doc.Metadata()), nil
}

func (c *Collection[T, PT]) remove(ctx context.Context, id primitive.ObjectID) error {
	return c.Delete(ctx, id)
}

func (c *Collection[T, PT]) removeMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	return c.DeleteMany(ctx, ids)
}

func (c *Collection[T, PT]) get(ctx context.Context, id primitive.ObjectID) (any, error) {
	return c.Get(ctx, id)
}

func (c *Collection[T, PT]) list(ctx context.Context, p ListParams) (Page, error) {
	return c.List(ctx, p)
}

func (c *Collection[T, PT]) count(ctx context.Context) (int64, error) {
	return c.Count(ctx, nil)
}

func (c *Collection[T, PT]) draft(payload map[string]any) any {
	doc := PT(new(T))
	_ = decode(payload, doc)
	return doc
}

// singleton adapts a find-or-create store. Create and update both save the
// one document; ids are ignored.
type singleton[T any, PT settingsstore.Doc[T]] struct {
	store *settingsstore.Store[T, PT]
}

func (s singleton[T, PT]) save(ctx context.Context, payload map[string]any) (Stamp, error) {
	doc := PT(new(T))
	if err := decode(payload, doc); err != nil {
		return Stamp{}, err
	}
	if err := docval.Validate(doc); err != nil {
		return Stamp{}, err
	}
	saved, err := s.store.Save(ctx, doc)
	if err != nil {
		return Stamp{}, err
	}
	return stampOf(saved.Metadata()), nil
}

func (s singleton[T, PT]) create(ctx context.Context, payload map[string]any) (Stamp, error) {
	return s.save(ctx, payload)
}

func (s singleton[T, PT]) update(ctx context.Context, _ primitive.ObjectID, payload map[string]any) (Stamp, error) {
	return s.save(ctx, payload)
}

func (s singleton[T, PT]) remove(context.Context, primitive.ObjectID) error {
	return ErrNotDeletable
}

func (s singleton[T, PT]) removeMany(context.Context, []primitive.ObjectID) (int64, error) {
	return 0, ErrNotDeletable
}

func (s singleton[T, PT]) get(ctx context.Context, _ primitive.ObjectID) (any, error) {
	return s.store.Get(ctx)
}

func (s singleton[T, PT]) list(ctx context.Context, _ ListParams) (Page, error) {
	doc, err := s.store.Get(ctx)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: []any{doc}, Page: 1, Limit: 1, Total: 1, TotalPages: 1}, nil
}

func (s singleton[T, PT]) count(context.Context) (int64, error) {
	return 1, nil
}

func (s singleton[T, PT]) draft(payload map[string]any) any {
	doc := PT(new(T))
	_ = decode(payload, doc)
	return doc
}

// Registry maps every Kind to its store. Build it once at startup.
type Registry struct {
	Blogs       *Collection[models.Blog, *models.Blog]
	Products    *Collection[models.Product, *models.Product]
	Services    *Collection[models.Service, *models.Service]
	Categories  *Collection[models.Category, *models.Category]
	Team        *Collection[models.TeamMember, *models.TeamMember]
	Contacts    *Collection[models.ContactUs, *models.ContactUs]
	Subscribers *Collection[models.Subscriber, *models.Subscriber]
	Users       *Collection[models.User, *models.User]
	Settings    *settingsstore.Store[models.SiteSettings, *models.SiteSettings]
	Homepage    *settingsstore.Store[models.Homepage, *models.Homepage]

	handles map[Kind]handle
}

// NewRegistry wires the collections, hooks and duplicate-key messages.
func NewRegistry(db *mongo.Database) *Registry {
	r := &Registry{
		Blogs:       newCollection[models.Blog](db, KindBlog, BlogsCollection),
		Products:    newCollection[models.Product](db, KindProduct, ProductsCollection),
		Services:    newCollection[models.Service](db, KindService, ServicesCollection),
		Categories:  newCollection[models.Category](db, KindCategory, CategoriesCollection),
		Team:        newCollection[models.TeamMember](db, KindTeam, TeamCollection),
		Contacts:    newCollection[models.ContactUs](db, KindContact, ContactCollection),
		Subscribers: newCollection[models.Subscriber](db, KindSubscriber, SubscribersCollection),
		Users:       newCollection[models.User](db, KindUser, UsersCollection),
		Settings:    settingsstore.NewSiteSettings(db),
		Homepage:    settingsstore.NewHomepage(db),
	}

	r.Blogs.slugs = slugCounter
	r.Blogs.searchField = "title.en"
	r.Blogs.prepare = prepareBlog
	r.Blogs.dupMessages[indexes.UniqBlogsSlug] = r.Blogs.slugMessage()

	r.Products.slugs = slugCounter
	r.Products.searchField = "project_name"
	r.Products.prepare = prepareProduct
	r.Products.check = checkProductCategory(r.Categories)
	r.Products.lister = r.listProductsWithCategory
	r.Products.dupMessages[indexes.UniqProductsSlug] = r.Products.slugMessage()

	r.Services.slugs = slugCounter
	r.Services.searchField = "title.en"
	r.Services.sort = bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}
	r.Services.prepare = prepareService
	r.Services.dupMessages[indexes.UniqServicesSlug] = r.Services.slugMessage()

	r.Categories.slugs = slugStrict
	r.Categories.searchField = "name_en"
	r.Categories.sort = bson.D{{Key: "name_en", Value: 1}}
	r.Categories.prepare = prepareCategory
	r.Categories.check = checkCategoryNames(r.Categories)
	r.Categories.dupMessages[indexes.UniqCategoriesNameEN] = "A category with this English name already exists"
	r.Categories.dupMessages[indexes.UniqCategoriesNameAR] = "A category with this Arabic name already exists"
	r.Categories.dupMessages[indexes.UniqCategoriesSlug] = r.Categories.slugMessage()

	r.Team.searchField = "name.en"
	r.Team.sort = bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}}
	r.Team.prepare = prepareTeam

	r.Contacts.searchField = "email"
	r.Contacts.prepare = prepareContact

	r.Subscribers.searchField = "email"
	r.Subscribers.prepare = prepareSubscriber
	r.Subscribers.dupMessages[indexes.UniqSubscribersEmail] = "This email is already subscribed"

	r.Users.searchField = "email"
	r.Users.prepare = prepareUser
	r.Users.check = hashUserPassword
	r.Users.dupMessages[indexes.UniqUsersEmail] = "A user with this email already exists"

	r.handles = map[Kind]handle{
		KindBlog:       r.Blogs,
		KindProduct:    r.Products,
		KindService:    r.Services,
		KindCategory:   r.Categories,
		KindTeam:       r.Team,
		KindContact:    r.Contacts,
		KindSubscriber: r.Subscribers,
		KindUser:       r.Users,
		KindSettings:   singleton[models.SiteSettings, *models.SiteSettings]{store: r.Settings},
		KindHomepage:   singleton[models.Homepage, *models.Homepage]{store: r.Homepage},
	}
	return r
}

func (r *Registry) handle(k Kind) (handle, error) {
	h, ok := r.handles[k]
	if !ok {
		return nil, ErrUnknownEntity
	}
	return h, nil
}

// Count returns the number of documents of kind k.
func (r *Registry) Count(ctx context.Context, k Kind) (int64, error) {
	h, err := r.handle(k)
	if err != nil {
		return 0, err
	}
	return h.count(ctx)
}

// ProductsWithCategory returns products matching filter joined to their
// category, newest first.
func (r *Registry) ProductsWithCategory(ctx context.Context, filter bson.M, skip, limit int64) ([]models.ProductWithCategory, error) {
	if filter == nil {
		filter = bson.M{}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: r.Products.sort}},
		{{Key: "$skip", Value: skip}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CategoriesCollection},
			{Key: "localField", Value: "category"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "category_doc"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$category_doc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	)

	cur, err := r.Products.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate products")
	}
	defer cur.Close(ctx)

	out := []models.ProductWithCategory{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return out, nil
}

func (r *Registry) listProductsWithCategory(ctx context.Context, filter bson.M, skip, limit int64) (any, error) {
	return r.ProductsWithCategory(ctx, filter, skip, limit)
}
