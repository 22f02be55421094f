// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Unique index names. The entity store maps duplicate-key errors on these
// names to user-facing messages.
const (
	UniqUsersEmail       = "uniq_users_email"
	UniqBlogsSlug        = "uniq_blogs_slug"
	UniqProductsSlug     = "uniq_products_slug"
	UniqServicesSlug     = "uniq_services_slug"
	UniqCategoriesSlug   = "uniq_categories_slug"
	UniqCategoriesNameEN = "uniq_categories_name_en"
	UniqCategoriesNameAR = "uniq_categories_name_ar"
	UniqSubscribersEmail = "uniq_subscribers_email"
)

func unique(field, name string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(name),
	}
}

func plain(name string, keys ...bson.E) mongo.IndexModel {
	return mongo.IndexModel{Keys: bson.D(keys), Options: options.Index().SetName(name)}
}

// singleton allows at most one {singleton: true} document.
func singleton(coll string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "singleton", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"singleton": true}).
			SetName("uniq_" + coll + "_singleton"),
	}
}

func asc(f string) bson.E  { return bson.E{Key: f, Value: 1} }
func desc(f string) bson.E { return bson.E{Key: f, Value: -1} }

// desired is every index the handlers rely on, per collection.
func desired() []struct {
	coll   string
	models []mongo.IndexModel
} {
	return []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{"users", []mongo.IndexModel{
			unique("email", UniqUsersEmail),
			plain("idx_users_role_created", asc("role"), desc("created_at")),
		}},
		{"blogs", []mongo.IndexModel{
			unique("slug", UniqBlogsSlug),
			plain("idx_blogs_published_created", asc("published"), desc("created_at")),
			plain("idx_blogs_tags", asc("tags")),
		}},
		{"products", []mongo.IndexModel{
			unique("slug", UniqProductsSlug),
			plain("idx_products_category_created", asc("category"), desc("created_at")),
		}},
		{"services", []mongo.IndexModel{
			unique("slug", UniqServicesSlug),
			plain("idx_services_order", asc("order")),
		}},
		{"categories", []mongo.IndexModel{
			unique("slug", UniqCategoriesSlug),
			unique("name_en", UniqCategoriesNameEN),
			unique("name_ar", UniqCategoriesNameAR),
		}},
		{"team", []mongo.IndexModel{plain("idx_team_order", asc("order"))}},
		{"contact_us", []mongo.IndexModel{plain("idx_contact_handled_created", asc("handled"), desc("created_at"))}},
		{"subscribers", []mongo.IndexModel{unique("email", UniqSubscribersEmail)}},
		{"site_settings", []mongo.IndexModel{singleton("site_settings")}},
		{"homepage", []mongo.IndexModel{singleton("homepage")}},
	}
}

// EnsureAll reconciles every collection's indexes. It runs on each start;
// problems from all collections are joined so startup fails with the full
// list.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, set := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(set.coll), set.models); err != nil {
			problems = append(problems, set.coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique,omitempty"`
}

// keySig identifies an index by its key pattern, since the same keys may
// exist under a different name from an older release.
func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ",")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	var all []existingIndex
	if err := cur.All(ctx, &all); err != nil {
		return nil, err
	}
	bySig := make(map[string]existingIndex, len(all))
	for _, idx := range all {
		bySig[keySig(idx.Key)] = idx
	}
	return bySig, nil
}

// ensureIndexSet creates each missing index. An index with the same keys but
// a different unique flag is dropped and rebuilt.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to compare.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		wantUnique := m.Options.Unique != nil && *m.Options.Unique
		sig := keySig(m.Keys.(bson.D))
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("index", name),
			zap.String("keys", sig),
		)
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if ex.Unique == wantUnique {
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s: %v", name, ex.Name, err))
				continue
			}
			log.Info("dropped index with stale options", zap.String("old_name", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if wantUnique && wafflemongo.IsDup(err) {
				errs = append(errs, name+": duplicates present, clean them up before restarting")
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			log.Warn("index create failed", zap.Error(err))
			continue
		}
		log.Info("index created", zap.Bool("unique", wantUnique), zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
