// cmd/backfill-slugs/backfill.go
package main

import (
	"context"

	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	"github.com/dalemusser/stratasite/internal/app/system/slug"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type assignment struct {
	ID          primitive.ObjectID
	ProjectName string
	Slug        string
}

type summary struct {
	Scanned  int
	Assigned []assignment
	Skipped  []assignment
}

// missingSlug matches a slug that is absent, null or empty.
var missingSlug = bson.M{"$or": bson.A{
	bson.M{"slug": bson.M{"$exists": false}},
	bson.M{"slug": nil},
	bson.M{"slug": ""},
}}

// backfill assigns slugs in creation order so older products keep the
// unsuffixed slug. With dryRun nothing is written, but slugs chosen earlier
// in the run still count as taken.
func backfill(ctx context.Context, db *mongo.Database, dryRun bool, logger *zap.Logger) (summary, error) {
	var sum summary
	coll := db.Collection(entitystore.ProductsCollection)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "project_name": 1})
	cur, err := coll.Find(ctx, missingSlug, opts)
	if err != nil {
		return sum, errors.Wrap(err, "find products without slug")
	}
	var docs []struct {
		ID          primitive.ObjectID `bson:"_id"`
		ProjectName string             `bson:"project_name"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return sum, errors.Wrap(err, "decode products")
	}

	claimed := map[string]bool{}
	for _, d := range docs {
		sum.Scanned++
		a := assignment{ID: d.ID, ProjectName: d.ProjectName}

		base := slug.Make(d.ProjectName)
		if base == "" {
			logger.Warn("product name yields no slug", zap.String("id", d.ID.Hex()))
			sum.Skipped = append(sum.Skipped, a)
			continue
		}

		taken := func(ctx context.Context, candidate string) (bool, error) {
			if claimed[candidate] {
				return true, nil
			}
			n, err := coll.CountDocuments(ctx, bson.M{"slug": candidate, "_id": bson.M{"$ne": d.ID}}, options.Count().SetLimit(1))
			return n > 0, err
		}
		s, err := slug.Unique(ctx, base, taken)
		if err != nil {
			return sum, errors.Wrapf(err, "derive slug for %s", d.ID.Hex())
		}
		a.Slug = s
		claimed[s] = true

		if !dryRun {
			if _, err := coll.UpdateByID(ctx, d.ID, bson.M{"$set": bson.M{"slug": s}}); err != nil {
				return sum, errors.Wrapf(err, "update %s", d.ID.Hex())
			}
		}
		logger.Info("slug assigned",
			zap.String("id", d.ID.Hex()),
			zap.String("slug", s),
			zap.Bool("dry_run", dryRun),
		)
		sum.Assigned = append(sum.Assigned, a)
	}
	return sum, nil
}
