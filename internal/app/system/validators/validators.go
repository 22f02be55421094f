// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// collections lists every collection the site reads or writes. A nil schema
// means the collection is created without a validator.
var collections = []struct {
	name   string
	schema func() bson.M
}{
	{"users", usersSchema},
	{"blogs", blogsSchema},
	{"products", productsSchema},
	{"services", servicesSchema},
	{"categories", categoriesSchema},
	{"team", nil},
	{"contact_us", contactSchema},
	{"subscribers", nil},
	{"site_settings", nil},
	{"homepage", nil},
}

// EnsureAll creates missing collections and attaches their JSON Schema
// validators. Servers without collMod support (some DocumentDB versions)
// keep the collections and skip the validators.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var problems []string
	for _, c := range collections {
		if !have[c.name] {
			if err := db.CreateCollection(ctx, c.name); err != nil && classify(err) != errExists {
				problems = append(problems, c.name+": "+err.Error())
				continue
			}
			zap.L().Info("created collection", zap.String("collection", c.name))
		}
		if c.schema == nil {
			continue
		}
		switch err := setValidator(ctx, db, c.name, c.schema()); {
		case err == nil:
		case classify(err) == errUnsupported:
			zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.name))
		default:
			problems = append(problems, c.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// setValidator applies validator to new writes; documents already stored
// are left alone (validationLevel moderate).
func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

type errKind int

const (
	errOther errKind = iota
	errExists
	errUnsupported
)

// Server codes: 48 NamespaceExists, 59 CommandNotFound, 115 CommandNotSupported.
// Messages are matched too because DocumentDB does not always send codes.
func classify(err error) errKind {
	if err == nil {
		return errOther
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 48:
			return errExists
		case 59, 115:
			return errUnsupported
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already exists"), strings.Contains(msg, "namespace exists"):
		return errExists
	case strings.Contains(msg, "no such command"), strings.Contains(msg, "not implemented"), strings.Contains(msg, "not supported"):
		return errUnsupported
	}
	return errOther
}

// bilingual is the schema of an {en, ar} pair with both halves non-blank.
func bilingual() bson.M {
	nonBlank := bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	return bson.M{
		"bsonType":   "object",
		"required":   bson.A{"en", "ar"},
		"properties": bson.M{"en": nonBlank, "ar": nonBlank},
	}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "role", "password_hash"},
			"properties": bson.M{
				"name":          bson.M{"bsonType": "string"},
				"email":         bson.M{"bsonType": "string", "minLength": 3},
				"password_hash": bson.M{"bsonType": "string", "minLength": 1},
				"role":          bson.M{"enum": bson.A{"user", "admin"}},
				"verified":      bson.M{"bsonType": "bool"},
			},
		},
	}
}

func blogsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "description", "sections", "slug"},
			"properties": bson.M{
				"title":       bilingual(),
				"description": bilingual(),
				"slug":        bson.M{"bsonType": "string", "minLength": 1},
				"sections": bson.M{
					"bsonType": "array",
					"minItems": 1,
					"items": bson.M{
						"bsonType":   "object",
						"required":   bson.A{"type"},
						"properties": bson.M{"type": bson.M{"enum": bson.A{"text", "image"}}},
					},
				},
			},
		},
	}
}

func productsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"project_name", "description", "cover_image", "slug"},
			"properties": bson.M{
				"project_name": bson.M{"bsonType": "string", "minLength": 1},
				"description":  bilingual(),
				"cover_image":  bson.M{"bsonType": "string", "minLength": 1},
				"category":     bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func servicesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "icon", "descriptions", "slug"},
			"properties": bson.M{
				"title":        bilingual(),
				"icon":         bson.M{"bsonType": "string", "minLength": 1},
				"descriptions": bson.M{"bsonType": "array", "minItems": 1, "items": bilingual()},
			},
		},
	}
}

func categoriesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name_en", "name_ar", "slug"},
			"properties": bson.M{
				"name_en": bson.M{"bsonType": "string", "minLength": 1},
				"name_ar": bson.M{"bsonType": "string", "minLength": 1},
				"slug":    bson.M{"bsonType": "string", "minLength": 1},
			},
		},
	}
}

func contactSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "message"},
			"properties": bson.M{
				"name":     bson.M{"bsonType": "string", "minLength": 1},
				"email":    bson.M{"bsonType": "string", "minLength": 3},
				"message":  bson.M{"bsonType": "string", "minLength": 1},
				"services": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
			},
		},
	}
}
