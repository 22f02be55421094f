// Package testutil holds the fixtures shared by handler and store tests: a
// per-test MongoDB database, signed-in request builders and a booted
// template engine.
package testutil

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestDBPrefix starts the name of every database SetupTestDB creates.
const TestDBPrefix = "stratasite_test_"

// TestDBURI returns STRATASITE_TEST_MONGO_URI, or a local server.
func TestDBURI() string {
	if v := os.Getenv("STRATASITE_TEST_MONGO_URI"); v != "" {
		return v
	}
	return "mongodb://localhost:27017"
}

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

func sharedClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Client().
			ApplyURI(TestDBURI()).
			SetMaxPoolSize(200).
			SetMaxConnIdleTime(30 * time.Second).
			SetServerSelectionTimeout(10 * time.Second)
		if client, clientErr = mongo.Connect(ctx, opts); clientErr == nil {
			clientErr = client.Ping(ctx, nil)
		}
	})
	return client, clientErr
}

// SetupTestDB returns an empty database private to t with every production
// index in place. The database is dropped when t finishes.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	c, err := sharedClient()
	if err != nil {
		t.Fatalf("connect test MongoDB at %s: %v", TestDBURI(), err)
	}
	db := c.Database(dbName(t.Name()))

	ctx, cancel := TestContext()
	defer cancel()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop %s: %v", db.Name(), err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop %s on cleanup: %v", db.Name(), err)
		}
	})
	return db
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// dbName maps a test name to a database name within MongoDB's 63 byte
// limit. Long names are cut and suffixed with a hash so subtests that share
// a prefix still get distinct databases.
func dbName(test string) string {
	const max = 63
	name := TestDBPrefix + unsafeName.ReplaceAllString(test, "_")
	if len(name) <= max {
		return name
	}
	sum := sha1.Sum([]byte(test))
	suffix := "_" + hex.EncodeToString(sum[:])[:8]
	return name[:max-len(suffix)] + suffix
}

// TestContext bounds a single test's database calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
