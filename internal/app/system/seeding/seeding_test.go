package seeding

import (
	"testing"

	userstore "github.com/dalemusser/stratasite/internal/app/store/users"
	"github.com/dalemusser/stratasite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestSeedAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := Admin{Email: "owner@example.com", Password: "correct-horse"}
	for i := 0; i < 2; i++ {
		if err := SeedAll(ctx, db, admin, zap.NewNop()); err != nil {
			t.Fatalf("SeedAll() run %d error = %v", i+1, err)
		}
	}

	for _, coll := range []string{"site_settings", "homepage"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{"singleton": true})
		if err != nil || n != 1 {
			t.Errorf("%s singleton count = %d (%v), want 1", coll, n, err)
		}
	}

	n, err := userstore.New(db).CountAdmins(ctx)
	if err != nil || n != 1 {
		t.Errorf("admin count = %d (%v), want 1", n, err)
	}
}

func TestSeedAll_NoAdminConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := SeedAll(ctx, db, Admin{}, zap.NewNop()); err != nil {
		t.Fatalf("SeedAll() error = %v", err)
	}
	if n, _ := userstore.New(db).CountAdmins(ctx); n != 0 {
		t.Errorf("admin count = %d, want 0", n)
	}
}
