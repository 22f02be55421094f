package userstore

import (
	"testing"

	"github.com/dalemusser/stratasite/internal/app/system/authutil"
	"github.com/dalemusser/stratasite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestStore_CreateAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.CreateAdmin(ctx, " Site Admin ", "Admin@Example.com", "correct-horse")
	if err != nil {
		t.Fatalf("CreateAdmin() error = %v", err)
	}
	if u.ID.IsZero() || u.CreatedAt.IsZero() {
		t.Error("CreateAdmin() should assign id and timestamps")
	}
	if u.Email != "admin@example.com" || u.Name != "Site Admin" {
		t.Errorf("CreateAdmin() did not normalize: %+v", u)
	}
	if !authutil.CheckPassword("correct-horse", u.PasswordHash) {
		t.Error("stored hash should match the password")
	}

	// The raw document must not carry a plain password field.
	var raw bson.M
	if err := db.Collection(CollectionName).FindOne(ctx, bson.M{"_id": u.ID}).Decode(&raw); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	if _, has := raw["password"]; has {
		t.Error("document should not contain a password field")
	}

	if _, err := store.CreateAdmin(ctx, "Other", "ADMIN@example.com", "another-pass"); err != ErrDuplicateEmail {
		t.Errorf("duplicate email error = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_CreateAdmin_ShortPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.CreateAdmin(ctx, "A", "a@example.com", "short"); err != authutil.ErrPasswordTooShort {
		t.Errorf("CreateAdmin() error = %v, want ErrPasswordTooShort", err)
	}
	n, _ := store.CountAdmins(ctx)
	if n != 0 {
		t.Errorf("CountAdmins() = %d, want 0", n)
	}
}

func TestStore_Lookups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.CreateAdmin(ctx, "Admin", "admin@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("CreateAdmin() error = %v", err)
	}

	byEmail, err := store.GetByEmail(ctx, "  ADMIN@example.com ")
	if err != nil || byEmail.ID != u.ID {
		t.Errorf("GetByEmail() = %v, %v", byEmail, err)
	}
	byID, err := store.GetByID(ctx, u.ID)
	if err != nil || byID.Email != "admin@example.com" {
		t.Errorf("GetByID() = %v, %v", byID, err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("GetByID() missing error = %v, want ErrNoDocuments", err)
	}
	if n, _ := store.CountAdmins(ctx); n != 1 {
		t.Errorf("CountAdmins() = %d, want 1", n)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	f := NewFetcher(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.CreateAdmin(ctx, "Admin", "admin@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("CreateAdmin() error = %v", err)
	}

	su := f.FetchUser(ctx, u.ID.Hex())
	if su == nil {
		t.Fatal("FetchUser() returned nil for an existing user")
	}
	if su.Email != "admin@example.com" || su.Role != "admin" || su.Name != "Admin" {
		t.Errorf("FetchUser() = %+v", su)
	}

	if f.FetchUser(ctx, "not-an-id") != nil {
		t.Error("FetchUser() should return nil for a malformed id")
	}
	if f.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("FetchUser() should return nil for a missing user")
	}
}
