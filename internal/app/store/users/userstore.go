// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/authutil"
	"github.com/dalemusser/stratasite/internal/app/system/normalize"
	"github.com/dalemusser/stratasite/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the users collection.
const CollectionName = "users"

// ErrDuplicateEmail is returned when a user with the email already exists.
var ErrDuplicateEmail = errors.New("a user with this email already exists")

// Store holds the lookups used by sign-in and session loading. Create,
// update and delete from the dashboard and API go through the entity
// dispatcher.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// GetByID returns the user with id, or mongo.ErrNoDocuments.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user whose email matches after normalization.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CountAdmins returns the number of admin accounts.
func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
}

// CreateAdmin inserts a verified admin with a hashed password. It is used by
// startup seeding, which runs before the HTTP surface exists.
func (s *Store) CreateAdmin(ctx context.Context, name, email, password string) (models.User, error) {
	if err := authutil.ValidatePassword(password); err != nil {
		return models.User{}, err
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		Name:         normalize.Name(name),
		Email:        normalize.Email(email),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Verified:     true,
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}
