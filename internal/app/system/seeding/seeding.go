// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"

	settingsstore "github.com/dalemusser/stratasite/internal/app/store/settings"
	userstore "github.com/dalemusser/stratasite/internal/app/store/users"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Admin describes the account created on an empty database. A blank email
// or password skips it.
type Admin struct {
	Name     string
	Email    string
	Password string
}

// SeedAll creates the singleton documents and, when configured and no admin
// exists yet, the first admin account.
func SeedAll(ctx context.Context, db *mongo.Database, admin Admin, logger *zap.Logger) error {
	if err := seedSingletons(ctx, db, logger); err != nil {
		return err
	}
	return seedAdmin(ctx, db, admin, logger)
}

func seedSingletons(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if _, err := settingsstore.NewSiteSettings(db).Get(ctx); err != nil {
		logger.Error("failed to seed site settings", zap.Error(err))
		return err
	}
	if _, err := settingsstore.NewHomepage(db).Get(ctx); err != nil {
		logger.Error("failed to seed homepage", zap.Error(err))
		return err
	}
	logger.Info("singleton documents ready")
	return nil
}

func seedAdmin(ctx context.Context, db *mongo.Database, admin Admin, logger *zap.Logger) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}
	users := userstore.New(db)
	n, err := users.CountAdmins(ctx)
	if err != nil {
		return errors.Wrap(err, "count admins")
	}
	if n > 0 {
		return nil
	}
	name := admin.Name
	if name == "" {
		name = "Administrator"
	}
	u, err := users.CreateAdmin(ctx, name, admin.Email, admin.Password)
	if err != nil {
		return errors.Wrap(err, "seed admin")
	}
	logger.Info("seeded admin account", zap.String("email", u.Email))
	return nil
}
