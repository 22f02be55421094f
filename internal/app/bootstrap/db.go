// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/stratasite/internal/app/system/indexes"
	"github.com/dalemusser/stratasite/internal/app/system/mailer"
	"github.com/dalemusser/stratasite/internal/app/system/seeding"
	"github.com/dalemusser/stratasite/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// ConnectDB opens MongoDB and builds the media store and the mailer the
// later hooks share through DBDeps.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	pool := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		pool.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		pool.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, pool)
	if err != nil {
		return DBDeps{}, err
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", pool.MaxPoolSize),
	)

	media, err := newMediaStore(ctx, appCfg, logger)
	if err != nil {
		return DBDeps{}, err
	}

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
	logger.Info("mailer ready",
		zap.String("smtp", fmt.Sprintf("%s:%d", appCfg.MailSMTPHost, appCfg.MailSMTPPort)),
		zap.Bool("contact_notices", appCfg.ContactNotifyEmail != ""),
	)

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		FileStorage:   media,
		Mailer:        mail,
	}, nil
}

// newMediaStore returns the backend dashboard uploads are written to, or nil
// when storage_type is "none".
func newMediaStore(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (storage.Store, error) {
	switch appCfg.StorageType {
	case "none":
		logger.Info("media uploads disabled")
		return nil, nil
	case "s3":
		s, err := storage.NewS3(ctx, storage.S3Config{
			Region:                   appCfg.StorageS3Region,
			Bucket:                   appCfg.StorageS3Bucket,
			Prefix:                   appCfg.StorageS3Prefix,
			CloudFrontURL:            appCfg.StorageCFURL,
			CloudFrontKeyPairID:      appCfg.StorageCFKeyPairID,
			CloudFrontPrivateKeyPath: appCfg.StorageCFKeyPath,
		})
		if err != nil {
			return nil, fmt.Errorf("media storage (s3): %w", err)
		}
		logger.Info("media stored in S3", zap.String("bucket", appCfg.StorageS3Bucket), zap.String("cdn", appCfg.StorageCFURL))
		return s, nil
	case "local", "":
		s, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return nil, fmt.Errorf("media storage (local): %w", err)
		}
		logger.Info("media stored on disk", zap.String("path", appCfg.StorageLocalPath), zap.String("url", appCfg.StorageLocalURL))
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage_type %q (want local, s3 or none)", appCfg.StorageType)
}

// EnsureSchema brings the database up to what the handlers expect: JSON
// Schema validators first so the collections exist, then indexes, then the
// homepage and settings singletons and the optional first admin. Each step
// is idempotent and runs on every start.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase
	admin := seeding.Admin{
		Name:     appCfg.SeedAdminName,
		Email:    appCfg.SeedAdminEmail,
		Password: appCfg.SeedAdminPassword,
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"validators", func(ctx context.Context) error { return validators.EnsureAll(ctx, db) }},
		{"indexes", func(ctx context.Context) error { return indexes.EnsureAll(ctx, db) }},
		{"seed data", func(ctx context.Context) error { return seeding.SeedAll(ctx, db, admin, logger) }},
	}
	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			logger.Error("schema step failed", zap.String("step", s.name), zap.Error(err))
			return fmt.Errorf("%s: %w", s.name, err)
		}
		logger.Debug("schema step done", zap.String("step", s.name))
	}
	logger.Info("database schema ensured")
	return nil
}
