// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/stratasite/internal/app/resources"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/dalemusser/stratasite/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// It registers the shared templates, points viewdata at the database so every
// page can load site settings, and applies the configured database timeouts.
// The admin seed already ran in EnsureSchema.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	viewdata.Init(deps.MongoDatabase, appCfg.DefaultLocale, logger)

	timeouts.Configure(timeouts.Config{
		Ping:   coreCfg.DBConnectTimeout,
		Upload: appCfg.UploadTimeout,
	})

	logger.Info("startup complete",
		zap.String("default_locale", appCfg.DefaultLocale),
		zap.String("storage_type", appCfg.StorageType),
	)
	return nil
}
