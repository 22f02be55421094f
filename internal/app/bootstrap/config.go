// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/locale"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATASITE"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: STRATASITE_MONGO_URI, STRATASITE_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratasite", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "stratasite-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// JSON API bearer tokens
	{Name: "token_secret", Default: "dev-only-token-secret-change-me-0123456789", Desc: "HMAC secret for API bearer tokens"},
	{Name: "token_ttl", Default: "24h", Desc: "API bearer token lifetime"},
	{Name: "api_cors_origins", Default: "", Desc: "Comma-separated origins allowed to call /api (blank allows any)"},

	// Media storage configuration
	{Name: "storage_type", Default: "local", Desc: "Media backend: 'local', 's3' or 'none' to disable uploads"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded media"},
	{Name: "storage_local_url", Default: "/media", Desc: "URL prefix for serving local media"},
	{Name: "upload_timeout", Default: "60s", Desc: "Deadline for writing one uploaded file to storage"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@example.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "StrataSite", Desc: "From display name"},
	{Name: "contact_notify_email", Default: "", Desc: "Inbox notified of contact submissions (blank disables)"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Base URL for email links"},
	{Name: "default_locale", Default: "en", Desc: "Fallback locale: 'en' or 'ar'"},

	// Admin seeding configuration
	{Name: "seed_admin_email", Default: "", Desc: "Email of admin user to create on an empty database"},
	{Name: "seed_admin_name", Default: "Admin", Desc: "Name of the seeded admin user"},
	{Name: "seed_admin_password", Default: "", Desc: "Password of the seeded admin user"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, STRATASITE_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		TokenSecret:    appValues.String("token_secret"),
		TokenTTL:       appValues.Duration("token_ttl", 24*time.Hour),
		APICORSOrigins: splitList(appValues.String("api_cors_origins")),

		// Media storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  strings.TrimRight(appValues.String("storage_local_url"), "/"),
		UploadTimeout:    appValues.Duration("upload_timeout", 60*time.Second),

		// S3/CloudFront
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		// Email/SMTP
		MailSMTPHost:       appValues.String("mail_smtp_host"),
		MailSMTPPort:       appValues.Int("mail_smtp_port"),
		MailSMTPUser:       appValues.String("mail_smtp_user"),
		MailSMTPPass:       appValues.String("mail_smtp_pass"),
		MailFrom:           appValues.String("mail_from"),
		MailFromName:       appValues.String("mail_from_name"),
		ContactNotifyEmail: appValues.String("contact_notify_email"),

		BaseURL:       appValues.String("base_url"),
		DefaultLocale: strings.ToLower(strings.TrimSpace(appValues.String("default_locale"))),

		// Admin seeding
		SeedAdminEmail:    appValues.String("seed_admin_email"),
		SeedAdminName:     appValues.String("seed_admin_name"),
		SeedAdminPassword: appValues.String("seed_admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if !locale.IsSupported(appCfg.DefaultLocale) {
		logger.Error("unsupported default locale", zap.String("default_locale", appCfg.DefaultLocale))
		return fmt.Errorf("default_locale must be one of %v, got %q", locale.Supported, appCfg.DefaultLocale)
	}
	if strings.TrimSpace(appCfg.TokenSecret) == "" {
		logger.Error("token secret is empty")
		return fmt.Errorf("token_secret must be set")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.TokenSecret, "dev-only") {
		logger.Warn("token_secret is the development default; set a strong secret in production")
	}
	return nil
}

// splitList parses a comma-separated config value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
